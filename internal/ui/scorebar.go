package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/robalobadob/mastermind/internal/game"
)

// ScoreBar prints cumulative scores whenever the session state changes.
// It stays hidden while there is no session.
type ScoreBar struct {
	out   io.Writer
	theme *Theme

	mu sync.Mutex
	st *game.State
}

// ShowScores implements session.ScoreDisplay.
func (b *ScoreBar) ShowScores(st *game.State) {
	b.mu.Lock()
	b.st = st
	b.mu.Unlock()
	if st != nil {
		fmt.Fprintln(b.out, b.Render())
	}
}

// Visible reports whether a session is being scored.
func (b *ScoreBar) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.st != nil
}

// Render returns the bar text, or "" while hidden.
func (b *ScoreBar) Render() string {
	b.mu.Lock()
	st := b.st
	b.mu.Unlock()
	if st == nil {
		return ""
	}
	return b.theme.Muted("Score | ") + strings.Join(scoreLines(st, st.Scores), b.theme.Muted(" | "))
}

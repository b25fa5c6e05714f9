package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/screen"
)

// roundOverHandler shows the round result.
type roundOverHandler struct {
	view
}

func newRoundOver(ctrl Controller, out io.Writer, theme *Theme) *roundOverHandler {
	return &roundOverHandler{view: view{id: screen.RoundOver, ctrl: ctrl, out: out, theme: theme}}
}

func (h *roundOverHandler) Show() {
	h.visible = true
	st, res := h.ctrl.State(), h.ctrl.Result()
	if st == nil || res == nil {
		return
	}
	t := h.theme
	h.println()
	if res.Solved {
		h.println(t.Good("Round Won!"))
	} else {
		h.println(t.Bad("Round Lost"))
	}
	h.println("Secret:          ", t.Code(res.Secret))
	h.println("Winner:          ", res.Winner)
	h.println("Points Awarded:  ", strconv.Itoa(res.PointsAwarded))
	h.println(t.Title("Total scores"))
	for _, line := range scoreLines(st, res.TotalScores) {
		h.println("  ", line)
	}
	h.println(t.Muted("Type next for another round or end to finish."))
}

// scoreLines lists totals by display name.
func scoreLines(st *game.State, s game.Scores) []string {
	if st.Mode != game.ModeTwoPlayer {
		return []string{fmt.Sprintf("Player: %d", s.ClassicPlayer)}
	}
	return []string{
		fmt.Sprintf("%s: %d", st.PlayerNames.Mastermind, s.Mastermind),
		fmt.Sprintf("%s: %d", st.PlayerNames.Guesser, s.Guesser),
	}
}

func (h *roundOverHandler) Help() []string {
	return []string{
		"next               start the next round",
		"end                end the game and return to setup",
	}
}

func (h *roundOverHandler) Handle(ctx context.Context, cmd string, _ []string) error {
	switch cmd {
	case "next":
		return h.ctrl.StartNewRound(ctx)
	case "end":
		return h.ctrl.EndSession()
	}
	return errUnknownCommand
}

// internal/enginetest/engine.go
//
// Deterministic game engine behind the test double.
// Responsibilities:
//   - Build round palettes from the fixed global color list.
//   - Accept secrets (two-player) or pick them (classic).
//   - Validate and score guesses with the two-pass black/white algorithm.
//   - Resolve rounds into points and cumulative scores, swap roles.
//
// Notes:
//   - Palettes rotate through GlobalColors by round so consecutive rounds
//     differ, but every value is reproducible from (pegs, difficulty, round).
//   - The secret chooser is pluggable so tests can pin the code.

package enginetest

import (
	"errors"

	"github.com/robalobadob/mastermind/internal/game"
)

// GlobalColors is the full color list palettes are drawn from.
var GlobalColors = []game.Color{
	"#E74C3C", "#3498DB", "#2ECC71", "#F39C12",
	"#9B59B6", "#1ABC9C", "#E67E22", "#34495E",
	"#F1C40F", "#16A085", "#C0392B", "#8E44AD",
}

// SecretFunc chooses a classic-mode secret for a round.
type SecretFunc func(round int, palette []game.Color, pegs int) []game.Color

// FirstColors picks the first pegs colors of the palette.
func FirstColors(_ int, palette []game.Color, pegs int) []game.Color {
	return append([]game.Color(nil), palette[:pegs]...)
}

// PaletteSize mirrors the engine policy: extra colors grow with difficulty,
// capped at the global list.
func PaletteSize(pegs int, d game.Difficulty) int {
	extra := 4
	switch d {
	case game.DifficultyEasy:
		extra = 1
	case game.DifficultyNormal:
		extra = 2
	}
	if n := pegs + extra; n < len(GlobalColors) {
		return n
	}
	return len(GlobalColors)
}

// MaxAttempts per difficulty.
func MaxAttempts(d game.Difficulty) int {
	switch d {
	case game.DifficultyEasy:
		return 12
	case game.DifficultyHard:
		return 8
	}
	return 10
}

// Palette returns the round palette for the given round.
func Palette(pegs int, d game.Difficulty, round int) []game.Color {
	n := PaletteSize(pegs, d)
	out := make([]game.Color, n)
	off := (round * 3) % len(GlobalColors)
	for i := range out {
		out[i] = GlobalColors[(off+i)%len(GlobalColors)]
	}
	return out
}

// Game holds one engine-side session.
type Game struct {
	ID                string
	Mode              game.Mode
	Difficulty        game.Difficulty
	PegCount          int
	MaxAttempts       int
	Palette           []game.Color
	Secret            []game.Color
	History           []game.GuessAttempt
	Round             int
	Status            game.Status
	Scores            game.Scores
	Names             game.PlayerNames
	CurrentMastermind game.Role

	secretFn SecretFunc
}

// NewGame validates settings and opens round zero.
func NewGame(id string, mode game.Mode, d game.Difficulty, pegs int, names *game.PlayerNames, fn SecretFunc) (*Game, error) {
	if pegs < game.MinPegs || pegs > game.MaxPegs {
		return nil, errors.New("Peg count must be between 4 and 8")
	}
	if !mode.Valid() {
		return nil, errors.New("Unknown mode")
	}
	if d == "" {
		d = game.DifficultyNormal
	}
	if !d.Valid() {
		return nil, errors.New("Unknown difficulty")
	}
	if fn == nil {
		fn = FirstColors
	}
	g := &Game{
		ID:                id,
		Mode:              mode,
		Difficulty:        d,
		PegCount:          pegs,
		MaxAttempts:       MaxAttempts(d),
		CurrentMastermind: game.RoleMastermind,
		secretFn:          fn,
	}
	if names != nil {
		g.Names = *names
	}
	g.openRound()
	return g, nil
}

// openRound resets per-round state and, in classic mode, picks the secret.
func (g *Game) openRound() {
	g.History = []game.GuessAttempt{}
	g.Secret = nil
	g.Palette = Palette(g.PegCount, g.Difficulty, g.Round)
	if g.Mode == game.ModeSolo {
		g.Secret = g.secretFn(g.Round, g.Palette, g.PegCount)
		g.Status = game.StatusGuessing
		return
	}
	g.Status = game.StatusMastermindSet
}

// SetSecret stores the mastermind's code.
func (g *Game) SetSecret(secret []game.Color) error {
	if g.Status != game.StatusMastermindSet {
		return errors.New("Secret already set")
	}
	if err := g.checkCode(secret); err != nil {
		return err
	}
	g.Secret = append([]game.Color(nil), secret...)
	g.Status = game.StatusGuessing
	return nil
}

// ApplyGuess validates and scores a guess, mutating the game.
// Returns the feedback and whether the round is now over.
func (g *Game) ApplyGuess(guess []game.Color) (game.Feedback, bool, error) {
	switch g.Status {
	case game.StatusMastermindSet:
		return game.Feedback{}, false, errors.New("Secret not set")
	case game.StatusRoundOver:
		return game.Feedback{}, true, errors.New("Round is over")
	}
	if err := g.checkCode(guess); err != nil {
		return game.Feedback{}, false, err
	}

	score := scoreGuess(g.Secret, guess)
	g.History = append(g.History, game.GuessAttempt{Guess: append([]game.Color(nil), guess...), Score: score})

	if score.Black == g.PegCount || len(g.History) >= g.MaxAttempts {
		g.Status = game.StatusRoundOver
		return score, true, nil
	}
	return score, false, nil
}

// Solved reports whether the last guess matched the secret.
func (g *Game) Solved() bool {
	n := len(g.History)
	return n > 0 && g.History[n-1].Score.Black == g.PegCount
}

// EndRound awards points and returns the round result.
//   - Solved: the guesser earns max_attempts - attempts_used + 1.
//   - Unsolved: the mastermind earns max_attempts (classic: nobody scores).
func (g *Game) EndRound() (*game.RoundResult, error) {
	if g.Status != game.StatusRoundOver {
		return nil, errors.New("Round is not over")
	}
	solved := g.Solved()
	points := 0
	var winner string
	switch {
	case g.Mode == game.ModeSolo && solved:
		points = g.MaxAttempts - len(g.History) + 1
		g.Scores.ClassicPlayer += points
		winner = "player"
	case g.Mode == game.ModeSolo:
		winner = "system"
	case solved:
		points = g.MaxAttempts - len(g.History) + 1
		g.addScore(g.CurrentMastermind.Other(), points)
		winner = g.Names.Name(g.CurrentMastermind.Other())
	default:
		points = g.MaxAttempts
		g.addScore(g.CurrentMastermind, points)
		winner = g.Names.Name(g.CurrentMastermind)
	}
	return &game.RoundResult{
		Solved:        solved,
		Secret:        append([]game.Color(nil), g.Secret...),
		Winner:        winner,
		PointsAwarded: points,
		TotalScores:   g.Scores,
	}, nil
}

// addScore credits the player sitting in slot r.
func (g *Game) addScore(r game.Role, n int) {
	if r == game.RoleGuesser {
		g.Scores.Guesser += n
		return
	}
	g.Scores.Mastermind += n
}

// StartNewRound advances the round counter and swaps roles in two-player.
func (g *Game) StartNewRound() {
	g.Round++
	if g.Mode == game.ModeTwoPlayer {
		g.CurrentMastermind = g.CurrentMastermind.Other()
	}
	g.openRound()
}

// Snapshot renders the wire state. The secret is revealed only once the
// round is over.
func (g *Game) Snapshot() *game.State {
	st := &game.State{
		Mode:              g.Mode,
		Difficulty:        g.Difficulty,
		PegCount:          g.PegCount,
		MaxAttempts:       g.MaxAttempts,
		RoundPalette:      append([]game.Color(nil), g.Palette...),
		AttemptsUsed:      len(g.History),
		History:           make([]game.GuessAttempt, len(g.History)),
		RoundNumber:       g.Round,
		Status:            g.Status,
		Scores:            g.Scores,
		PlayerNames:       g.Names,
		CurrentMastermind: g.CurrentMastermind,
	}
	copy(st.History, g.History)
	if g.Status == game.StatusRoundOver {
		st.Secret = append([]game.Color(nil), g.Secret...)
	}
	return st
}

// checkCode enforces length, distinct colors and palette membership.
func (g *Game) checkCode(code []game.Color) error {
	if len(code) != g.PegCount {
		if g.Status == game.StatusMastermindSet {
			return errors.New("Invalid secret length")
		}
		return errors.New("Invalid guess length")
	}
	seen := make(map[game.Color]bool, len(code))
	for _, c := range code {
		if seen[c] {
			if g.Status == game.StatusMastermindSet {
				return errors.New("Secret contains duplicates")
			}
			return errors.New("Guess contains duplicates")
		}
		seen[c] = true
	}
	for _, c := range code {
		if !contains(g.Palette, c) {
			return errors.New("Color not in round palette")
		}
	}
	return nil
}

// scoreGuess is the two-pass peg scoring algorithm.
//
// Pass 1:
//   - Count exact position matches as black; collect the unmatched secret
//     colors.
//
// Pass 2:
//   - For each unmatched guess color, if an unmatched secret color remains,
//     count white and consume it.
//
// Counting consumed colors keeps repeated colors correct on both sides.
func scoreGuess(secret, guess []game.Color) game.Feedback {
	var fb game.Feedback
	remaining := make(map[game.Color]int, len(secret))
	open := make([]bool, len(guess))

	// First pass: blacks.
	for i := range guess {
		if i < len(secret) && guess[i] == secret[i] {
			fb.Black++
			continue
		}
		open[i] = true
		if i < len(secret) {
			remaining[secret[i]]++
		}
	}

	// Second pass: whites from what is left.
	for i, c := range guess {
		if open[i] && remaining[c] > 0 {
			fb.White++
			remaining[c]--
		}
	}
	return fb
}

func contains(cs []game.Color, c game.Color) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}

// internal/game/types.go
//
// Core type definitions shared by the session client and the engine double.
// Defines:
//   - Mode, Difficulty, Role, Status: wire enums.
//   - Color: opaque palette entry.
//   - Feedback / GuessAttempt: one scored guess.
//   - State: the session snapshot returned by every engine call.
//   - RoundResult: the outcome of a finished round.

package game

// Peg count bounds accepted by the engine.
const (
	MinPegs = 4
	MaxPegs = 8
)

// Mode selects single-player or pass-and-play.
type Mode string

const (
	ModeSolo      Mode = "classic"
	ModeTwoPlayer Mode = "two_player"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == ModeSolo || m == ModeTwoPlayer }

// Difficulty is opaque to the client; the engine derives palette size from it.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

// Role names a player-name slot. In two-player mode the slot held in
// State.CurrentMastermind sets the code; the other slot guesses.
type Role string

const (
	RoleMastermind Role = "mastermind"
	RoleGuesser    Role = "guesser"
)

// Other returns the opposite slot.
func (r Role) Other() Role {
	if r == RoleMastermind {
		return RoleGuesser
	}
	return RoleMastermind
}

// Status is the engine's coarse round status.
type Status string

const (
	StatusSetup         Status = "setup"
	StatusGuessing      Status = "guessing"
	StatusMastermindSet Status = "mastermind_set"
	StatusRoundOver     Status = "round_over"
)

// Color is an opaque palette identifier (a hex string in practice).
// It must round-trip unchanged through every engine call.
type Color string

// Feedback is the black/white peg count for one guess.
//   - Black: right color, right position.
//   - White: right color, wrong position.
type Feedback struct {
	Black int `json:"black"`
	White int `json:"white"`
}

// GuessAttempt is one scored guess in the round history.
type GuessAttempt struct {
	Guess []Color  `json:"guess"`
	Score Feedback `json:"score"`
}

// PlayerNames maps both slots to display names (two-player only).
type PlayerNames struct {
	Mastermind string `json:"mastermind"`
	Guesser    string `json:"guesser"`
}

// Name returns the display name held by slot r.
func (p PlayerNames) Name(r Role) string {
	if r == RoleGuesser {
		return p.Guesser
	}
	return p.Mastermind
}

// Scores carries cumulative points. Solo mode uses ClassicPlayer; two-player
// uses Mastermind and Guesser. The wire always carries all three.
type Scores struct {
	ClassicPlayer int `json:"classic_player"`
	Mastermind    int `json:"mastermind"`
	Guesser       int `json:"guesser"`
}

// State is an immutable session snapshot. Holders must treat it as
// read-only; every engine response produces a fresh value.
type State struct {
	Mode              Mode           `json:"mode"`
	Difficulty        Difficulty     `json:"difficulty"`
	PegCount          int            `json:"peg_count"`
	MaxAttempts       int            `json:"max_attempts"`
	RoundPalette      []Color        `json:"round_palette"`
	AttemptsUsed      int            `json:"attempts_used"`
	History           []GuessAttempt `json:"history"`
	RoundNumber       int            `json:"round_number"`
	Status            Status         `json:"status,omitempty"`
	Scores            Scores         `json:"scores"`
	PlayerNames       PlayerNames    `json:"player_names"`
	CurrentMastermind Role           `json:"current_mastermind"`
	Secret            []Color        `json:"secret,omitempty"`
}

// RoundResult is produced once per round by end-round.
type RoundResult struct {
	Solved        bool    `json:"solved"`
	Secret        []Color `json:"secret"`
	Winner        string  `json:"winner"`
	PointsAwarded int     `json:"points_awarded"`
	TotalScores   Scores  `json:"total_scores"`
}

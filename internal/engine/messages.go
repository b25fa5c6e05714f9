package engine

import "github.com/robalobadob/mastermind/internal/game"

// envelope is the success/error shape shared by every /api response.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// InitRequest is the body of POST /initialize.
type InitRequest struct {
	Mode        game.Mode         `json:"mode"`
	Difficulty  game.Difficulty   `json:"difficulty"`
	PegCount    int               `json:"peg_count"`
	PlayerNames *game.PlayerNames `json:"player_names,omitempty"`
}

type secretReq struct {
	Secret []game.Color `json:"secret"`
}

type guessReq struct {
	Guess []game.Color `json:"guess"`
}

type stateRes struct {
	State *game.State `json:"state"`
}

// GuessResult is the decoded POST /guess response.
type GuessResult struct {
	State        *game.State   `json:"state"`
	Score        game.Feedback `json:"score"`
	Solved       bool          `json:"solved"`
	AttemptsUsed int           `json:"attempts_used"`
	RoundOver    bool          `json:"round_over"`
}

type endRoundRes struct {
	Result *game.RoundResult `json:"result"`
}

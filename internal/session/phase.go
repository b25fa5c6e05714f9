package session

import "github.com/robalobadob/mastermind/internal/game"

// Phase is the controller's position in the session flow.
type Phase string

const (
	PhaseSetup       Phase = "SETUP"        // choosing mode, difficulty, pegs, names
	PhaseSecretEntry Phase = "SECRET_ENTRY" // mastermind picks the code
	PhaseHandover    Phase = "HANDOVER"     // device passes to the guesser
	PhaseGuessing    Phase = "GUESSING"     // guess loop
	PhaseRoundOver   Phase = "ROUND_OVER"   // result shown, next round or end
)

// String returns the string representation of the phase.
func (p Phase) String() string { return string(p) }

var transitions = map[Phase][]Phase{
	PhaseSetup:       {PhaseSecretEntry, PhaseGuessing},
	PhaseSecretEntry: {PhaseHandover, PhaseSetup},
	PhaseHandover:    {PhaseGuessing, PhaseSetup},
	PhaseGuessing:    {PhaseRoundOver, PhaseSetup},
	PhaseRoundOver:   {PhaseSecretEntry, PhaseGuessing, PhaseSetup},
}

// CanTransitionTo reports whether moving from p to target is legal.
// Staying in the same phase is not a transition.
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range transitions[p] {
		if next == target {
			return true
		}
	}
	return false
}

// entryPhase is where a round starts for the given mode.
func entryPhase(m game.Mode) Phase {
	if m == game.ModeTwoPlayer {
		return PhaseSecretEntry
	}
	return PhaseGuessing
}

package game

import "fmt"

// MastermindName is the display name of the player currently setting the code.
func (s *State) MastermindName() string {
	return s.PlayerNames.Name(s.currentMastermind())
}

// GuesserName is the display name of the player currently guessing.
func (s *State) GuesserName() string {
	return s.PlayerNames.Name(s.currentMastermind().Other())
}

func (s *State) currentMastermind() Role {
	if s.CurrentMastermind == "" {
		return RoleMastermind
	}
	return s.CurrentMastermind
}

// InPalette reports whether c is offered this round.
func (s *State) InPalette(c Color) bool {
	for _, p := range s.RoundPalette {
		if p == c {
			return true
		}
	}
	return false
}

// AttemptsLeft is max_attempts minus attempts_used, floored at zero.
func (s *State) AttemptsLeft() int {
	if n := s.MaxAttempts - s.AttemptsUsed; n > 0 {
		return n
	}
	return 0
}

// Clone returns a deep copy so a new snapshot never shares slices with
// the one it replaces.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.RoundPalette = append([]Color(nil), s.RoundPalette...)
	out.Secret = append([]Color(nil), s.Secret...)
	out.History = make([]GuessAttempt, len(s.History))
	for i, a := range s.History {
		out.History[i] = GuessAttempt{Guess: append([]Color(nil), a.Guess...), Score: a.Score}
	}
	return &out
}

// WithRoundResult derives the post-resolution snapshot: cumulative scores
// from the result, the revealed secret, and round_over status.
func (s *State) WithRoundResult(r *RoundResult) *State {
	out := s.Clone()
	out.Scores = r.TotalScores
	out.Secret = append([]Color(nil), r.Secret...)
	out.Status = StatusRoundOver
	return out
}

// Check enforces the snapshot invariants. Engine responses that fail it are
// rejected so a bad reply never replaces good state.
func (s *State) Check() error {
	if !s.Mode.Valid() {
		return fmt.Errorf("unknown mode %q", s.Mode)
	}
	if s.PegCount < MinPegs || s.PegCount > MaxPegs {
		return fmt.Errorf("peg count %d out of range", s.PegCount)
	}
	if len(s.RoundPalette) < s.PegCount {
		return fmt.Errorf("palette has %d colors for %d pegs", len(s.RoundPalette), s.PegCount)
	}
	if hasDuplicates(s.RoundPalette) {
		return fmt.Errorf("palette contains duplicates")
	}
	if s.RoundNumber < 0 {
		return fmt.Errorf("negative round number")
	}
	if s.AttemptsUsed < 0 || s.AttemptsUsed > s.MaxAttempts {
		return fmt.Errorf("attempts %d/%d out of range", s.AttemptsUsed, s.MaxAttempts)
	}
	if len(s.History) != s.AttemptsUsed {
		return fmt.Errorf("history has %d entries for %d attempts", len(s.History), s.AttemptsUsed)
	}
	for i, a := range s.History {
		if len(a.Guess) != s.PegCount {
			return fmt.Errorf("history[%d] has %d pegs", i, len(a.Guess))
		}
		if a.Score.Black < 0 || a.Score.White < 0 || a.Score.Black+a.Score.White > s.PegCount {
			return fmt.Errorf("history[%d] feedback %d/%d out of range", i, a.Score.Black, a.Score.White)
		}
	}
	if s.Mode == ModeTwoPlayer {
		if s.CurrentMastermind != RoleMastermind && s.CurrentMastermind != RoleGuesser {
			return fmt.Errorf("unknown role %q", s.CurrentMastermind)
		}
	}
	return nil
}

func hasDuplicates(cs []Color) bool {
	seen := make(map[Color]struct{}, len(cs))
	for _, c := range cs {
		if _, ok := seen[c]; ok {
			return true
		}
		seen[c] = struct{}{}
	}
	return false
}

package game

import "testing"

func validState() *State {
	return &State{
		Mode:         ModeTwoPlayer,
		Difficulty:   DifficultyNormal,
		PegCount:     4,
		MaxAttempts:  10,
		RoundPalette: []Color{"#E74C3C", "#3498DB", "#2ECC71", "#F39C12", "#9B59B6", "#1ABC9C"},
		AttemptsUsed: 1,
		History: []GuessAttempt{
			{Guess: []Color{"#E74C3C", "#3498DB", "#2ECC71", "#F39C12"}, Score: Feedback{Black: 1, White: 2}},
		},
		PlayerNames:       PlayerNames{Mastermind: "Alice", Guesser: "Bob"},
		CurrentMastermind: RoleMastermind,
	}
}

func TestCheck(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *State)
		ok     bool
	}{
		{"valid", func(s *State) {}, true},
		{"unknown mode", func(s *State) { s.Mode = "arcade" }, false},
		{"too few pegs", func(s *State) { s.PegCount = 3 }, false},
		{"too many pegs", func(s *State) { s.PegCount = 9 }, false},
		{"small palette", func(s *State) { s.RoundPalette = s.RoundPalette[:3] }, false},
		{"duplicate palette", func(s *State) { s.RoundPalette[1] = s.RoundPalette[0] }, false},
		{"attempts over max", func(s *State) { s.MaxAttempts = 0 }, false},
		{"history mismatch", func(s *State) { s.AttemptsUsed = 2; s.MaxAttempts = 10 }, false},
		{"feedback overflow", func(s *State) { s.History[0].Score = Feedback{Black: 3, White: 2} }, false},
		{"short guess", func(s *State) { s.History[0].Guess = s.History[0].Guess[:2] }, false},
		{"bad role", func(s *State) { s.CurrentMastermind = "spectator" }, false},
	}
	for _, tc := range cases {
		s := validState()
		tc.mutate(s)
		err := s.Check()
		if (err == nil) != tc.ok {
			t.Fatalf("%s: Check() = %v; want ok=%v", tc.name, err, tc.ok)
		}
	}
}

func TestRoleNames(t *testing.T) {
	s := validState()
	if s.MastermindName() != "Alice" || s.GuesserName() != "Bob" {
		t.Fatalf("got mastermind=%s guesser=%s", s.MastermindName(), s.GuesserName())
	}
	s.CurrentMastermind = RoleGuesser
	if s.MastermindName() != "Bob" || s.GuesserName() != "Alice" {
		t.Fatalf("after swap got mastermind=%s guesser=%s", s.MastermindName(), s.GuesserName())
	}
}

func TestWithRoundResultDoesNotShare(t *testing.T) {
	s := validState()
	r := &RoundResult{
		Solved:      true,
		Secret:      []Color{"#E74C3C", "#3498DB", "#2ECC71", "#F39C12"},
		TotalScores: Scores{Guesser: 10},
	}
	next := s.WithRoundResult(r)
	if next == s {
		t.Fatal("expected a new snapshot")
	}
	if next.Status != StatusRoundOver || next.Scores.Guesser != 10 || len(next.Secret) != 4 {
		t.Fatalf("unexpected snapshot: %+v", next)
	}
	if s.Scores.Guesser != 0 || s.Secret != nil {
		t.Fatal("original snapshot was modified")
	}
	next.History[0].Guess[0] = "#000000"
	if s.History[0].Guess[0] == "#000000" {
		t.Fatal("history slice shared between snapshots")
	}
}

func TestValidatePlayerNames(t *testing.T) {
	cases := []struct {
		in *PlayerNames
		ok bool
	}{
		{nil, false},
		{&PlayerNames{Mastermind: "Alice", Guesser: ""}, false},
		{&PlayerNames{Mastermind: "  ", Guesser: "Bob"}, false},
		{&PlayerNames{Mastermind: "Alice", Guesser: "Alice"}, false},
		{&PlayerNames{Mastermind: " Alice ", Guesser: "Alice"}, false},
		{&PlayerNames{Mastermind: "Alice", Guesser: "Bob"}, true},
	}
	for _, tc := range cases {
		_, err := ValidatePlayerNames(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("ValidatePlayerNames(%+v) = %v; want ok=%v", tc.in, err, tc.ok)
		}
		if err != nil && !IsValidation(err) {
			t.Fatalf("expected ValidationError, got %T", err)
		}
	}
}

func TestValidateCode(t *testing.T) {
	s := validState()
	cases := []struct {
		code  []Color
		dupes bool
		ok    bool
	}{
		{[]Color{"#E74C3C", "#3498DB", "#2ECC71", "#F39C12"}, false, true},
		{[]Color{"#E74C3C", "#3498DB", "#2ECC71"}, false, false},
		{[]Color{"#E74C3C", "#E74C3C", "#2ECC71", "#F39C12"}, false, false},
		{[]Color{"#E74C3C", "#E74C3C", "#2ECC71", "#F39C12"}, true, true},
		{[]Color{"#E74C3C", "#3498DB", "#2ECC71", "#FFFFFF"}, false, false},
	}
	for _, tc := range cases {
		err := ValidateCode(s, tc.code, tc.dupes)
		if (err == nil) != tc.ok {
			t.Fatalf("ValidateCode(%v, dupes=%v) = %v; want ok=%v", tc.code, tc.dupes, err, tc.ok)
		}
	}
	if err := ValidateCode(s, nil, false); err == nil || err.Error() != "Please select exactly 4 colors" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidatePegCount(t *testing.T) {
	for n := 0; n <= 10; n++ {
		err := ValidatePegCount(n)
		want := n >= MinPegs && n <= MaxPegs
		if (err == nil) != want {
			t.Fatalf("ValidatePegCount(%d) = %v", n, err)
		}
	}
}

func TestAttemptsLeft(t *testing.T) {
	cases := []struct {
		used, max, want int
	}{
		{0, 10, 10},
		{3, 10, 7},
		{8, 8, 0},
		{9, 8, 0},
	}
	for _, tc := range cases {
		s := &State{AttemptsUsed: tc.used, MaxAttempts: tc.max}
		if got := s.AttemptsLeft(); got != tc.want {
			t.Fatalf("AttemptsLeft(%d/%d) = %d, want %d", tc.used, tc.max, got, tc.want)
		}
	}
}

package game

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is raised before any network call. It never reaches the
// engine and leaves session state untouched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Invalidf builds a ValidationError.
func Invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ValidatePegCount checks the 4..8 bound.
func ValidatePegCount(n int) error {
	if n < MinPegs || n > MaxPegs {
		return Invalidf("Peg count must be between %d and %d", MinPegs, MaxPegs)
	}
	return nil
}

// ValidatePlayerNames trims both names and requires them non-empty and distinct.
func ValidatePlayerNames(p *PlayerNames) (PlayerNames, error) {
	if p == nil {
		return PlayerNames{}, Invalidf("Please enter names for both players")
	}
	out := PlayerNames{
		Mastermind: strings.TrimSpace(p.Mastermind),
		Guesser:    strings.TrimSpace(p.Guesser),
	}
	if out.Mastermind == "" || out.Guesser == "" {
		return PlayerNames{}, Invalidf("Please enter names for both players")
	}
	if out.Mastermind == out.Guesser {
		return PlayerNames{}, Invalidf("Players must have different names")
	}
	return out, nil
}

// ValidateCode checks a secret or guess against the snapshot: exact length,
// palette membership and, unless duplicates are allowed, distinct colors.
func ValidateCode(s *State, code []Color, allowDuplicates bool) error {
	if len(code) != s.PegCount {
		return Invalidf("Please select exactly %d colors", s.PegCount)
	}
	if !allowDuplicates && hasDuplicates(code) {
		return Invalidf("Colors must be different")
	}
	for _, c := range code {
		if !s.InPalette(c) {
			return Invalidf("Color %s is not in this round's palette", c)
		}
	}
	return nil
}

package engine

import "errors"

// Engine error taxonomy. Invalid input is always detected before any
// result is staged; a failed call stages nothing.
var (
	// Invalid input class.
	ErrInvalidRules     = errors.New("invalid engine rules")
	ErrInvalidScoreline = errors.New("scoreline values must be non-negative")
	ErrEmptyTeamSet     = errors.New("standings require at least one team")
	ErrInvalidTeamCount = errors.New("team count must be positive")
	ErrInvalidPoints    = errors.New("awarded points must be non-negative")

	// Resolution preconditions.
	ErrPrematureResolution = errors.New("deciding outcome is not finished yet")
	ErrAlreadyResolved     = errors.New("outcome has already been resolved")
)

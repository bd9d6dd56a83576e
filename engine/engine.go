// Package engine is the competition resolution engine: the deterministic
// rules that turn raw match and quiz outcomes into points, standings,
// schedule sizes and prize carry-over state.
//
// Every component is a pure computation. State goes in as an explicit
// snapshot and comes out as a new value; nothing is persisted, nothing is
// locked. Callers are responsible for serializing writes of the resulting
// change-set per match, round and ticket.
package engine

import "fmt"

// Rules holds the platform constants the engine is constructed with.
// They are configuration, not magic numbers scattered through call sites:
// a future format variant changes Rules, not the components.
type Rules struct {
	// Prediction scoring ladder.
	ExactScorePoints int // exact scoreline
	ExactDiffPoints  int // right outcome and right goal difference
	OutcomePoints    int // right outcome only
	MissPoints       int // wrong outcome

	// Group standings.
	PointsPerWin  int
	PointsPerDraw int

	// Threshold-quiz jackpot: running total a ticket must reach to win.
	QuizWinThreshold int

	// Smallest group size the platform schedules. The schedule sizer
	// itself accepts any positive count; clamping to this floor is the
	// caller's job.
	MinGroupTeams int
}

// DefaultRules returns the platform-wide values.
func DefaultRules() Rules {
	return Rules{
		ExactScorePoints: 5,
		ExactDiffPoints:  3,
		OutcomePoints:    1,
		MissPoints:       0,
		PointsPerWin:     3,
		PointsPerDraw:    1,
		QuizWinThreshold: 10,
		MinGroupTeams:    4,
	}
}

// Validate rejects rule sets the components cannot work with.
func (r Rules) Validate() error {
	if r.ExactScorePoints < r.ExactDiffPoints || r.ExactDiffPoints < r.OutcomePoints || r.OutcomePoints < r.MissPoints {
		return fmt.Errorf("%w: scoring ladder must be non-increasing", ErrInvalidRules)
	}
	if r.PointsPerWin <= 0 {
		return fmt.Errorf("%w: points per win must be positive", ErrInvalidRules)
	}
	if r.PointsPerDraw < 0 || r.PointsPerDraw > r.PointsPerWin {
		return fmt.Errorf("%w: points per draw must be between 0 and points per win", ErrInvalidRules)
	}
	if r.QuizWinThreshold <= 0 {
		return fmt.Errorf("%w: quiz win threshold must be positive", ErrInvalidRules)
	}
	if r.MinGroupTeams < 2 {
		return fmt.Errorf("%w: minimum group size must be at least 2", ErrInvalidRules)
	}
	return nil
}

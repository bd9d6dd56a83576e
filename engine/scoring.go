package engine

// ScoreCalculator awards points for a single prediction against the
// actual scoreline, per the platform-wide ladder.
type ScoreCalculator struct {
	rules Rules
}

func NewScoreCalculator(rules Rules) *ScoreCalculator {
	return &ScoreCalculator{rules: rules}
}

// Points evaluates the ladder in precedence order:
//
//  1. exact scoreline;
//  2. same outcome and same goal difference, different scoreline
//     (two different draw scores land here: both differences are zero);
//  3. same outcome only;
//  4. wrong outcome.
//
// The function is total over non-negative inputs; negative values are the
// only rejected case.
func (c *ScoreCalculator) Points(predictedHome, predictedAway, actualHome, actualAway int) (int, error) {
	if predictedHome < 0 || predictedAway < 0 || actualHome < 0 || actualAway < 0 {
		return 0, ErrInvalidScoreline
	}

	if predictedHome == actualHome && predictedAway == actualAway {
		return c.rules.ExactScorePoints, nil
	}

	if outcomeOf(predictedHome, predictedAway) != outcomeOf(actualHome, actualAway) {
		return c.rules.MissPoints, nil
	}

	if predictedHome-predictedAway == actualHome-actualAway {
		return c.rules.ExactDiffPoints, nil
	}
	return c.rules.OutcomePoints, nil
}

// outcomeOf collapses a scoreline to home win (1), away win (-1) or draw (0).
func outcomeOf(home, away int) int {
	switch {
	case home > away:
		return 1
	case home < away:
		return -1
	default:
		return 0
	}
}

package engine

import "github.com/palpitebox/bolao-system/models"

// ScheduleSizer derives round-robin schedule sizes from a team count.
// It accepts any positive count and never clamps: the minimum-team floor
// in Rules is enforced by callers before scheduling, so no hidden
// adjustment happens in here.
type ScheduleSizer struct {
	rules Rules
}

func NewScheduleSizer(rules Rules) *ScheduleSizer {
	return &ScheduleSizer{rules: rules}
}

// MatchesPerRound is how many fixtures one round of the group holds:
// one for tiny groups, floor(n/2) otherwise.
func (s *ScheduleSizer) MatchesPerRound(teamCount int) (int, error) {
	if teamCount <= 0 {
		return 0, ErrInvalidTeamCount
	}
	if teamCount <= 2 {
		return 1, nil
	}
	return teamCount / 2, nil
}

// TotalRounds is how many rounds a single round-robin needs: each of n
// teams meets every other exactly once across n-1 rounds, with a floor of
// one round for degenerate groups.
func (s *ScheduleSizer) TotalRounds(teamCount int) (int, error) {
	if teamCount <= 0 {
		return 0, ErrInvalidTeamCount
	}
	if teamCount <= 2 {
		return 1, nil
	}
	return teamCount - 1, nil
}

// QuotaFor bundles both sizes for one group.
func (s *ScheduleSizer) QuotaFor(groupID, teamCount int) (models.RoundQuota, error) {
	perRound, err := s.MatchesPerRound(teamCount)
	if err != nil {
		return models.RoundQuota{}, err
	}
	rounds, err := s.TotalRounds(teamCount)
	if err != nil {
		return models.RoundQuota{}, err
	}
	return models.RoundQuota{
		GroupID:           groupID,
		TeamCount:         teamCount,
		MatchesPerRound:   perRound,
		TotalRoundsNeeded: rounds,
	}, nil
}

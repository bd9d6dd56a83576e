package engine

import (
	"math"
	"sort"

	"github.com/palpitebox/bolao-system/models"
)

// StandingsAggregator folds a group's finished matches into a ranked table.
type StandingsAggregator struct {
	rules Rules
}

func NewStandingsAggregator(rules Rules) *StandingsAggregator {
	return &StandingsAggregator{rules: rules}
}

// Aggregate builds the table for the given team set. Every team in teamIDs
// gets a row, including teams with no finished matches yet (a fresh group
// renders as all zeroes). Matches that are not finished, or that reference
// a team outside the set, are skipped rather than rejected: the caller may
// hand over a full fixture list and let the fold pick out what counts.
//
// The sort cascade is points, then goal difference, then goals for,
// all descending. Rows equal on all three keys keep the order of teamIDs
// (team registration order); no further tie-break is applied. The result
// is byte-for-byte deterministic for identical inputs, so recomputing
// after a correction is safe.
func (a *StandingsAggregator) Aggregate(groupID int, teamIDs []int, matches []models.MatchOutcome) ([]models.GroupStanding, error) {
	if len(teamIDs) == 0 {
		return nil, ErrEmptyTeamSet
	}
	for _, m := range matches {
		if m.HomeScore < 0 || m.AwayScore < 0 {
			return nil, ErrInvalidScoreline
		}
	}

	index := make(map[int]*models.GroupStanding, len(teamIDs))
	table := make([]models.GroupStanding, len(teamIDs))
	for i, teamID := range teamIDs {
		table[i] = models.GroupStanding{GroupID: groupID, TeamID: teamID}
		index[teamID] = &table[i]
	}

	for _, m := range matches {
		if !m.Finished {
			continue
		}
		home := index[m.HomeTeamID]
		away := index[m.AwayTeamID]
		if home == nil || away == nil {
			continue
		}

		home.Played++
		away.Played++
		home.GoalsFor += m.HomeScore
		home.GoalsAgainst += m.AwayScore
		away.GoalsFor += m.AwayScore
		away.GoalsAgainst += m.HomeScore

		switch m.Winner() {
		case 1:
			home.Won++
			away.Lost++
		case -1:
			away.Won++
			home.Lost++
		default:
			home.Drawn++
			away.Drawn++
		}
	}

	for i := range table {
		row := &table[i]
		row.Points = row.Won*a.rules.PointsPerWin + row.Drawn*a.rules.PointsPerDraw
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		row.Percentage = a.percentage(row.Points, row.Played)
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].GoalDifference != table[j].GoalDifference {
			return table[i].GoalDifference > table[j].GoalDifference
		}
		return table[i].GoalsFor > table[j].GoalsFor
	})

	for i := range table {
		table[i].Position = i + 1
	}
	return table, nil
}

// percentage is the share of points taken out of the points available,
// rounded to the nearest integer. Zero before any game is played.
func (a *StandingsAggregator) percentage(points, played int) int {
	if played == 0 {
		return 0
	}
	available := float64(played * a.rules.PointsPerWin)
	return int(math.Round(float64(points) / available * 100))
}

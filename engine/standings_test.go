package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palpitebox/bolao-system/models"
)

func finished(id, home, away, homeScore, awayScore int) models.MatchOutcome {
	return models.MatchOutcome{
		ID:         id,
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		Finished:   true,
	}
}

func TestAggregateFourTeamGroup(t *testing.T) {
	agg := NewStandingsAggregator(DefaultRules())

	// A beats B 3-0, C and D draw twice.
	matches := []models.MatchOutcome{
		finished(1, 10, 20, 3, 0),
		finished(2, 30, 40, 1, 1),
		finished(3, 40, 30, 2, 2),
	}

	table, err := agg.Aggregate(7, []int{10, 20, 30, 40}, matches)
	require.NoError(t, err)
	require.Len(t, table, 4)

	assert.Equal(t, 10, table[0].TeamID)
	assert.Equal(t, 3, table[0].Points)
	assert.Equal(t, 3, table[0].GoalDifference)
	assert.Equal(t, 1, table[0].Position)
	assert.Equal(t, 100, table[0].Percentage)

	// C and D are equal on every key (two draws against each other give
	// both the same goals), so registration order decides.
	assert.Equal(t, 30, table[1].TeamID)
	assert.Equal(t, 40, table[2].TeamID)
	assert.Equal(t, 2, table[1].Points)
	assert.Equal(t, 2, table[2].Points)
	assert.Equal(t, table[1].GoalsFor, table[2].GoalsFor)

	assert.Equal(t, 20, table[3].TeamID)
	assert.Equal(t, 0, table[3].Points)
	assert.Equal(t, 4, table[3].Position)

	for _, row := range table {
		assert.Equal(t, row.Played, row.Won+row.Drawn+row.Lost, "team %d", row.TeamID)
		assert.Equal(t, row.Won*3+row.Drawn, row.Points, "team %d", row.TeamID)
		assert.Equal(t, row.GoalsFor-row.GoalsAgainst, row.GoalDifference, "team %d", row.TeamID)
		assert.Equal(t, 7, row.GroupID)
	}
}

func TestAggregateSeedsTeamsWithoutMatches(t *testing.T) {
	agg := NewStandingsAggregator(DefaultRules())

	table, err := agg.Aggregate(1, []int{5, 6, 7}, nil)
	require.NoError(t, err)
	require.Len(t, table, 3)

	// All-zero rows keep registration order and get sequential positions.
	for i, row := range table {
		assert.Equal(t, []int{5, 6, 7}[i], row.TeamID)
		assert.Equal(t, i+1, row.Position)
		assert.Zero(t, row.Played)
		assert.Zero(t, row.Points)
		assert.Zero(t, row.Percentage)
	}
}

func TestAggregateSkipsUnfinishedAndForeignMatches(t *testing.T) {
	agg := NewStandingsAggregator(DefaultRules())

	pending := finished(9, 1, 2, 4, 4)
	pending.Finished = false

	table, err := agg.Aggregate(1, []int{1, 2}, []models.MatchOutcome{
		pending,
		finished(10, 1, 99, 5, 0), // team 99 is not in the group
		finished(11, 1, 2, 1, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, table[0].TeamID)
	assert.Equal(t, 1, table[0].Played)
	assert.Equal(t, 3, table[0].Points)
	assert.Equal(t, 1, table[1].Played)
}

func TestAggregateIsDeterministic(t *testing.T) {
	agg := NewStandingsAggregator(DefaultRules())

	teams := []int{4, 3, 2, 1}
	matches := []models.MatchOutcome{
		finished(1, 1, 2, 2, 2),
		finished(2, 3, 4, 2, 2),
		finished(3, 1, 3, 0, 0),
	}

	first, err := agg.Aggregate(2, teams, matches)
	require.NoError(t, err)
	second, err := agg.Aggregate(2, teams, matches)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// Everyone on equal keys: registration order survives the sort.
	for i, row := range first {
		assert.Equal(t, teams[i], row.TeamID)
		assert.Equal(t, i+1, row.Position)
	}
}

func TestAggregatePercentageRounding(t *testing.T) {
	agg := NewStandingsAggregator(DefaultRules())

	// One win, one draw, one loss: 4 points out of 9 -> 44%.
	table, err := agg.Aggregate(1, []int{1, 2, 3, 4}, []models.MatchOutcome{
		finished(1, 1, 2, 1, 0),
		finished(2, 1, 3, 2, 2),
		finished(3, 4, 1, 3, 0),
	})
	require.NoError(t, err)

	for _, row := range table {
		if row.TeamID == 1 {
			assert.Equal(t, 4, row.Points)
			assert.Equal(t, 44, row.Percentage)
		}
	}
}

func TestAggregateGoalsForTieBreak(t *testing.T) {
	agg := NewStandingsAggregator(DefaultRules())

	// Teams 1 and 2 finish on equal points and equal difference; team 2
	// scored more and ranks first despite later registration.
	table, err := agg.Aggregate(1, []int{1, 2, 3, 4}, []models.MatchOutcome{
		finished(1, 1, 3, 2, 0),
		finished(2, 2, 4, 3, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, table[0].TeamID)
	assert.Equal(t, 1, table[1].TeamID)
	assert.Equal(t, table[0].Points, table[1].Points)
	assert.Equal(t, table[0].GoalDifference, table[1].GoalDifference)
}

func TestAggregateInvalidInput(t *testing.T) {
	agg := NewStandingsAggregator(DefaultRules())

	_, err := agg.Aggregate(1, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyTeamSet)

	bad := finished(1, 1, 2, -1, 0)
	_, err = agg.Aggregate(1, []int{1, 2}, []models.MatchOutcome{bad})
	assert.ErrorIs(t, err, ErrInvalidScoreline)
}

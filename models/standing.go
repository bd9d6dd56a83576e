package models

import "time"

// GroupStanding is one row of a group table. It is fully derived from the
// group's finished matches: points = won*3 + drawn, goal difference =
// goals for - goals against, percentage = points over the maximum still
// available for the games played. Position is the 1-based rank after the
// tie-break cascade.
type GroupStanding struct {
	GroupID        int `json:"group_id" db:"group_id"`
	TeamID         int `json:"team_id" db:"team_id"`
	Played         int `json:"played" db:"played"`
	Won            int `json:"won" db:"won"`
	Drawn          int `json:"drawn" db:"drawn"`
	Lost           int `json:"lost" db:"lost"`
	GoalsFor       int `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int `json:"goals_against" db:"goals_against"`
	GoalDifference int `json:"goal_difference" db:"goal_difference"`
	Points         int `json:"points" db:"points"`
	Percentage     int `json:"percentage" db:"percentage"`
	Position       int `json:"position" db:"position"`

	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// RoundQuota sizes one round-robin group: how many matches fit in a round
// and how many rounds the group needs. Derived from the team count alone.
type RoundQuota struct {
	GroupID           int `json:"group_id"`
	TeamCount         int `json:"team_count"`
	MatchesPerRound   int `json:"matches_per_round"`
	TotalRoundsNeeded int `json:"total_rounds_needed"`
}

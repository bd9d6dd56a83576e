package models

import "time"

// MatchOutcome is the final state of a fixture. A match transitions from
// not-finished to finished exactly once; once finished the scoreline is
// immutable and corrections happen through administrative overrides, not
// through the resolver.
type MatchOutcome struct {
	ID            int       `json:"id" db:"id"`
	CompetitionID int       `json:"competition_id" db:"competition_id"`
	RoundID       *int      `json:"round_id,omitempty" db:"round_id"`
	GroupID       *int      `json:"group_id,omitempty" db:"group_id"`
	HomeTeamID    int       `json:"home_team_id" db:"home_team_id"`
	AwayTeamID    int       `json:"away_team_id" db:"away_team_id"`
	HomeScore     int       `json:"home_score" db:"home_score"`
	AwayScore     int       `json:"away_score" db:"away_score"`
	Finished      bool      `json:"finished" db:"finished"`
	KickoffAt     time.Time `json:"kickoff_at" db:"kickoff_at"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Winner reports which side won: home > 0, away < 0, draw 0.
func (m MatchOutcome) Winner() int {
	switch {
	case m.HomeScore > m.AwayScore:
		return 1
	case m.HomeScore < m.AwayScore:
		return -1
	default:
		return 0
	}
}

// WinnerTeamID returns the winning team's ID, or nil on a draw.
func (m MatchOutcome) WinnerTeamID() *int {
	switch m.Winner() {
	case 1:
		return &m.HomeTeamID
	case -1:
		return &m.AwayTeamID
	default:
		return nil
	}
}

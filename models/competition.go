package models

import "time"

type CompetitionStatus string

const (
	CompetitionStatusRegistration CompetitionStatus = "registration"
	CompetitionStatusActive       CompetitionStatus = "active"
	CompetitionStatusFinished     CompetitionStatus = "finished"
)

// Competition is a pool, tournament, quiz series or jackpot game.
type Competition struct {
	ID        int               `json:"id" db:"id"`
	Name      string            `json:"name" db:"name"`
	Format    RoundFormat       `json:"format" db:"format"`
	Status    CompetitionStatus `json:"status" db:"status"`
	MinTeams  int               `json:"min_teams" db:"min_teams"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

// Group is a round-robin sub-tournament inside a competition.
type Group struct {
	ID            int    `json:"id" db:"id"`
	CompetitionID int    `json:"competition_id" db:"competition_id"`
	Name          string `json:"name" db:"name"`
}

// Team registration order inside a group matters: it is the final
// tie-break for standings rows equal on every sort key.
type Team struct {
	ID      int    `json:"id" db:"id"`
	GroupID *int   `json:"group_id,omitempty" db:"group_id"`
	Name    string `json:"name" db:"name"`
}

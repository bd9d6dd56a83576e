package models

import "time"

// ParticipantTicket is one entry a participant holds in a competition.
// A participant may hold several tickets; totals are tracked per ticket
// and never merged across a participant's entries.
//
// TotalPoints caches the sum of the ticket's scored predictions and is
// refreshed by full resum whenever a ChangeSet touches the ticket.
// QuizPoints is the running correct-answer total for threshold-quiz
// competitions; it accumulates across rounds and is never reset.
type ParticipantTicket struct {
	ID            int       `json:"id" db:"id"`
	CompetitionID int       `json:"competition_id" db:"competition_id"`
	ParticipantID int       `json:"participant_id" db:"participant_id"`
	TotalPoints   int       `json:"total_points" db:"total_points"`
	QuizPoints    int       `json:"quiz_points" db:"quiz_points"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

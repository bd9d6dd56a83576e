package models

import "time"

// QuizAnswer is one ticket's answer to one question of a threshold-quiz
// round. Each correct answer is worth a single point toward the ticket's
// running total.
type QuizAnswer struct {
	ID         int       `json:"id" db:"id"`
	RoundID    int       `json:"round_id" db:"round_id"`
	QuestionID int       `json:"question_id" db:"question_id"`
	TicketID   int       `json:"ticket_id" db:"ticket_id"`
	Correct    bool      `json:"correct" db:"correct"`
	AnsweredAt time.Time `json:"answered_at" db:"answered_at"`
}

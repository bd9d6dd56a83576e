package models

import "time"

// JackpotState is the accumulation pool of one competition round. Amounts
// are integer centavos. A state is created when the round opens and
// mutated exactly once when the round's deciding outcome is known. The
// next round inherits PreviousAccumulated from this round's carried total
// when Resolved is false, or starts from zero when Resolved is true.
type JackpotState struct {
	ID                  int       `json:"id" db:"id"`
	CompetitionID       int       `json:"competition_id" db:"competition_id"`
	RoundNumber         int       `json:"round_number" db:"round_number"`
	Accumulated         int64     `json:"accumulated" db:"accumulated"`
	PreviousAccumulated int64     `json:"previous_accumulated" db:"previous_accumulated"`
	Resolved            bool      `json:"resolved" db:"resolved"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// Pot is the total amount at stake in the round.
func (s JackpotState) Pot() int64 {
	return s.Accumulated + s.PreviousAccumulated
}

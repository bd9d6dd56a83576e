package models

import "time"

// Prediction is one ticket's guess for one match. PointsEarned stays nil
// until the owning match is resolved; it is then set exactly once.
type Prediction struct {
	ID            int       `json:"id" db:"id"`
	MatchID       int       `json:"match_id" db:"match_id"`
	TicketID      int       `json:"ticket_id" db:"ticket_id"`
	PredictedHome int       `json:"predicted_home" db:"predicted_home"`
	PredictedAway int       `json:"predicted_away" db:"predicted_away"`
	PointsEarned  *int      `json:"points_earned,omitempty" db:"points_earned"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Scored reports whether the prediction already carries points.
func (p Prediction) Scored() bool {
	return p.PointsEarned != nil
}

package models

import "time"

// RoundFormat tags how a round's outcomes are resolved. The format is an
// explicit variant carried on the round itself, never inferred from names.
type RoundFormat string

const (
	RoundFormatGroupStage     RoundFormat = "group_stage"
	RoundFormatKnockout       RoundFormat = "knockout"
	RoundFormatThresholdQuiz  RoundFormat = "threshold_quiz"
	RoundFormatSingleDecisive RoundFormat = "single_decisive"
)

func (f RoundFormat) Valid() bool {
	switch f {
	case RoundFormatGroupStage, RoundFormatKnockout, RoundFormatThresholdQuiz, RoundFormatSingleDecisive:
		return true
	}
	return false
}

type RoundStatus string

const (
	RoundStatusOpen      RoundStatus = "open"
	RoundStatusFinalized RoundStatus = "finalized"
)

// Round groups the outcomes resolved together. For single_decisive rounds
// DecisiveMatchID points at the match that settles the jackpot and
// FavoredTeamID is the side the pool pays out on (the "anti-zebra" rule:
// an exact scoreline for the wrong side wins nothing).
type Round struct {
	ID              int         `json:"id" db:"id"`
	CompetitionID   int         `json:"competition_id" db:"competition_id"`
	Number          int         `json:"number" db:"number"`
	Format          RoundFormat `json:"format" db:"format"`
	Status          RoundStatus `json:"status" db:"status"`
	DecisiveMatchID *int        `json:"decisive_match_id,omitempty" db:"decisive_match_id"`
	FavoredTeamID   *int        `json:"favored_team_id,omitempty" db:"favored_team_id"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}

package engine

import (
	"sort"

	"github.com/palpitebox/bolao-system/models"
)

// WinCondition selects the prize-pool variant.
type WinCondition string

const (
	// WinConditionExactScore pays out when at least one ticket predicted
	// the exact scoreline of the round's decisive match and the favored
	// side won.
	WinConditionExactScore WinCondition = "exact_score"
	// WinConditionThreshold pays out the first time a ticket's running
	// correct-answer total reaches the configured threshold.
	WinConditionThreshold WinCondition = "threshold"
)

// JackpotTransition is the staged outcome of resolving one jackpot round:
// the round's final state plus the opening state seeded for the next
// round. On a carry-over the next round inherits the whole pot as
// PreviousAccumulated; after a win it starts from zero.
type JackpotTransition struct {
	Condition   WinCondition        `json:"condition"`
	Current     models.JackpotState `json:"current"`
	Next        models.JackpotState `json:"next"`
	Winners     []int               `json:"winners,omitempty"`
	CarriedOver bool                `json:"carried_over"`
}

// PrizePoolAccumulator tracks the carry-over jackpot across rounds.
// Both variants share one transition shape; only the win condition differs.
type PrizePoolAccumulator struct {
	rules  Rules
	scores *ScoreCalculator
}

func NewPrizePoolAccumulator(rules Rules) *PrizePoolAccumulator {
	return &PrizePoolAccumulator{rules: rules, scores: NewScoreCalculator(rules)}
}

// ResolveDecisiveMatch settles an exact-score-wins round. Winners are the
// tickets whose prediction matches the final scoreline exactly AND whose
// predicted side is the favored side that actually won: a perfect
// scoreline for the wrong side counts for nothing.
func (p *PrizePoolAccumulator) ResolveDecisiveMatch(
	state models.JackpotState,
	match models.MatchOutcome,
	favoredTeamID int,
	predictions []models.Prediction,
) (*JackpotTransition, error) {
	if state.Resolved {
		return nil, ErrAlreadyResolved
	}
	if !match.Finished {
		return nil, ErrPrematureResolution
	}
	if match.HomeScore < 0 || match.AwayScore < 0 {
		return nil, ErrInvalidScoreline
	}
	for _, pred := range predictions {
		if pred.PredictedHome < 0 || pred.PredictedAway < 0 {
			return nil, ErrInvalidScoreline
		}
	}

	var winners []int
	if winnerID := match.WinnerTeamID(); winnerID != nil && *winnerID == favoredTeamID {
		for _, pred := range predictions {
			if pred.PredictedHome == match.HomeScore && pred.PredictedAway == match.AwayScore {
				winners = append(winners, pred.TicketID)
			}
		}
	}
	sort.Ints(winners)

	return p.transition(WinConditionExactScore, state, winners), nil
}

// QuizRoundResult is the Variant B outcome: the money transition plus the
// per-ticket running totals after folding in the round's awards. Totals
// only ever grow; the money pool is the only thing that carries or resets.
type QuizRoundResult struct {
	Transition *JackpotTransition `json:"transition"`
	Totals     map[int]int        `json:"totals"`
}

// FinalizeQuizRound settles a threshold-reached-wins round. roundPoints is
// the number of correct answers each ticket collected across the round's
// sub-events; totals is each ticket's running total before this round.
// A ticket wins by crossing the threshold during this finalization —
// tickets already at or past it from earlier rounds have already won and
// do not win again.
func (p *PrizePoolAccumulator) FinalizeQuizRound(
	state models.JackpotState,
	totals map[int]int,
	roundPoints map[int]int,
) (*QuizRoundResult, error) {
	if state.Resolved {
		return nil, ErrAlreadyResolved
	}
	for _, pts := range roundPoints {
		if pts < 0 {
			return nil, ErrInvalidPoints
		}
	}
	for _, pts := range totals {
		if pts < 0 {
			return nil, ErrInvalidPoints
		}
	}

	updated := make(map[int]int, len(totals)+len(roundPoints))
	for ticketID, pts := range totals {
		updated[ticketID] = pts
	}

	var winners []int
	threshold := p.rules.QuizWinThreshold
	for ticketID, pts := range roundPoints {
		before := updated[ticketID]
		after := before + pts
		updated[ticketID] = after
		if before < threshold && after >= threshold {
			winners = append(winners, ticketID)
		}
	}
	sort.Ints(winners)

	return &QuizRoundResult{
		Transition: p.transition(WinConditionThreshold, state, winners),
		Totals:     updated,
	}, nil
}

// transition applies the shared accumulate/reset shape. No winner: the
// whole pot rolls into the round's accumulated total and seeds the next
// round. Winner: the round resolves and the next round opens clean.
func (p *PrizePoolAccumulator) transition(cond WinCondition, state models.JackpotState, winners []int) *JackpotTransition {
	next := models.JackpotState{
		CompetitionID: state.CompetitionID,
		RoundNumber:   state.RoundNumber + 1,
	}
	current := state

	if len(winners) > 0 {
		current.Resolved = true
		next.PreviousAccumulated = 0
		return &JackpotTransition{
			Condition: cond,
			Current:   current,
			Next:      next,
			Winners:   winners,
		}
	}

	current.Accumulated = state.Accumulated + state.PreviousAccumulated
	current.PreviousAccumulated = 0
	next.PreviousAccumulated = current.Accumulated
	return &JackpotTransition{
		Condition:   cond,
		Current:     current,
		Next:        next,
		CarriedOver: true,
	}
}

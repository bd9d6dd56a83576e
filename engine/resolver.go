package engine

import (
	"fmt"
	"sort"

	"github.com/palpitebox/bolao-system/models"
)

// Resolver turns one finalized outcome into a ChangeSet. It owns no state
// beyond the rules and performs no persistence: the caller loads every
// snapshot the resolution needs, and persists (or discards) the returned
// change-set as a whole.
type Resolver struct {
	rules     Rules
	scores    *ScoreCalculator
	standings *StandingsAggregator
	jackpot   *PrizePoolAccumulator
}

func NewResolver(rules Rules) (*Resolver, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{
		rules:     rules,
		scores:    NewScoreCalculator(rules),
		standings: NewStandingsAggregator(rules),
		jackpot:   NewPrizePoolAccumulator(rules),
	}, nil
}

func (r *Resolver) Rules() Rules { return r.rules }

// PointDelta stages the points a single prediction earned.
type PointDelta struct {
	PredictionID int `json:"prediction_id"`
	TicketID     int `json:"ticket_id"`
	Points       int `json:"points"`
}

// TicketTotal stages a ticket's recomputed total. The total is a full
// resum over the ticket's scored predictions, not an increment.
type TicketTotal struct {
	TicketID    int `json:"ticket_id"`
	TotalPoints int `json:"total_points"`
}

// ChangeSet is everything one resolution produced. It is returned whole
// or not at all; the resolver never hands back a partial set.
type ChangeSet struct {
	MatchID      int                    `json:"match_id,omitempty"`
	RoundID      int                    `json:"round_id,omitempty"`
	PointDeltas  []PointDelta           `json:"point_deltas,omitempty"`
	TicketTotals []TicketTotal          `json:"ticket_totals,omitempty"`
	Standings    []models.GroupStanding `json:"standings,omitempty"`
	Jackpot      *JackpotTransition     `json:"jackpot,omitempty"`
	QuizTotals   map[int]int            `json:"quiz_totals,omitempty"`
}

// GroupContext carries the standings inputs for a group-stage resolution:
// the group's registered teams (in registration order) and its finished
// matches. The outcome under resolution is added by the resolver if the
// caller's list does not include it yet.
type GroupContext struct {
	GroupID         int
	TeamIDs         []int
	FinishedMatches []models.MatchOutcome
}

// JackpotContext carries the prize state for a jackpot-governed match.
type JackpotContext struct {
	State         models.JackpotState
	FavoredTeamID int
}

// MatchResolution is the full input for resolving one finished match.
// TicketHistory holds, per affected ticket, the ticket's other scored
// predictions; totals are recomputed from it plus the staged deltas.
type MatchResolution struct {
	Outcome       models.MatchOutcome
	Predictions   []models.Prediction
	TicketHistory map[int][]models.Prediction
	Group         *GroupContext
	Jackpot       *JackpotContext
}

// ResolveMatch computes the change-set for a newly finished match:
// per-prediction point deltas, recomputed ticket totals, a standings
// snapshot when the match belongs to a group, and the jackpot transition
// when the match decides a jackpot round.
//
// A match whose predictions already carry points has been resolved before;
// re-running it fails with ErrAlreadyResolved and stages nothing, which is
// what makes recomputation after a crash idempotent for the caller.
func (r *Resolver) ResolveMatch(in MatchResolution) (*ChangeSet, error) {
	if !in.Outcome.Finished {
		return nil, ErrPrematureResolution
	}
	if in.Outcome.HomeScore < 0 || in.Outcome.AwayScore < 0 {
		return nil, ErrInvalidScoreline
	}
	for _, pred := range in.Predictions {
		if pred.Scored() {
			return nil, fmt.Errorf("%w: prediction %d already carries points", ErrAlreadyResolved, pred.ID)
		}
	}

	deltas := make([]PointDelta, 0, len(in.Predictions))
	earned := make(map[int]int)
	for _, pred := range in.Predictions {
		pts, err := r.scores.Points(pred.PredictedHome, pred.PredictedAway, in.Outcome.HomeScore, in.Outcome.AwayScore)
		if err != nil {
			return nil, fmt.Errorf("prediction %d: %w", pred.ID, err)
		}
		deltas = append(deltas, PointDelta{PredictionID: pred.ID, TicketID: pred.TicketID, Points: pts})
		earned[pred.TicketID] += pts
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].PredictionID < deltas[j].PredictionID })

	cs := &ChangeSet{
		MatchID:     in.Outcome.ID,
		PointDeltas: deltas,
	}

	if in.Group != nil {
		matches := in.Group.FinishedMatches
		if !containsMatch(matches, in.Outcome.ID) {
			matches = append(append([]models.MatchOutcome{}, matches...), in.Outcome)
		}
		table, err := r.standings.Aggregate(in.Group.GroupID, in.Group.TeamIDs, matches)
		if err != nil {
			return nil, err
		}
		cs.Standings = table
	}

	if in.Jackpot != nil {
		transition, err := r.jackpot.ResolveDecisiveMatch(in.Jackpot.State, in.Outcome, in.Jackpot.FavoredTeamID, in.Predictions)
		if err != nil {
			return nil, err
		}
		cs.Jackpot = transition
	}

	cs.TicketTotals = r.resumTickets(earned, in.TicketHistory)
	return cs, nil
}

// RoundFinalization is the full input for settling a threshold-quiz round.
// RoundPoints is the number of correct answers each ticket collected
// across the round's sub-events; Totals is each ticket's running total
// before the round. Complete must be true once every sub-event is final.
type RoundFinalization struct {
	Round       models.Round
	State       models.JackpotState
	Totals      map[int]int
	RoundPoints map[int]int
	Complete    bool
}

// ResolveQuizRound computes the change-set for a finished quiz round: the
// updated running totals and the money transition. Per-ticket totals are
// never reset; only the pool carries or resets.
func (r *Resolver) ResolveQuizRound(in RoundFinalization) (*ChangeSet, error) {
	if in.Round.Status == models.RoundStatusFinalized {
		return nil, ErrAlreadyResolved
	}
	if !in.Complete {
		return nil, ErrPrematureResolution
	}

	result, err := r.jackpot.FinalizeQuizRound(in.State, in.Totals, in.RoundPoints)
	if err != nil {
		return nil, err
	}
	return &ChangeSet{
		RoundID:    in.Round.ID,
		Jackpot:    result.Transition,
		QuizTotals: result.Totals,
	}, nil
}

// resumTickets recomputes each affected ticket's total from scratch:
// the sum of its previously scored predictions plus what this resolution
// just staged. Favors correctness over incremental updates.
func (r *Resolver) resumTickets(earned map[int]int, history map[int][]models.Prediction) []TicketTotal {
	totals := make([]TicketTotal, 0, len(earned))
	for ticketID, delta := range earned {
		total := delta
		for _, pred := range history[ticketID] {
			if pred.Scored() {
				total += *pred.PointsEarned
			}
		}
		totals = append(totals, TicketTotal{TicketID: ticketID, TotalPoints: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].TicketID < totals[j].TicketID })
	return totals
}

func containsMatch(matches []models.MatchOutcome, id int) bool {
	for _, m := range matches {
		if m.ID == id {
			return true
		}
	}
	return false
}

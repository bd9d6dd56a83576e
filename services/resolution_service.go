package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/palpitebox/bolao-system/engine"
	"github.com/palpitebox/bolao-system/live"
	"github.com/palpitebox/bolao-system/models"
	"github.com/palpitebox/bolao-system/repositories"
)

// ResolutionService is the result-entry boundary: it finalizes an
// outcome, runs the resolution engine over the loaded snapshots and
// persists the returned change-set in a single transaction. The
// at-most-once finished transition is a conditional update inside that
// transaction, so two concurrent submissions cannot both score a match.
type ResolutionService interface {
	SubmitMatchResult(ctx context.Context, matchID, homeScore, awayScore int) (*engine.ChangeSet, error)
	FinalizeQuizRound(ctx context.Context, roundID int) (*engine.ChangeSet, error)
}

type resolutionService struct {
	db             repositories.TxBeginner
	resolver       *engine.Resolver
	matchRepo      repositories.MatchRepository
	predictionRepo repositories.PredictionRepository
	ticketRepo     repositories.TicketRepository
	roundRepo      repositories.RoundRepository
	groupRepo      repositories.GroupRepository
	jackpotRepo    repositories.JackpotRepository
	standingRepo   repositories.StandingRepository
	quizRepo       repositories.QuizRepository
	hub            *live.Hub
	logger         *slog.Logger
}

func NewResolutionService(
	db repositories.TxBeginner,
	resolver *engine.Resolver,
	matchRepo repositories.MatchRepository,
	predictionRepo repositories.PredictionRepository,
	ticketRepo repositories.TicketRepository,
	roundRepo repositories.RoundRepository,
	groupRepo repositories.GroupRepository,
	jackpotRepo repositories.JackpotRepository,
	standingRepo repositories.StandingRepository,
	quizRepo repositories.QuizRepository,
	hub *live.Hub,
	logger *slog.Logger,
) ResolutionService {
	return &resolutionService{
		db:             db,
		resolver:       resolver,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		ticketRepo:     ticketRepo,
		roundRepo:      roundRepo,
		groupRepo:      groupRepo,
		jackpotRepo:    jackpotRepo,
		standingRepo:   standingRepo,
		quizRepo:       quizRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *resolutionService) SubmitMatchResult(ctx context.Context, matchID, homeScore, awayScore int) (*engine.ChangeSet, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, ErrInvalidScoreline
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	if match.Finished {
		return nil, ErrResultAlreadyEntered
	}

	input, err := s.loadMatchContext(ctx, match, homeScore, awayScore)
	if err != nil {
		return nil, err
	}

	changeSet, err := s.resolver.ResolveMatch(*input)
	if err != nil {
		return nil, mapEngineError(err)
	}

	if err := s.persistMatchChangeSet(ctx, matchID, homeScore, awayScore, input, changeSet); err != nil {
		return nil, err
	}

	s.logger.Info("match resolved",
		slog.Int("match_id", matchID),
		slog.Int("predictions", len(changeSet.PointDeltas)),
		slog.Bool("group", changeSet.Standings != nil),
		slog.Bool("jackpot", changeSet.Jackpot != nil),
	)
	s.broadcastMatch(match.CompetitionID, changeSet)
	return changeSet, nil
}

// loadMatchContext gathers every snapshot the resolver needs, in
// parallel where the reads are independent.
func (s *resolutionService) loadMatchContext(ctx context.Context, match *models.MatchOutcome, homeScore, awayScore int) (*engine.MatchResolution, error) {
	outcome := *match
	outcome.HomeScore = homeScore
	outcome.AwayScore = awayScore
	outcome.Finished = true

	input := &engine.MatchResolution{Outcome: outcome}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		predictions, err := s.predictionRepo.ListByMatch(gCtx, match.ID)
		if err != nil {
			return fmt.Errorf("failed to load predictions for match %d: %w", match.ID, err)
		}
		input.Predictions = predictions
		return nil
	})

	if match.GroupID != nil {
		groupID := *match.GroupID
		group := &engine.GroupContext{GroupID: groupID}
		input.Group = group
		g.Go(func() error {
			teamIDs, err := s.groupRepo.ListTeamIDs(gCtx, groupID)
			if err != nil {
				return fmt.Errorf("failed to load teams for group %d: %w", groupID, err)
			}
			group.TeamIDs = teamIDs
			return nil
		})
		g.Go(func() error {
			finishedMatches, err := s.matchRepo.ListFinishedByGroup(gCtx, groupID)
			if err != nil {
				return fmt.Errorf("failed to load finished matches for group %d: %w", groupID, err)
			}
			group.FinishedMatches = finishedMatches
			return nil
		})
	}

	g.Go(func() error {
		round, err := s.roundRepo.GetByDecisiveMatch(gCtx, match.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrRoundNotFound) {
				return nil // not a jackpot-governed match
			}
			return fmt.Errorf("failed to load round for match %d: %w", match.ID, err)
		}
		if round.Format != models.RoundFormatSingleDecisive || round.FavoredTeamID == nil {
			return nil
		}
		state, err := s.jackpotRepo.GetByRound(gCtx, round.CompetitionID, round.Number)
		if err != nil {
			return fmt.Errorf("failed to load jackpot state for round %d: %w", round.Number, err)
		}
		input.Jackpot = &engine.JackpotContext{State: *state, FavoredTeamID: *round.FavoredTeamID}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Ticket histories depend on the loaded predictions, so this read
	// happens after the group above.
	ticketIDs := make([]int, 0, len(input.Predictions))
	seen := make(map[int]bool)
	for _, p := range input.Predictions {
		if !seen[p.TicketID] {
			seen[p.TicketID] = true
			ticketIDs = append(ticketIDs, p.TicketID)
		}
	}
	history, err := s.predictionRepo.ListScoredByTickets(ctx, ticketIDs, match.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket histories: %w", err)
	}
	input.TicketHistory = history
	return input, nil
}

func (s *resolutionService) persistMatchChangeSet(ctx context.Context, matchID, homeScore, awayScore int, input *engine.MatchResolution, cs *engine.ChangeSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The conditional update is the serialization point: the loser of a
	// race sees zero affected rows and the whole change-set is discarded.
	if err := s.matchRepo.FinishOnce(ctx, tx, matchID, homeScore, awayScore); err != nil {
		if errors.Is(err, repositories.ErrMatchAlreadyScored) {
			return ErrResultAlreadyEntered
		}
		return err
	}

	for _, delta := range cs.PointDeltas {
		if err := s.predictionRepo.SetPointsOnce(ctx, tx, delta.PredictionID, delta.Points); err != nil {
			return fmt.Errorf("failed to stage points for prediction %d: %w", delta.PredictionID, err)
		}
	}
	for _, total := range cs.TicketTotals {
		if err := s.ticketRepo.UpdateTotalPoints(ctx, tx, total.TicketID, total.TotalPoints); err != nil {
			return fmt.Errorf("failed to update total for ticket %d: %w", total.TicketID, err)
		}
	}
	if cs.Standings != nil {
		if err := s.standingRepo.ReplaceForGroup(ctx, tx, input.Group.GroupID, cs.Standings); err != nil {
			return err
		}
	}
	if cs.Jackpot != nil {
		if err := s.persistJackpotTransition(ctx, tx, cs.Jackpot); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit resolution for match %d: %w", matchID, err)
	}
	return nil
}

func (s *resolutionService) FinalizeQuizRound(ctx context.Context, roundID int) (*engine.ChangeSet, error) {
	round, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to load round %d: %w", roundID, err)
	}
	if round.Format != models.RoundFormatThresholdQuiz {
		return nil, ErrRoundNotQuiz
	}
	if round.Status == models.RoundStatusFinalized {
		return nil, ErrRoundAlreadyFinalized
	}

	input := engine.RoundFinalization{Round: *round}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pending, err := s.quizRepo.PendingQuestions(gCtx, roundID)
		if err != nil {
			return err
		}
		input.Complete = pending == 0
		return nil
	})
	g.Go(func() error {
		points, err := s.quizRepo.CorrectCountsByRound(gCtx, roundID)
		if err != nil {
			return err
		}
		input.RoundPoints = points
		return nil
	})
	g.Go(func() error {
		totals, err := s.ticketRepo.QuizTotalsByCompetition(gCtx, round.CompetitionID)
		if err != nil {
			return err
		}
		input.Totals = totals
		return nil
	})
	g.Go(func() error {
		state, err := s.jackpotRepo.GetByRound(gCtx, round.CompetitionID, round.Number)
		if err != nil {
			return fmt.Errorf("failed to load jackpot state for round %d: %w", round.Number, err)
		}
		input.State = *state
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	changeSet, err := s.resolver.ResolveQuizRound(input)
	if err != nil {
		return nil, mapEngineError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.roundRepo.FinalizeOnce(ctx, tx, roundID); err != nil {
		if errors.Is(err, repositories.ErrRoundAlreadyFinalized) {
			return nil, ErrRoundAlreadyFinalized
		}
		return nil, err
	}

	// Deterministic write order keeps concurrent finalizations of
	// different rounds from deadlocking on row locks.
	ticketIDs := make([]int, 0, len(changeSet.QuizTotals))
	for ticketID := range changeSet.QuizTotals {
		ticketIDs = append(ticketIDs, ticketID)
	}
	sort.Ints(ticketIDs)
	for _, ticketID := range ticketIDs {
		if err := s.ticketRepo.UpdateQuizPoints(ctx, tx, ticketID, changeSet.QuizTotals[ticketID]); err != nil {
			return nil, fmt.Errorf("failed to update quiz points for ticket %d: %w", ticketID, err)
		}
	}
	if err := s.persistJackpotTransition(ctx, tx, changeSet.Jackpot); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit finalization for round %d: %w", roundID, err)
	}

	s.logger.Info("quiz round finalized",
		slog.Int("round_id", roundID),
		slog.Int("tickets", len(changeSet.QuizTotals)),
		slog.Bool("carried_over", changeSet.Jackpot.CarriedOver),
	)
	s.hub.BroadcastToRoom(live.CompetitionRoom(round.CompetitionID), live.Message{
		Type:    live.EventRoundFinalized,
		Payload: changeSet,
	})
	s.hub.BroadcastToRoom(live.CompetitionRoom(round.CompetitionID), live.Message{
		Type:    live.EventJackpotUpdated,
		Payload: changeSet.Jackpot,
	})
	return changeSet, nil
}

// persistJackpotTransition writes the resolved/carried state and opens
// the next round's pool as one unit.
func (s *resolutionService) persistJackpotTransition(ctx context.Context, tx repositories.Tx, transition *engine.JackpotTransition) error {
	current := transition.Current
	if err := s.jackpotRepo.Update(ctx, tx, &current); err != nil {
		return fmt.Errorf("failed to update jackpot state %d: %w", current.ID, err)
	}
	next := transition.Next
	if err := s.jackpotRepo.Create(ctx, tx, &next); err != nil {
		if errors.Is(err, repositories.ErrJackpotStateDuplicate) {
			// Next round's pool already opened by an earlier carry path.
			return nil
		}
		return fmt.Errorf("failed to open next jackpot round: %w", err)
	}
	return nil
}

func (s *resolutionService) broadcastMatch(competitionID int, cs *engine.ChangeSet) {
	room := live.CompetitionRoom(competitionID)
	s.hub.BroadcastToRoom(room, live.Message{Type: live.EventMatchResolved, Payload: cs})
	if cs.Standings != nil {
		s.hub.BroadcastToRoom(room, live.Message{Type: live.EventStandingsUpdated, Payload: cs.Standings})
	}
	if cs.Jackpot != nil {
		s.hub.BroadcastToRoom(room, live.Message{Type: live.EventJackpotUpdated, Payload: cs.Jackpot})
	}
}

// mapEngineError translates the engine taxonomy into service sentinels
// the HTTP layer knows how to answer.
func mapEngineError(err error) error {
	switch {
	case errors.Is(err, engine.ErrAlreadyResolved):
		return fmt.Errorf("%w: %v", ErrResultAlreadyEntered, err)
	case errors.Is(err, engine.ErrPrematureResolution):
		return fmt.Errorf("%w: %v", ErrRoundNotComplete, err)
	case errors.Is(err, engine.ErrInvalidScoreline):
		return ErrInvalidScoreline
	default:
		return err
	}
}

package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/palpitebox/bolao-system/models"
	"github.com/palpitebox/bolao-system/repositories"
)

// MatchService covers the fixture lifecycle before resolution: creating
// fixtures and taking participant predictions while they are open.
type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.MatchOutcome, error)
	GetMatch(ctx context.Context, matchID int) (*models.MatchOutcome, error)
	ListByRound(ctx context.Context, roundID int) ([]models.MatchOutcome, error)
	PlacePrediction(ctx context.Context, input PlacePredictionInput) (*models.Prediction, error)
	ListPredictions(ctx context.Context, matchID int) ([]models.Prediction, error)
}

type CreateMatchInput struct {
	CompetitionID int       `json:"competition_id"`
	RoundID       int       `json:"round_id"`
	GroupID       *int      `json:"group_id,omitempty"`
	HomeTeamID    int       `json:"home_team_id"`
	AwayTeamID    int       `json:"away_team_id"`
	KickoffAt     time.Time `json:"kickoff_at"`
}

type PlacePredictionInput struct {
	MatchID       int `json:"match_id"`
	TicketID      int `json:"ticket_id"`
	PredictedHome int `json:"predicted_home"`
	PredictedAway int `json:"predicted_away"`
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	predictionRepo repositories.PredictionRepository
	ticketRepo     repositories.TicketRepository
	roundRepo      repositories.RoundRepository
	logger         *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	predictionRepo repositories.PredictionRepository,
	ticketRepo repositories.TicketRepository,
	roundRepo repositories.RoundRepository,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		ticketRepo:     ticketRepo,
		roundRepo:      roundRepo,
		logger:         logger,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.MatchOutcome, error) {
	if input.HomeTeamID == input.AwayTeamID {
		return nil, ErrInvalidMatchTeams
	}

	round, err := s.roundRepo.GetByID(ctx, input.RoundID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	if round.Status == models.RoundStatusFinalized {
		return nil, ErrRoundAlreadyFinalized
	}

	match := &models.MatchOutcome{
		CompetitionID: input.CompetitionID,
		RoundID:       &input.RoundID,
		GroupID:       input.GroupID,
		HomeTeamID:    input.HomeTeamID,
		AwayTeamID:    input.AwayTeamID,
		KickoffAt:     input.KickoffAt,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, err
	}

	s.logger.Info("match created",
		slog.Int("match_id", match.ID),
		slog.Int("round_id", input.RoundID),
		slog.Int("home_team_id", match.HomeTeamID),
		slog.Int("away_team_id", match.AwayTeamID),
	)
	return match, nil
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.MatchOutcome, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByRound(ctx context.Context, roundID int) ([]models.MatchOutcome, error) {
	return s.matchRepo.ListByRound(ctx, roundID)
}

func (s *matchService) PlacePrediction(ctx context.Context, input PlacePredictionInput) (*models.Prediction, error) {
	if input.PredictedHome < 0 || input.PredictedAway < 0 {
		return nil, ErrInvalidScoreline
	}

	match, err := s.GetMatch(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if match.Finished {
		return nil, ErrPredictionTooLate
	}

	if _, err := s.ticketRepo.GetByID(ctx, input.TicketID); err != nil {
		if errors.Is(err, repositories.ErrTicketNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	prediction := &models.Prediction{
		MatchID:       input.MatchID,
		TicketID:      input.TicketID,
		PredictedHome: input.PredictedHome,
		PredictedAway: input.PredictedAway,
	}
	if err := s.predictionRepo.Create(ctx, nil, prediction); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPredictionDuplicate):
			return nil, ErrPredictionConflict
		case errors.Is(err, repositories.ErrPredictionTicketInvalid):
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return prediction, nil
}

func (s *matchService) ListPredictions(ctx context.Context, matchID int) ([]models.Prediction, error) {
	if _, err := s.GetMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return s.predictionRepo.ListByMatch(ctx, matchID)
}

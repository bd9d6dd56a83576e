package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/palpitebox/bolao-system/live"
	"github.com/palpitebox/bolao-system/models"
	"github.com/palpitebox/bolao-system/repositories"
)

// JackpotService exposes the competition's pool: its current state and
// the stake intake that grows it between resolutions.
type JackpotService interface {
	Current(ctx context.Context, competitionID int) (*models.JackpotState, error)
	History(ctx context.Context, competitionID int) ([]models.JackpotState, error)
	AddStake(ctx context.Context, competitionID int, amount int64) (*models.JackpotState, error)
}

type jackpotService struct {
	jackpotRepo repositories.JackpotRepository
	roundRepo   repositories.RoundRepository
	hub         *live.Hub
	logger      *slog.Logger
}

func NewJackpotService(jackpotRepo repositories.JackpotRepository, roundRepo repositories.RoundRepository, hub *live.Hub, logger *slog.Logger) JackpotService {
	return &jackpotService{jackpotRepo: jackpotRepo, roundRepo: roundRepo, hub: hub, logger: logger}
}

func (s *jackpotService) Current(ctx context.Context, competitionID int) (*models.JackpotState, error) {
	state, err := s.jackpotRepo.GetCurrent(ctx, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrJackpotStateNotFound) {
			return nil, ErrJackpotNotFound
		}
		return nil, err
	}
	return state, nil
}

func (s *jackpotService) History(ctx context.Context, competitionID int) ([]models.JackpotState, error) {
	rounds, err := s.roundRepo.ListByCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	states := make([]models.JackpotState, 0, len(rounds))
	for _, round := range rounds {
		state, err := s.jackpotRepo.GetByRound(ctx, competitionID, round.Number)
		if err != nil {
			if errors.Is(err, repositories.ErrJackpotStateNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load jackpot state for round %d: %w", round.Number, err)
		}
		states = append(states, *state)
	}
	return states, nil
}

func (s *jackpotService) AddStake(ctx context.Context, competitionID int, amount int64) (*models.JackpotState, error) {
	if amount <= 0 {
		return nil, ErrInvalidStake
	}

	state, err := s.Current(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if err := s.jackpotRepo.AddStake(ctx, nil, state.ID, amount); err != nil {
		if errors.Is(err, repositories.ErrJackpotStateNotFound) {
			// Resolved between the read and the write; the stake belongs
			// to whatever pool is open now.
			return nil, ErrJackpotNotFound
		}
		return nil, err
	}

	updated, err := s.jackpotRepo.GetByRound(ctx, competitionID, state.RoundNumber)
	if err != nil {
		return nil, err
	}

	s.logger.Info("stake added",
		slog.Int("competition_id", competitionID),
		slog.Int("round_number", updated.RoundNumber),
		slog.Int64("amount_centavos", amount),
	)
	s.hub.BroadcastToRoom(live.CompetitionRoom(competitionID), live.Message{
		Type:    live.EventJackpotUpdated,
		Payload: updated,
	})
	return updated, nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/palpitebox/bolao-system/engine"
	"github.com/palpitebox/bolao-system/models"
	"github.com/palpitebox/bolao-system/repositories"
)

// StandingsService serves group tables. The stored snapshot is the fast
// path; Recompute rebuilds the table from the finished matches when the
// snapshot is missing or suspected stale.
type StandingsService interface {
	GetTable(ctx context.Context, groupID int) ([]models.GroupStanding, error)
	Recompute(ctx context.Context, groupID int) ([]models.GroupStanding, error)
}

type standingsService struct {
	aggregator   *engine.StandingsAggregator
	groupRepo    repositories.GroupRepository
	matchRepo    repositories.MatchRepository
	standingRepo repositories.StandingRepository
}

func NewStandingsService(
	aggregator *engine.StandingsAggregator,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
) StandingsService {
	return &standingsService{
		aggregator:   aggregator,
		groupRepo:    groupRepo,
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
	}
}

func (s *standingsService) GetTable(ctx context.Context, groupID int) ([]models.GroupStanding, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	standings, err := s.standingRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(standings) == 0 {
		// Group resolved nothing yet; derive the seeded table on the fly.
		return s.Recompute(ctx, groupID)
	}
	return standings, nil
}

func (s *standingsService) Recompute(ctx context.Context, groupID int) ([]models.GroupStanding, error) {
	teamIDs, err := s.groupRepo.ListTeamIDs(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for group %d: %w", groupID, err)
	}
	if len(teamIDs) == 0 {
		return nil, ErrGroupNotFound
	}

	matches, err := s.matchRepo.ListFinishedByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load finished matches for group %d: %w", groupID, err)
	}

	table, err := s.aggregator.Aggregate(groupID, teamIDs, matches)
	if err != nil {
		return nil, err
	}

	if err := s.standingRepo.ReplaceForGroup(ctx, nil, groupID, table); err != nil {
		return nil, err
	}
	return table, nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/palpitebox/bolao-system/engine"
	"github.com/palpitebox/bolao-system/models"
	"github.com/palpitebox/bolao-system/repositories"
)

// ScheduleService answers sizing questions for group schedules.
type ScheduleService interface {
	QuotaForGroup(ctx context.Context, groupID int) (models.RoundQuota, error)
}

type scheduleService struct {
	sizer     *engine.ScheduleSizer
	rules     engine.Rules
	groupRepo repositories.GroupRepository
}

func NewScheduleService(sizer *engine.ScheduleSizer, rules engine.Rules, groupRepo repositories.GroupRepository) ScheduleService {
	return &scheduleService{sizer: sizer, rules: rules, groupRepo: groupRepo}
}

func (s *scheduleService) QuotaForGroup(ctx context.Context, groupID int) (models.RoundQuota, error) {
	teamIDs, err := s.groupRepo.ListTeamIDs(ctx, groupID)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return models.RoundQuota{}, ErrGroupNotFound
		}
		return models.RoundQuota{}, fmt.Errorf("failed to load teams for group %d: %w", groupID, err)
	}
	if len(teamIDs) == 0 {
		return models.RoundQuota{}, ErrGroupNotFound
	}

	// The sizer works on the effective count: undersized groups are
	// scheduled as if filled to the minimum, so their quota never shrinks
	// below the floor.
	teamCount := len(teamIDs)
	if teamCount < s.rules.MinGroupTeams {
		teamCount = s.rules.MinGroupTeams
	}
	quota, err := s.sizer.QuotaFor(groupID, teamCount)
	if err != nil {
		return models.RoundQuota{}, err
	}
	quota.TeamCount = len(teamIDs)
	return quota, nil
}

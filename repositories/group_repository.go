package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/palpitebox/bolao-system/models"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository interface {
	GetByID(ctx context.Context, id int) (*models.Group, error)
	// ListTeamIDs returns the group's teams in registration order, the
	// order the standings tie-break falls back to.
	ListTeamIDs(ctx context.Context, groupID int) ([]int, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	query := `SELECT id, competition_id, name FROM groups WHERE id = $1`

	group := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&group.ID, &group.CompetitionID, &group.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to scan group %d: %w", id, err)
	}
	return group, nil
}

func (r *postgresGroupRepository) ListTeamIDs(ctx context.Context, groupID int) ([]int, error) {
	query := `SELECT id FROM teams WHERE group_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for group %d: %w", groupID, err)
	}
	defer rows.Close()

	teamIDs := make([]int, 0)
	for rows.Next() {
		var id int
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		teamIDs = append(teamIDs, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teamIDs, nil
}

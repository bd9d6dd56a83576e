package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/palpitebox/bolao-system/models"
)

// StandingRepository persists the standings snapshot staged in a
// change-set. The engine output is authoritative; the table is a read
// model for feeds and audits, replaced wholesale per group.
type StandingRepository interface {
	ReplaceForGroup(ctx context.Context, exec SQLExecutor, groupID int, standings []models.GroupStanding) error
	ListByGroup(ctx context.Context, groupID int) ([]models.GroupStanding, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) ReplaceForGroup(ctx context.Context, exec SQLExecutor, groupID int, standings []models.GroupStanding) error {
	if exec == nil {
		exec = r.db
	}

	if _, err := exec.ExecContext(ctx, `DELETE FROM group_standings WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to clear standings for group %d: %w", groupID, err)
	}

	query := `
		INSERT INTO group_standings
			(group_id, team_id, played, won, drawn, lost, goals_for, goals_against,
			 goal_difference, points, percentage, position, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())`

	for _, row := range standings {
		if _, err := exec.ExecContext(ctx, query,
			groupID,
			row.TeamID,
			row.Played,
			row.Won,
			row.Drawn,
			row.Lost,
			row.GoalsFor,
			row.GoalsAgainst,
			row.GoalDifference,
			row.Points,
			row.Percentage,
			row.Position,
		); err != nil {
			return fmt.Errorf("failed to insert standing for team %d: %w", row.TeamID, err)
		}
	}
	return nil
}

func (r *postgresStandingRepository) ListByGroup(ctx context.Context, groupID int) ([]models.GroupStanding, error) {
	query := `
		SELECT group_id, team_id, played, won, drawn, lost, goals_for, goals_against,
		       goal_difference, points, percentage, position, updated_at
		FROM group_standings
		WHERE group_id = $1
		ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for group %d: %w", groupID, err)
	}
	defer rows.Close()

	standings := make([]models.GroupStanding, 0)
	for rows.Next() {
		var s models.GroupStanding
		if scanErr := rows.Scan(
			&s.GroupID,
			&s.TeamID,
			&s.Played,
			&s.Won,
			&s.Drawn,
			&s.Lost,
			&s.GoalsFor,
			&s.GoalsAgainst,
			&s.GoalDifference,
			&s.Points,
			&s.Percentage,
			&s.Position,
			&s.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", scanErr)
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during standing rows iteration: %w", err)
	}
	return standings, nil
}

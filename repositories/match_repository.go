package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/palpitebox/bolao-system/models"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchTeamInvalid   = errors.New("match team conflict or invalid")
	ErrMatchAlreadyScored = errors.New("match is already finished")
	ErrMatchRoundInvalid  = errors.New("match round conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.MatchOutcome) error
	GetByID(ctx context.Context, id int) (*models.MatchOutcome, error)
	ListFinishedByGroup(ctx context.Context, groupID int) ([]models.MatchOutcome, error)
	ListByRound(ctx context.Context, roundID int) ([]models.MatchOutcome, error)
	// FinishOnce records the final scoreline and flips finished in one
	// conditional update. It returns ErrMatchAlreadyScored when the match
	// was finished before, which is the at-most-once guarantee resolution
	// relies on.
	FinishOnce(ctx context.Context, exec SQLExecutor, id, homeScore, awayScore int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, competition_id, round_id, group_id, home_team_id, away_team_id,
	home_score, away_score, finished, kickoff_at, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.MatchOutcome) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO matches
			(competition_id, round_id, group_id, home_team_id, away_team_id, home_score, away_score, finished, kickoff_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.CompetitionID,
		match.RoundID,
		match.GroupID,
		match.HomeTeamID,
		match.AwayTeamID,
		match.HomeScore,
		match.AwayScore,
		match.Finished,
		match.KickoffAt,
	).Scan(&match.ID, &match.CreatedAt)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.MatchOutcome, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.MatchOutcome{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.CompetitionID,
		&match.RoundID,
		&match.GroupID,
		&match.HomeTeamID,
		&match.AwayTeamID,
		&match.HomeScore,
		&match.AwayScore,
		&match.Finished,
		&match.KickoffAt,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListFinishedByGroup(ctx context.Context, groupID int) ([]models.MatchOutcome, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE group_id = $1 AND finished = TRUE
		ORDER BY id ASC`
	return r.list(ctx, query, groupID)
}

func (r *postgresMatchRepository) ListByRound(ctx context.Context, roundID int) ([]models.MatchOutcome, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE round_id = $1
		ORDER BY id ASC`
	return r.list(ctx, query, roundID)
}

func (r *postgresMatchRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.MatchOutcome, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]models.MatchOutcome, 0)
	for rows.Next() {
		var match models.MatchOutcome
		if scanErr := rows.Scan(
			&match.ID,
			&match.CompetitionID,
			&match.RoundID,
			&match.GroupID,
			&match.HomeTeamID,
			&match.AwayTeamID,
			&match.HomeScore,
			&match.AwayScore,
			&match.Finished,
			&match.KickoffAt,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) FinishOnce(ctx context.Context, exec SQLExecutor, id, homeScore, awayScore int) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches
		SET home_score = $1, away_score = $2, finished = TRUE
		WHERE id = $3 AND finished = FALSE`

	result, err := exec.ExecContext(ctx, query, homeScore, awayScore, id)
	if err != nil {
		return r.handleMatchError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		// Either missing or already finished; distinguish for the caller.
		var exists bool
		if scanErr := exec.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM matches WHERE id = $1)`, id).Scan(&exists); scanErr != nil {
			return fmt.Errorf("failed to check match %d existence: %w", id, scanErr)
		}
		if !exists {
			return ErrMatchNotFound
		}
		return ErrMatchAlreadyScored
	}
	return nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_home_team_id_fkey", "matches_away_team_id_fkey":
			return ErrMatchTeamInvalid
		case "matches_round_id_fkey":
			return ErrMatchRoundInvalid
		}
	}
	return err
}

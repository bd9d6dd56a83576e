package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/palpitebox/bolao-system/models"
)

var (
	ErrRoundNotFound         = errors.New("round not found")
	ErrRoundAlreadyFinalized = errors.New("round is already finalized")
)

type RoundRepository interface {
	GetByID(ctx context.Context, id int) (*models.Round, error)
	GetByDecisiveMatch(ctx context.Context, matchID int) (*models.Round, error)
	ListByCompetition(ctx context.Context, competitionID int) ([]models.Round, error)
	// FinalizeOnce flips an open round to finalized, failing with
	// ErrRoundAlreadyFinalized when another resolution got there first.
	FinalizeOnce(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

const roundColumns = `id, competition_id, number, format, status, decisive_match_id, favored_team_id, created_at`

func (r *postgresRoundRepository) scanRound(row *sql.Row) (*models.Round, error) {
	round := &models.Round{}
	err := row.Scan(
		&round.ID,
		&round.CompetitionID,
		&round.Number,
		&round.Format,
		&round.Status,
		&round.DecisiveMatchID,
		&round.FavoredTeamID,
		&round.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to scan round: %w", err)
	}
	return round, nil
}

func (r *postgresRoundRepository) GetByID(ctx context.Context, id int) (*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`
	return r.scanRound(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRoundRepository) GetByDecisiveMatch(ctx context.Context, matchID int) (*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE decisive_match_id = $1`
	return r.scanRound(r.db.QueryRowContext(ctx, query, matchID))
}

func (r *postgresRoundRepository) ListByCompetition(ctx context.Context, competitionID int) ([]models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE competition_id = $1 ORDER BY number ASC`

	rows, err := r.db.QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds for competition %d: %w", competitionID, err)
	}
	defer rows.Close()

	rounds := make([]models.Round, 0)
	for rows.Next() {
		var round models.Round
		if scanErr := rows.Scan(
			&round.ID,
			&round.CompetitionID,
			&round.Number,
			&round.Format,
			&round.Status,
			&round.DecisiveMatchID,
			&round.FavoredTeamID,
			&round.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan round row: %w", scanErr)
		}
		rounds = append(rounds, round)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during round rows iteration: %w", err)
	}
	return rounds, nil
}

func (r *postgresRoundRepository) FinalizeOnce(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	query := `UPDATE rounds SET status = $1 WHERE id = $2 AND status = $3`

	result, err := exec.ExecContext(ctx, query, models.RoundStatusFinalized, id, models.RoundStatusOpen)
	if err != nil {
		return fmt.Errorf("failed to finalize round %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		if scanErr := exec.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rounds WHERE id = $1)`, id).Scan(&exists); scanErr != nil {
			return fmt.Errorf("failed to check round %d existence: %w", id, scanErr)
		}
		if !exists {
			return ErrRoundNotFound
		}
		return ErrRoundAlreadyFinalized
	}
	return nil
}

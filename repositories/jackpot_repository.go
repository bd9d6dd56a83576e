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
	ErrJackpotStateNotFound  = errors.New("jackpot state not found")
	ErrJackpotStateDuplicate = errors.New("jackpot state for this round already exists")
)

type JackpotRepository interface {
	Create(ctx context.Context, exec SQLExecutor, state *models.JackpotState) error
	GetByRound(ctx context.Context, competitionID, roundNumber int) (*models.JackpotState, error)
	// GetCurrent returns the newest unresolved state of the competition.
	GetCurrent(ctx context.Context, competitionID int) (*models.JackpotState, error)
	Update(ctx context.Context, exec SQLExecutor, state *models.JackpotState) error
	AddStake(ctx context.Context, exec SQLExecutor, id int, amount int64) error
}

type postgresJackpotRepository struct {
	db *sql.DB
}

func NewPostgresJackpotRepository(db *sql.DB) JackpotRepository {
	return &postgresJackpotRepository{db: db}
}

func (r *postgresJackpotRepository) Create(ctx context.Context, exec SQLExecutor, state *models.JackpotState) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO jackpot_states (competition_id, round_number, accumulated, previous_accumulated, resolved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, updated_at`

	err := exec.QueryRowContext(ctx, query,
		state.CompetitionID,
		state.RoundNumber,
		state.Accumulated,
		state.PreviousAccumulated,
		state.Resolved,
	).Scan(&state.ID, &state.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "jackpot_states_competition_id_round_number_key" {
			return ErrJackpotStateDuplicate
		}
		return err
	}
	return nil
}

func (r *postgresJackpotRepository) scanState(row *sql.Row) (*models.JackpotState, error) {
	state := &models.JackpotState{}
	err := row.Scan(
		&state.ID,
		&state.CompetitionID,
		&state.RoundNumber,
		&state.Accumulated,
		&state.PreviousAccumulated,
		&state.Resolved,
		&state.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJackpotStateNotFound
		}
		return nil, fmt.Errorf("failed to scan jackpot state: %w", err)
	}
	return state, nil
}

const jackpotColumns = `id, competition_id, round_number, accumulated, previous_accumulated, resolved, updated_at`

func (r *postgresJackpotRepository) GetByRound(ctx context.Context, competitionID, roundNumber int) (*models.JackpotState, error) {
	query := `SELECT ` + jackpotColumns + ` FROM jackpot_states WHERE competition_id = $1 AND round_number = $2`
	return r.scanState(r.db.QueryRowContext(ctx, query, competitionID, roundNumber))
}

func (r *postgresJackpotRepository) GetCurrent(ctx context.Context, competitionID int) (*models.JackpotState, error) {
	query := `
		SELECT ` + jackpotColumns + `
		FROM jackpot_states
		WHERE competition_id = $1 AND resolved = FALSE
		ORDER BY round_number DESC
		LIMIT 1`
	return r.scanState(r.db.QueryRowContext(ctx, query, competitionID))
}

func (r *postgresJackpotRepository) Update(ctx context.Context, exec SQLExecutor, state *models.JackpotState) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE jackpot_states
		SET accumulated = $1, previous_accumulated = $2, resolved = $3, updated_at = NOW()
		WHERE id = $4`

	result, err := exec.ExecContext(ctx, query, state.Accumulated, state.PreviousAccumulated, state.Resolved, state.ID)
	if err != nil {
		return fmt.Errorf("failed to update jackpot state %d: %w", state.ID, err)
	}
	return checkAffectedRows(result, ErrJackpotStateNotFound)
}

func (r *postgresJackpotRepository) AddStake(ctx context.Context, exec SQLExecutor, id int, amount int64) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE jackpot_states
		SET accumulated = accumulated + $1, updated_at = NOW()
		WHERE id = $2 AND resolved = FALSE`

	result, err := exec.ExecContext(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to add stake to jackpot state %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrJackpotStateNotFound)
}

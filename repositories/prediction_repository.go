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
	ErrPredictionNotFound      = errors.New("prediction not found")
	ErrPredictionTicketInvalid = errors.New("prediction ticket conflict or invalid")
	ErrPredictionDuplicate     = errors.New("ticket already has a prediction for this match")
)

type PredictionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, prediction *models.Prediction) error
	ListByMatch(ctx context.Context, matchID int) ([]models.Prediction, error)
	// ListScoredByTickets returns every scored prediction of the given
	// tickets, keyed by ticket, excluding the named match. This is the
	// history the resolver resums ticket totals from.
	ListScoredByTickets(ctx context.Context, ticketIDs []int, excludeMatchID int) (map[int][]models.Prediction, error)
	// SetPointsOnce writes a prediction's points only when they are still
	// unset; points are immutable after that.
	SetPointsOnce(ctx context.Context, exec SQLExecutor, predictionID, points int) error
}

type postgresPredictionRepository struct {
	db *sql.DB
}

func NewPostgresPredictionRepository(db *sql.DB) PredictionRepository {
	return &postgresPredictionRepository{db: db}
}

func (r *postgresPredictionRepository) Create(ctx context.Context, exec SQLExecutor, prediction *models.Prediction) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO predictions (match_id, ticket_id, predicted_home, predicted_away)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		prediction.MatchID,
		prediction.TicketID,
		prediction.PredictedHome,
		prediction.PredictedAway,
	).Scan(&prediction.ID, &prediction.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "predictions_ticket_id_fkey":
				return ErrPredictionTicketInvalid
			case "predictions_match_id_ticket_id_key":
				return ErrPredictionDuplicate
			}
		}
		return err
	}
	return nil
}

func (r *postgresPredictionRepository) ListByMatch(ctx context.Context, matchID int) ([]models.Prediction, error) {
	query := `
		SELECT id, match_id, ticket_id, predicted_home, predicted_away, points_earned, created_at
		FROM predictions
		WHERE match_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions for match %d: %w", matchID, err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

func (r *postgresPredictionRepository) ListScoredByTickets(ctx context.Context, ticketIDs []int, excludeMatchID int) (map[int][]models.Prediction, error) {
	history := make(map[int][]models.Prediction, len(ticketIDs))
	if len(ticketIDs) == 0 {
		return history, nil
	}

	query := `
		SELECT id, match_id, ticket_id, predicted_home, predicted_away, points_earned, created_at
		FROM predictions
		WHERE ticket_id = ANY($1) AND match_id <> $2 AND points_earned IS NOT NULL
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ticketIDs), excludeMatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket histories: %w", err)
	}
	defer rows.Close()

	predictions, err := scanPredictions(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range predictions {
		history[p.TicketID] = append(history[p.TicketID], p)
	}
	return history, nil
}

func (r *postgresPredictionRepository) SetPointsOnce(ctx context.Context, exec SQLExecutor, predictionID, points int) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE predictions
		SET points_earned = $1
		WHERE id = $2 AND points_earned IS NULL`

	result, err := exec.ExecContext(ctx, query, points, predictionID)
	if err != nil {
		return fmt.Errorf("failed to set points for prediction %d: %w", predictionID, err)
	}
	return checkAffectedRows(result, ErrPredictionNotFound)
}

func scanPredictions(rows *sql.Rows) ([]models.Prediction, error) {
	predictions := make([]models.Prediction, 0)
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(
			&p.ID,
			&p.MatchID,
			&p.TicketID,
			&p.PredictedHome,
			&p.PredictedAway,
			&p.PointsEarned,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction row: %w", err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during prediction rows iteration: %w", err)
	}
	return predictions, nil
}

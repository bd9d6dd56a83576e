package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// QuizRepository reads the sub-event results of threshold-quiz rounds.
type QuizRepository interface {
	// CorrectCountsByRound folds a round's answers into correct-answer
	// counts per ticket (one point per correct answer).
	CorrectCountsByRound(ctx context.Context, roundID int) (map[int]int, error)
	// PendingQuestions reports how many of the round's questions still
	// lack a published correct answer; a round finalizes only at zero.
	PendingQuestions(ctx context.Context, roundID int) (int, error)
}

type postgresQuizRepository struct {
	db *sql.DB
}

func NewPostgresQuizRepository(db *sql.DB) QuizRepository {
	return &postgresQuizRepository{db: db}
}

func (r *postgresQuizRepository) CorrectCountsByRound(ctx context.Context, roundID int) (map[int]int, error) {
	query := `
		SELECT ticket_id, COUNT(*)
		FROM quiz_answers
		WHERE round_id = $1 AND correct = TRUE
		GROUP BY ticket_id`

	rows, err := r.db.QueryContext(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query correct counts for round %d: %w", roundID, err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var ticketID, count int
		if scanErr := rows.Scan(&ticketID, &count); scanErr != nil {
			return nil, fmt.Errorf("failed to scan correct count row: %w", scanErr)
		}
		counts[ticketID] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during correct count rows iteration: %w", err)
	}
	return counts, nil
}

func (r *postgresQuizRepository) PendingQuestions(ctx context.Context, roundID int) (int, error) {
	query := `SELECT COUNT(*) FROM quiz_questions WHERE round_id = $1 AND answer_published = FALSE`

	var pending int
	if err := r.db.QueryRowContext(ctx, query, roundID).Scan(&pending); err != nil {
		return 0, fmt.Errorf("failed to count pending questions for round %d: %w", roundID, err)
	}
	return pending, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/palpitebox/bolao-system/models"
)

var ErrTicketNotFound = errors.New("ticket not found")

type TicketRepository interface {
	GetByID(ctx context.Context, id int) (*models.ParticipantTicket, error)
	ListByCompetition(ctx context.Context, competitionID int) ([]models.ParticipantTicket, error)
	UpdateTotalPoints(ctx context.Context, exec SQLExecutor, ticketID, totalPoints int) error
	UpdateQuizPoints(ctx context.Context, exec SQLExecutor, ticketID, quizPoints int) error
	// QuizTotalsByCompetition returns the running quiz totals keyed by
	// ticket for every ticket of the competition.
	QuizTotalsByCompetition(ctx context.Context, competitionID int) (map[int]int, error)
}

type postgresTicketRepository struct {
	db *sql.DB
}

func NewPostgresTicketRepository(db *sql.DB) TicketRepository {
	return &postgresTicketRepository{db: db}
}

func (r *postgresTicketRepository) GetByID(ctx context.Context, id int) (*models.ParticipantTicket, error) {
	query := `
		SELECT id, competition_id, participant_id, total_points, quiz_points, created_at
		FROM tickets
		WHERE id = $1`

	ticket := &models.ParticipantTicket{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.CompetitionID,
		&ticket.ParticipantID,
		&ticket.TotalPoints,
		&ticket.QuizPoints,
		&ticket.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to scan ticket %d: %w", id, err)
	}
	return ticket, nil
}

func (r *postgresTicketRepository) ListByCompetition(ctx context.Context, competitionID int) ([]models.ParticipantTicket, error) {
	query := `
		SELECT id, competition_id, participant_id, total_points, quiz_points, created_at
		FROM tickets
		WHERE competition_id = $1
		ORDER BY total_points DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets for competition %d: %w", competitionID, err)
	}
	defer rows.Close()

	tickets := make([]models.ParticipantTicket, 0)
	for rows.Next() {
		var t models.ParticipantTicket
		if scanErr := rows.Scan(&t.ID, &t.CompetitionID, &t.ParticipantID, &t.TotalPoints, &t.QuizPoints, &t.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan ticket row: %w", scanErr)
		}
		tickets = append(tickets, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during ticket rows iteration: %w", err)
	}
	return tickets, nil
}

func (r *postgresTicketRepository) UpdateTotalPoints(ctx context.Context, exec SQLExecutor, ticketID, totalPoints int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE tickets SET total_points = $1 WHERE id = $2`, totalPoints, ticketID)
	if err != nil {
		return fmt.Errorf("failed to update total points for ticket %d: %w", ticketID, err)
	}
	return checkAffectedRows(result, ErrTicketNotFound)
}

func (r *postgresTicketRepository) UpdateQuizPoints(ctx context.Context, exec SQLExecutor, ticketID, quizPoints int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE tickets SET quiz_points = $1 WHERE id = $2`, quizPoints, ticketID)
	if err != nil {
		return fmt.Errorf("failed to update quiz points for ticket %d: %w", ticketID, err)
	}
	return checkAffectedRows(result, ErrTicketNotFound)
}

func (r *postgresTicketRepository) QuizTotalsByCompetition(ctx context.Context, competitionID int) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, quiz_points FROM tickets WHERE competition_id = $1`, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz totals for competition %d: %w", competitionID, err)
	}
	defer rows.Close()

	totals := make(map[int]int)
	for rows.Next() {
		var id, points int
		if scanErr := rows.Scan(&id, &points); scanErr != nil {
			return nil, fmt.Errorf("failed to scan quiz total row: %w", scanErr)
		}
		totals[id] = points
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during quiz total rows iteration: %w", err)
	}
	return totals, nil
}

package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

// StatusLogRepository is read-only: log rows are written exclusively inside
// the ticket repository's transactions.
type StatusLogRepository interface {
	ListByTicketID(ctx context.Context, ticketID uuid.UUID) ([]*models.TicketStatusLog, error)
}

type statusLogRepo struct {
	db DB
}

func NewStatusLogRepository(db DB) StatusLogRepository {
	return &statusLogRepo{db: db}
}

func (r *statusLogRepo) ListByTicketID(ctx context.Context, ticketID uuid.UUID) ([]*models.TicketStatusLog, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, ticket_id, old_status, new_status, changed_by_user_id, notes, created_at
        FROM ticket_status_logs
        WHERE ticket_id=$1
        ORDER BY created_at, id
    `, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.TicketStatusLog
	for rows.Next() {
		entry, err := scanStatusLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func scanStatusLog(row pgx.Row) (*models.TicketStatusLog, error) {
	var l models.TicketStatusLog
	err := row.Scan(
		&l.ID,
		&l.TicketID,
		&l.OldStatus,
		&l.NewStatus,
		&l.ChangedByUserID,
		&l.Notes,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

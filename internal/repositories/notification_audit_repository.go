package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

// NotificationAuditRepository records delivery attempts. Append-only.
type NotificationAuditRepository interface {
	Record(ctx context.Context, a *models.NotificationAudit) error
	ListByTicketID(ctx context.Context, ticketID uuid.UUID) ([]*models.NotificationAudit, error)
}

type notificationAuditRepo struct {
	db DB
}

func NewNotificationAuditRepository(db DB) NotificationAuditRepository {
	return &notificationAuditRepo{db: db}
}

func (r *notificationAuditRepo) Record(ctx context.Context, a *models.NotificationAudit) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO notification_audits (
            id, kind, recipient, ticket_id, success, error, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,NOW())
    `, a.ID, a.Kind, a.Recipient, a.TicketID, a.Success, a.Error)
	return err
}

func (r *notificationAuditRepo) ListByTicketID(ctx context.Context, ticketID uuid.UUID) ([]*models.NotificationAudit, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, kind, recipient, ticket_id, success, error, created_at
        FROM notification_audits
        WHERE ticket_id=$1
        ORDER BY created_at
    `, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.NotificationAudit
	for rows.Next() {
		var a models.NotificationAudit
		if err := rows.Scan(&a.ID, &a.Kind, &a.Recipient, &a.TicketID, &a.Success, &a.Error, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

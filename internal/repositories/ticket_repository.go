package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

// TicketFilter narrows List to the slice of tickets a caller may see. The
// service layer fills it from the authorization scope; an empty BuildingIDs
// slice with ScopeToBuildings set yields no rows (staff with no entitlements).
type TicketFilter struct {
	CompanyID        *uuid.UUID
	ScopeToBuildings bool
	BuildingIDs      []uuid.UUID
	CreatedByUserID  *uuid.UUID
	Status           *models.TicketStatus
}

type TicketRepository interface {
	// CreateWithLog inserts the ticket and its creation status-log row (null
	// old_status) in one transaction, assigning ticket_number from the
	// sequence.
	CreateWithLog(ctx context.Context, t *models.Ticket) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	List(ctx context.Context, f TicketFilter) ([]*models.Ticket, error)

	Update(ctx context.Context, t *models.Ticket) error
	UpdateIfVersion(ctx context.Context, t *models.Ticket, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Ticket) error) error

	// TransitionStatusAtomic locks the ticket row, re-checks row_version, then
	// persists the new status and appends exactly one status-log row in the
	// same transaction. completed_at is stamped when entering completed.
	TransitionStatusAtomic(
		ctx context.Context,
		ticketID uuid.UUID,
		expectedVersion int64,
		newStatus models.TicketStatus,
		changedBy uuid.UUID,
		notes *string,
	) (*models.Ticket, *models.TicketStatusLog, error)
}

type ticketRepo struct {
	*BaseVersionedRepo[*models.Ticket]
	db DB
}

func NewTicketRepository(db DB) TicketRepository {
	r := &ticketRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectTicket()+" WHERE id=$1", scanTicket)
	return r
}

func baseSelectTicket() string {
	return `
        SELECT
            id, ticket_number, building_id, space_id, created_by_user_id,
            issue_type, severity, status, description,
            assigned_technician, scheduled_date, quote_amount, invoice_number,
            completed_at, created_at, updated_at, row_version
        FROM tickets
    `
}

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	var t models.Ticket
	err := row.Scan(
		&t.ID,
		&t.TicketNumber,
		&t.BuildingID,
		&t.SpaceID,
		&t.CreatedByUserID,
		&t.IssueType,
		&t.Severity,
		&t.Status,
		&t.Description,
		&t.AssignedTechnician,
		&t.ScheduledDate,
		&t.QuoteAmount,
		&t.InvoiceNumber,
		&t.CompletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) CreateWithLog(ctx context.Context, t *models.Ticket) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
        INSERT INTO tickets (
            id, ticket_number, building_id, space_id, created_by_user_id,
            issue_type, severity, status, description,
            assigned_technician, scheduled_date, quote_amount, invoice_number,
            created_at, updated_at, row_version
        ) VALUES (
            $1, nextval('ticket_number_seq'), $2, $3, $4,
            $5, $6, $7, $8,
            $9, $10, $11, $12,
            NOW(), NOW(), 1
        )
        RETURNING ticket_number, created_at
    `,
		t.ID, t.BuildingID, t.SpaceID, t.CreatedByUserID,
		t.IssueType, t.Severity, t.Status, t.Description,
		t.AssignedTechnician, t.ScheduledDate, t.QuoteAmount, t.InvoiceNumber,
	).Scan(&t.TicketNumber, &t.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO ticket_status_logs (
            id, ticket_id, old_status, new_status, changed_by_user_id, notes, created_at
        ) VALUES ($1,$2,NULL,$3,$4,NULL,NOW())
    `, uuid.New(), t.ID, t.Status, t.CreatedByUserID)
	return err
}

func (r *ticketRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *ticketRepo) List(ctx context.Context, f TicketFilter) ([]*models.Ticket, error) {
	sql := baseSelectTicket() + " WHERE 1=1"
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CompanyID != nil {
		sql += " AND building_id IN (SELECT id FROM buildings WHERE company_id=" + arg(*f.CompanyID) + ")"
	}
	if f.ScopeToBuildings {
		if len(f.BuildingIDs) == 0 {
			return []*models.Ticket{}, nil
		}
		sql += " AND building_id = ANY(" + arg(f.BuildingIDs) + ")"
	}
	if f.CreatedByUserID != nil {
		sql += " AND created_by_user_id=" + arg(*f.CreatedByUserID)
	}
	if f.Status != nil {
		sql += " AND status=" + arg(*f.Status)
	}
	sql += " ORDER BY ticket_number DESC"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ticketRepo) Update(ctx context.Context, t *models.Ticket) error {
	_, err := r.update(ctx, t, false, 0)
	return err
}

func (r *ticketRepo) UpdateIfVersion(ctx context.Context, t *models.Ticket, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, t, true, expected)
}

func (r *ticketRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Ticket) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

// update writes the mutable non-status fields. Status changes go exclusively
// through TransitionStatusAtomic so the log stays a complete history.
func (r *ticketRepo) update(ctx context.Context, t *models.Ticket, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
        UPDATE tickets SET
            issue_type=$1, severity=$2, description=$3,
            assigned_technician=$4, scheduled_date=$5, quote_amount=$6,
            invoice_number=$7, updated_at=NOW()
    `
	args := []interface{}{
		t.IssueType, t.Severity, t.Description,
		t.AssignedTechnician, t.ScheduledDate, t.QuoteAmount, t.InvoiceNumber,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$8 AND row_version=$9`
		args = append(args, t.ID, expected)
	} else {
		sql += ` WHERE id=$8`
		args = append(args, t.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *ticketRepo) TransitionStatusAtomic(
	ctx context.Context,
	ticketID uuid.UUID,
	expectedVersion int64,
	newStatus models.TicketStatus,
	changedBy uuid.UUID,
	notes *string,
) (*models.Ticket, *models.TicketStatusLog, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectTicket()+" WHERE id=$1 FOR UPDATE", ticketID)
	t, err := scanTicket(row)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		err = pgx.ErrNoRows
		return nil, nil, err
	}
	if t.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return t, nil, err
	}

	var completedAt *time.Time
	if newStatus == models.StatusCompleted {
		now := time.Now().UTC()
		completedAt = &now
	} else {
		completedAt = t.CompletedAt
	}

	_, err = tx.Exec(ctx, `
        UPDATE tickets
        SET status=$1, completed_at=$2, row_version=row_version+1, updated_at=NOW()
        WHERE id=$3
    `, newStatus, completedAt, ticketID)
	if err != nil {
		return nil, nil, err
	}

	logEntry := &models.TicketStatusLog{
		ID:              uuid.New(),
		TicketID:        ticketID,
		OldStatus:       &t.Status,
		NewStatus:       newStatus,
		ChangedByUserID: &changedBy,
		Notes:           notes,
	}
	err = tx.QueryRow(ctx, `
        INSERT INTO ticket_status_logs (
            id, ticket_id, old_status, new_status, changed_by_user_id, notes, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,NOW())
        RETURNING created_at
    `, logEntry.ID, logEntry.TicketID, logEntry.OldStatus, logEntry.NewStatus,
		logEntry.ChangedByUserID, logEntry.Notes,
	).Scan(&logEntry.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectTicket()+" WHERE id=$1", ticketID)
	updated, err := scanTicket(newRow)
	if err != nil {
		return nil, nil, err
	}
	return updated, logEntry, nil
}

package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type InvitationRepository interface {
	Create(ctx context.Context, inv *models.Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error)
	GetByToken(ctx context.Context, token string) (*models.Invitation, error)
	ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.Invitation, error)
	PendingEmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired purges invitations past their TTL that were never
	// accepted. Returns the number of rows removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// RotateToken atomically swaps the token (the old string dies unredeemed)
	// and optionally updates the invitee name/email; extends expiry from now.
	RotateToken(ctx context.Context, invitationID uuid.UUID, newToken string, name, email *string, expiresAt time.Time) (*models.Invitation, error)

	// AcceptAtomic redeems the token: it locks the invitation row, checks the
	// single-use and expiry invariants, inserts the user row and stamps
	// accepted_at in one transaction. A concurrent second redeem sees
	// accepted_at set and gets utils.ErrTokenAlreadyUsed.
	AcceptAtomic(ctx context.Context, token string, newUser *models.User, now time.Time) (*models.Invitation, error)
}

type invitationRepo struct {
	db DB
}

func NewInvitationRepository(db DB) InvitationRepository {
	return &invitationRepo{db: db}
}

func baseSelectInvitation() string {
	return `
        SELECT
            id, company_id, email, name, role, token, invited_by_user_id,
            expires_at, accepted_at, created_at, updated_at, row_version
        FROM invitations
    `
}

func scanInvitation(row pgx.Row) (*models.Invitation, error) {
	var inv models.Invitation
	err := row.Scan(
		&inv.ID,
		&inv.CompanyID,
		&inv.Email,
		&inv.Name,
		&inv.Role,
		&inv.Token,
		&inv.InvitedByUserID,
		&inv.ExpiresAt,
		&inv.AcceptedAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
		&inv.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepo) Create(ctx context.Context, inv *models.Invitation) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO invitations (
            id, company_id, email, name, role, token, invited_by_user_id,
            expires_at, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW(),1)
    `,
		inv.ID, inv.CompanyID, inv.Email, inv.Name, inv.Role, inv.Token,
		inv.InvitedByUserID, inv.ExpiresAt,
	)
	return err
}

func (r *invitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	row := r.db.QueryRow(ctx, baseSelectInvitation()+" WHERE id=$1", id)
	return scanInvitation(row)
}

func (r *invitationRepo) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	row := r.db.QueryRow(ctx, baseSelectInvitation()+" WHERE token=$1", token)
	return scanInvitation(row)
}

func (r *invitationRepo) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.Invitation, error) {
	rows, err := r.db.Query(ctx, baseSelectInvitation()+" WHERE company_id=$1 ORDER BY created_at DESC", companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// PendingEmailExists reports whether an unaccepted invitation for the email is
// already outstanding anywhere on the platform.
func (r *invitationRepo) PendingEmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM invitations
            WHERE LOWER(email)=LOWER($1) AND accepted_at IS NULL AND id<>$2
        )
    `, email, excludeID).Scan(&exists)
	return exists, err
}

func (r *invitationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invitations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *invitationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        DELETE FROM invitations
        WHERE accepted_at IS NULL AND expires_at < $1
    `, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *invitationRepo) RotateToken(ctx context.Context, invitationID uuid.UUID, newToken string, name, email *string, expiresAt time.Time) (*models.Invitation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectInvitation()+" WHERE id=$1 FOR UPDATE", invitationID)
	inv, err := scanInvitation(row)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, pgx.ErrNoRows
	}
	if inv.Accepted() {
		err = utils.ErrTokenAlreadyUsed
		return nil, err
	}

	if name != nil {
		inv.Name = *name
	}
	if email != nil {
		inv.Email = *email
	}

	_, err = tx.Exec(ctx, `
        UPDATE invitations
        SET token=$1, name=$2, email=$3, expires_at=$4,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$5
    `, newToken, inv.Name, inv.Email, expiresAt, invitationID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectInvitation()+" WHERE id=$1", invitationID)
	var out *models.Invitation
	out, err = scanInvitation(newRow)
	return out, err
}

func (r *invitationRepo) AcceptAtomic(ctx context.Context, token string, newUser *models.User, now time.Time) (*models.Invitation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectInvitation()+" WHERE token=$1 FOR UPDATE", token)
	inv, err := scanInvitation(row)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		err = utils.ErrTokenNotFound
		return nil, err
	}
	if inv.Accepted() {
		err = utils.ErrTokenAlreadyUsed
		return nil, err
	}
	if inv.Expired(now) {
		err = utils.ErrTokenExpired
		return nil, err
	}

	// Identity fields come from the locked row, not from whatever the caller
	// read before the lock, so a concurrent rotate cannot smuggle in stale
	// invitee data.
	newUser.Email = inv.Email
	newUser.FullName = inv.Name
	newUser.Role = inv.Role
	newUser.CompanyID = &inv.CompanyID

	_, err = tx.Exec(ctx, `
        INSERT INTO users (
            id, email, full_name, phone, role, company_id, password_hash,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW(),1)
    `, newUser.ID, newUser.Email, newUser.FullName, newUser.Phone,
		newUser.Role, newUser.CompanyID, newUser.PasswordHash)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE invitations
        SET accepted_at=$1, row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, now, inv.ID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectInvitation()+" WHERE id=$1", inv.ID)
	var out *models.Invitation
	out, err = scanInvitation(newRow)
	return out, err
}

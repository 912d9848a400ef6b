package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type OccupantRepository interface {
	Create(ctx context.Context, o *models.Occupant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Occupant, error)
	GetByClaimToken(ctx context.Context, token string) (*models.Occupant, error)
	ListBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*models.Occupant, error)
	ListSpaceIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListBuildingIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, o *models.Occupant) error
	UpdateIfVersion(ctx context.Context, o *models.Occupant, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Occupant) error) error
	Delete(ctx context.Context, id uuid.UUID) error

	// RotateClaimToken atomically replaces the live token (superseding the old
	// string) and stamps invite_sent_at. Fails when the occupant has already
	// claimed.
	RotateClaimToken(ctx context.Context, occupantID uuid.UUID, newToken string, name, email *string) (*models.Occupant, error)

	// ClaimAtomic redeems a claim token: it locks the occupant row, verifies it
	// is unclaimed, inserts the resident user, binds user_id and stamps
	// claimed_at, all in one transaction. The second of two concurrent calls
	// gets utils.ErrTokenAlreadyUsed.
	ClaimAtomic(ctx context.Context, token string, newUser *models.User) (*models.Occupant, error)
}

type occupantRepo struct {
	*BaseVersionedRepo[*models.Occupant]
	db DB
}

func NewOccupantRepository(db DB) OccupantRepository {
	r := &occupantRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectOccupant()+" WHERE id=$1", scanOccupant)
	return r
}

func baseSelectOccupant() string {
	return `
        SELECT
            id, space_id, user_id, occupant_type, name, email, phone,
            claim_token, invite_sent_at, claimed_at,
            created_at, updated_at, row_version
        FROM occupants
    `
}

func scanOccupant(row pgx.Row) (*models.Occupant, error) {
	var o models.Occupant
	err := row.Scan(
		&o.ID,
		&o.SpaceID,
		&o.UserID,
		&o.OccupantType,
		&o.Name,
		&o.Email,
		&o.Phone,
		&o.ClaimToken,
		&o.InviteSentAt,
		&o.ClaimedAt,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *occupantRepo) Create(ctx context.Context, o *models.Occupant) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO occupants (
            id, space_id, user_id, occupant_type, name, email, phone,
            claim_token, invite_sent_at, claimed_at,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW(),1)
    `,
		o.ID, o.SpaceID, o.UserID, o.OccupantType, o.Name, o.Email, o.Phone,
		o.ClaimToken, o.InviteSentAt, o.ClaimedAt,
	)
	return err
}

func (r *occupantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Occupant, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *occupantRepo) GetByClaimToken(ctx context.Context, token string) (*models.Occupant, error) {
	row := r.db.QueryRow(ctx, baseSelectOccupant()+" WHERE claim_token=$1", token)
	return scanOccupant(row)
}

func (r *occupantRepo) ListBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*models.Occupant, error) {
	rows, err := r.db.Query(ctx, baseSelectOccupant()+" WHERE space_id=$1 ORDER BY created_at", spaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Occupant
	for rows.Next() {
		o, err := scanOccupant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *occupantRepo) ListSpaceIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT space_id FROM occupants WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUUIDs(rows)
}

func (r *occupantRepo) ListBuildingIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
        SELECT DISTINCT s.building_id
        FROM occupants o
        JOIN spaces s ON s.id = o.space_id
        WHERE o.user_id=$1
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUUIDs(rows)
}

func collectUUIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *occupantRepo) Update(ctx context.Context, o *models.Occupant) error {
	_, err := r.update(ctx, o, false, 0)
	return err
}

func (r *occupantRepo) UpdateIfVersion(ctx context.Context, o *models.Occupant, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, o, true, expected)
}

func (r *occupantRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Occupant) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *occupantRepo) update(ctx context.Context, o *models.Occupant, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
        UPDATE occupants SET
            occupant_type=$1, name=$2, email=$3, phone=$4, updated_at=NOW()
    `
	args := []interface{}{o.OccupantType, o.Name, o.Email, o.Phone}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$5 AND row_version=$6`
		args = append(args, o.ID, expected)
	} else {
		sql += ` WHERE id=$5`
		args = append(args, o.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *occupantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM occupants WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *occupantRepo) RotateClaimToken(ctx context.Context, occupantID uuid.UUID, newToken string, name, email *string) (*models.Occupant, error) {
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

	row := tx.QueryRow(ctx, baseSelectOccupant()+" WHERE id=$1 FOR UPDATE", occupantID)
	o, err := scanOccupant(row)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, pgx.ErrNoRows
	}
	if o.Claimed() {
		err = utils.ErrTokenAlreadyUsed
		return nil, err
	}

	if name != nil {
		o.Name = *name
	}
	if email != nil {
		o.Email = *email
	}

	_, err = tx.Exec(ctx, `
        UPDATE occupants
        SET claim_token=$1, name=$2, email=$3, invite_sent_at=NOW(),
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$4
    `, newToken, o.Name, o.Email, occupantID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectOccupant()+" WHERE id=$1", occupantID)
	var out *models.Occupant
	out, err = scanOccupant(newRow)
	return out, err
}

func (r *occupantRepo) ClaimAtomic(ctx context.Context, token string, newUser *models.User) (*models.Occupant, error) {
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

	row := tx.QueryRow(ctx, baseSelectOccupant()+" WHERE claim_token=$1 FOR UPDATE", token)
	o, err := scanOccupant(row)
	if err != nil {
		return nil, err
	}
	if o == nil {
		err = utils.ErrTokenNotFound
		return nil, err
	}
	if o.Claimed() {
		err = utils.ErrTokenAlreadyUsed
		return nil, err
	}

	// Resident users belong to the company owning the building of the claimed
	// space; identity fields come from the locked occupant row.
	var companyID uuid.UUID
	err = tx.QueryRow(ctx, `
        SELECT b.company_id
        FROM spaces s
        JOIN buildings b ON b.id = s.building_id
        WHERE s.id=$1
    `, o.SpaceID).Scan(&companyID)
	if err != nil {
		return nil, err
	}
	newUser.Email = o.Email
	newUser.FullName = o.Name
	newUser.Role = models.RoleResident
	newUser.CompanyID = &companyID
	if newUser.Phone == nil {
		newUser.Phone = o.Phone
	}

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

	now := time.Now().UTC()
	_, err = tx.Exec(ctx, `
        UPDATE occupants
        SET user_id=$1, claimed_at=$2, row_version=row_version+1, updated_at=NOW()
        WHERE id=$3
    `, newUser.ID, now, o.ID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectOccupant()+" WHERE id=$1", o.ID)
	var out *models.Occupant
	out, err = scanOccupant(newRow)
	return out, err
}

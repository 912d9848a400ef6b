package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.User, error)
	Update(ctx context.Context, u *models.User) error
	UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepo struct {
	*BaseVersionedRepo[*models.User]
	db DB
}

func NewUserRepository(db DB) UserRepository {
	r := &userRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectUser()+" WHERE id=$1", scanUser)
	return r
}

func baseSelectUser() string {
	return `
        SELECT
            id, email, full_name, phone, role, company_id, password_hash,
            created_at, updated_at, row_version
        FROM users
    `
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.Phone,
		&u.Role,
		&u.CompanyID,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (
            id, email, full_name, phone, role, company_id, password_hash,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW(),1)
    `, u.ID, u.Email, u.FullName, u.Phone, u.Role, u.CompanyID, u.PasswordHash)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE LOWER(email)=LOWER($1)", email)
	return scanUser(row)
}

func (r *userRepo) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, baseSelectUser()+" WHERE company_id=$1 ORDER BY created_at", companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	_, err := r.update(ctx, u, false, 0)
	return err
}

func (r *userRepo) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, u, true, expected)
}

func (r *userRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *userRepo) update(ctx context.Context, u *models.User, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
        UPDATE users SET
            email=$1, full_name=$2, phone=$3, role=$4, password_hash=$5, updated_at=NOW()
    `
	args := []interface{}{u.Email, u.FullName, u.Phone, u.Role, u.PasswordHash}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$6 AND row_version=$7`
		args = append(args, u.ID, expected)
	} else {
		sql += ` WHERE id=$6`
		args = append(args, u.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

type CompanyRepository interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetBySlug(ctx context.Context, slug string) (*models.Company, error)
	ListAll(ctx context.Context) ([]*models.Company, error)
	Update(ctx context.Context, c *models.Company) error
	UpdateIfVersion(ctx context.Context, c *models.Company, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Company) error) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasBuildings(ctx context.Context, id uuid.UUID) (bool, error)
}

type companyRepo struct {
	*BaseVersionedRepo[*models.Company]
	db DB
}

func NewCompanyRepository(db DB) CompanyRepository {
	r := &companyRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectCompany()+" WHERE id=$1", scanCompany)
	return r
}

func baseSelectCompany() string {
	return `
        SELECT id, name, slug, settings, created_at, updated_at, row_version
        FROM companies
    `
}

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	var settings []byte
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&settings,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &c.Settings); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (r *companyRepo) Create(ctx context.Context, c *models.Company) error {
	settings, err := json.Marshal(c.Settings)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO companies (id, name, slug, settings, created_at, updated_at, row_version)
        VALUES ($1,$2,$3,$4,NOW(),NOW(),1)
    `, c.ID, c.Name, c.Slug, settings)
	return err
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *companyRepo) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	row := r.db.QueryRow(ctx, baseSelectCompany()+" WHERE slug=$1", slug)
	return scanCompany(row)
}

func (r *companyRepo) ListAll(ctx context.Context) ([]*models.Company, error) {
	rows, err := r.db.Query(ctx, baseSelectCompany()+" ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *companyRepo) Update(ctx context.Context, c *models.Company) error {
	_, err := r.update(ctx, c, false, 0)
	return err
}

func (r *companyRepo) UpdateIfVersion(ctx context.Context, c *models.Company, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, c, true, expected)
}

func (r *companyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Company) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *companyRepo) update(ctx context.Context, c *models.Company, check bool, expected int64) (pgconn.CommandTag, error) {
	settings, err := json.Marshal(c.Settings)
	if err != nil {
		return nil, err
	}
	sql := `UPDATE companies SET name=$1, slug=$2, settings=$3, updated_at=NOW()`
	args := []interface{}{c.Name, c.Slug, settings}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$4 AND row_version=$5`
		args = append(args, c.ID, expected)
	} else {
		sql += ` WHERE id=$4`
		args = append(args, c.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *companyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *companyRepo) HasBuildings(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM buildings WHERE company_id=$1)`, id,
	).Scan(&exists)
	return exists, err
}

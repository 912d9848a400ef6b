package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

type BuildingRepository interface {
	Create(ctx context.Context, b *models.Building) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error)
	ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.Building, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Building, error)
	Update(ctx context.Context, b *models.Building) error
	UpdateIfVersion(ctx context.Context, b *models.Building, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Building) error) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasSpaces(ctx context.Context, id uuid.UUID) (bool, error)
	HasTickets(ctx context.Context, id uuid.UUID) (bool, error)
}

type buildingRepo struct {
	*BaseVersionedRepo[*models.Building]
	db DB
}

func NewBuildingRepository(db DB) BuildingRepository {
	r := &buildingRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectBuilding()+" WHERE id=$1", scanBuilding)
	return r
}

func baseSelectBuilding() string {
	return `
        SELECT
            id, company_id, name, address, city, state, zip_code,
            gate_code, shutoff_locations, onsite_contact,
            created_at, updated_at, row_version
        FROM buildings
    `
}

func scanBuilding(row pgx.Row) (*models.Building, error) {
	var b models.Building
	err := row.Scan(
		&b.ID,
		&b.CompanyID,
		&b.Name,
		&b.Address,
		&b.City,
		&b.State,
		&b.ZipCode,
		&b.GateCode,
		&b.ShutoffLocations,
		&b.OnsiteContact,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *buildingRepo) Create(ctx context.Context, b *models.Building) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO buildings (
            id, company_id, name, address, city, state, zip_code,
            gate_code, shutoff_locations, onsite_contact,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW(),1)
    `,
		b.ID, b.CompanyID, b.Name, b.Address, b.City, b.State, b.ZipCode,
		b.GateCode, b.ShutoffLocations, b.OnsiteContact,
	)
	return err
}

func (r *buildingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *buildingRepo) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.Building, error) {
	rows, err := r.db.Query(ctx, baseSelectBuilding()+" WHERE company_id=$1 ORDER BY created_at", companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBuildings(rows)
}

func (r *buildingRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Building, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, baseSelectBuilding()+" WHERE id = ANY($1) ORDER BY created_at", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBuildings(rows)
}

func collectBuildings(rows pgx.Rows) ([]*models.Building, error) {
	var out []*models.Building
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *buildingRepo) Update(ctx context.Context, b *models.Building) error {
	_, err := r.update(ctx, b, false, 0)
	return err
}

func (r *buildingRepo) UpdateIfVersion(ctx context.Context, b *models.Building, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, b, true, expected)
}

func (r *buildingRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Building) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *buildingRepo) update(ctx context.Context, b *models.Building, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
        UPDATE buildings SET
            name=$1, address=$2, city=$3, state=$4, zip_code=$5,
            gate_code=$6, shutoff_locations=$7, onsite_contact=$8, updated_at=NOW()
    `
	args := []interface{}{
		b.Name, b.Address, b.City, b.State, b.ZipCode,
		b.GateCode, b.ShutoffLocations, b.OnsiteContact,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$9 AND row_version=$10`
		args = append(args, b.ID, expected)
	} else {
		sql += ` WHERE id=$9`
		args = append(args, b.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *buildingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM buildings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *buildingRepo) HasSpaces(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM spaces WHERE building_id=$1)`, id,
	).Scan(&exists)
	return exists, err
}

func (r *buildingRepo) HasTickets(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tickets WHERE building_id=$1)`, id,
	).Scan(&exists)
	return exists, err
}

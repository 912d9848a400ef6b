package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

type EntitlementRepository interface {
	Create(ctx context.Context, e *models.BuildingEntitlement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BuildingEntitlement, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.BuildingEntitlement, error)
	ListBuildingIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.BuildingEntitlement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type entitlementRepo struct {
	db DB
}

func NewEntitlementRepository(db DB) EntitlementRepository {
	return &entitlementRepo{db: db}
}

func baseSelectEntitlement() string {
	return `
        SELECT id, user_id, building_id, created_at
        FROM building_entitlements
    `
}

func scanEntitlement(row pgx.Row) (*models.BuildingEntitlement, error) {
	var e models.BuildingEntitlement
	err := row.Scan(&e.ID, &e.UserID, &e.BuildingID, &e.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *entitlementRepo) Create(ctx context.Context, e *models.BuildingEntitlement) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO building_entitlements (id, user_id, building_id, created_at)
        VALUES ($1,$2,$3,NOW())
    `, e.ID, e.UserID, e.BuildingID)
	return err
}

func (r *entitlementRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BuildingEntitlement, error) {
	row := r.db.QueryRow(ctx, baseSelectEntitlement()+" WHERE id=$1", id)
	return scanEntitlement(row)
}

func (r *entitlementRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.BuildingEntitlement, error) {
	rows, err := r.db.Query(ctx, baseSelectEntitlement()+" WHERE user_id=$1 ORDER BY created_at", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntitlements(rows)
}

func (r *entitlementRepo) ListBuildingIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT building_id FROM building_entitlements WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUUIDs(rows)
}

func (r *entitlementRepo) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.BuildingEntitlement, error) {
	rows, err := r.db.Query(ctx, `
        SELECT e.id, e.user_id, e.building_id, e.created_at
        FROM building_entitlements e
        JOIN buildings b ON b.id = e.building_id
        WHERE b.company_id=$1
        ORDER BY e.created_at
    `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntitlements(rows)
}

func collectEntitlements(rows pgx.Rows) ([]*models.BuildingEntitlement, error) {
	var out []*models.BuildingEntitlement
	for rows.Next() {
		e, err := scanEntitlement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete is idempotent: removing an absent entitlement is not an error.
func (r *entitlementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM building_entitlements WHERE id=$1`, id)
	return err
}

package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

type SpaceRepository interface {
	Create(ctx context.Context, s *models.Space) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Space, error)
	ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Space, error)
	Update(ctx context.Context, s *models.Space) error
	UpdateIfVersion(ctx context.Context, s *models.Space, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Space) error) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasTickets(ctx context.Context, id uuid.UUID) (bool, error)
	UnitNumberExists(ctx context.Context, buildingID uuid.UUID, unitNumber string, excludeID uuid.UUID) (bool, error)
}

type spaceRepo struct {
	*BaseVersionedRepo[*models.Space]
	db DB
}

func NewSpaceRepository(db DB) SpaceRepository {
	r := &spaceRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectSpace()+" WHERE id=$1", scanSpace)
	return r
}

func baseSelectSpace() string {
	return `
        SELECT
            id, building_id, space_type, unit_number, common_area_type,
            created_at, updated_at, row_version
        FROM spaces
    `
}

func scanSpace(row pgx.Row) (*models.Space, error) {
	var s models.Space
	err := row.Scan(
		&s.ID,
		&s.BuildingID,
		&s.SpaceType,
		&s.UnitNumber,
		&s.CommonAreaType,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *spaceRepo) Create(ctx context.Context, s *models.Space) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO spaces (
            id, building_id, space_type, unit_number, common_area_type,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,NOW(),NOW(),1)
    `, s.ID, s.BuildingID, s.SpaceType, s.UnitNumber, s.CommonAreaType)
	return err
}

func (r *spaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Space, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *spaceRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Space, error) {
	rows, err := r.db.Query(ctx, baseSelectSpace()+" WHERE building_id=$1 ORDER BY created_at", buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Space
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *spaceRepo) Update(ctx context.Context, s *models.Space) error {
	_, err := r.update(ctx, s, false, 0)
	return err
}

func (r *spaceRepo) UpdateIfVersion(ctx context.Context, s *models.Space, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, s, true, expected)
}

func (r *spaceRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Space) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *spaceRepo) update(ctx context.Context, s *models.Space, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
        UPDATE spaces SET
            space_type=$1, unit_number=$2, common_area_type=$3, updated_at=NOW()
    `
	args := []interface{}{s.SpaceType, s.UnitNumber, s.CommonAreaType}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$4 AND row_version=$5`
		args = append(args, s.ID, expected)
	} else {
		sql += ` WHERE id=$4`
		args = append(args, s.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func (r *spaceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM spaces WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *spaceRepo) HasTickets(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tickets WHERE space_id=$1)`, id,
	).Scan(&exists)
	return exists, err
}

// UnitNumberExists checks case-insensitive uniqueness of a unit number within
// one building. Pass uuid.Nil for excludeID on create.
func (r *spaceRepo) UnitNumberExists(ctx context.Context, buildingID uuid.UUID, unitNumber string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM spaces
            WHERE building_id=$1
              AND space_type='unit'
              AND LOWER(unit_number)=LOWER($2)
              AND id<>$3
        )
    `, buildingID, unitNumber, excludeID).Scan(&exists)
	return exists, err
}

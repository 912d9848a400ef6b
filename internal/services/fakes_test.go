package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	tfrequire "github.com/stretchr/testify/require"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

func appErrCode(t *testing.T, err error) (*utils.AppError, string) {
	t.Helper()
	var appErr *utils.AppError
	tfrequire.ErrorAs(t, err, &appErr)
	return appErr, appErr.Code
}

// stubTicketRepo keeps tickets in memory and answers List with the same
// filter semantics as the SQL repository, including the empty-scope
// short-circuit.
type stubTicketRepo struct {
	tickets   []*models.Ticket
	companyOf map[uuid.UUID]uuid.UUID // building id -> company id
}

func (f *stubTicketRepo) CreateWithLog(ctx context.Context, t *models.Ticket) error {
	return errors.New("not implemented")
}

func (f *stubTicketRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	for _, t := range f.tickets {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *stubTicketRepo) List(ctx context.Context, filter repositories.TicketFilter) ([]*models.Ticket, error) {
	if filter.ScopeToBuildings && len(filter.BuildingIDs) == 0 {
		return []*models.Ticket{}, nil
	}
	inScope := func(buildingID uuid.UUID) bool {
		for _, id := range filter.BuildingIDs {
			if id == buildingID {
				return true
			}
		}
		return false
	}
	var out []*models.Ticket
	for _, t := range f.tickets {
		if filter.CompanyID != nil && f.companyOf[t.BuildingID] != *filter.CompanyID {
			continue
		}
		if filter.ScopeToBuildings && !inScope(t.BuildingID) {
			continue
		}
		if filter.CreatedByUserID != nil && t.CreatedByUserID != *filter.CreatedByUserID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *stubTicketRepo) Update(ctx context.Context, t *models.Ticket) error {
	return errors.New("not implemented")
}

func (f *stubTicketRepo) UpdateIfVersion(ctx context.Context, t *models.Ticket, expected int64) (pgconn.CommandTag, error) {
	return nil, errors.New("not implemented")
}

func (f *stubTicketRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Ticket) error) error {
	return errors.New("not implemented")
}

func (f *stubTicketRepo) TransitionStatusAtomic(
	ctx context.Context,
	ticketID uuid.UUID,
	expectedVersion int64,
	newStatus models.TicketStatus,
	changedBy uuid.UUID,
	notes *string,
) (*models.Ticket, *models.TicketStatusLog, error) {
	return nil, nil, errors.New("not implemented")
}

type stubStatusLogRepo struct{}

func (f *stubStatusLogRepo) ListByTicketID(ctx context.Context, ticketID uuid.UUID) ([]*models.TicketStatusLog, error) {
	return nil, nil
}

type stubBuildingRepo struct {
	buildings map[uuid.UUID]*models.Building
}

func newStubBuildingRepo(buildings ...*models.Building) *stubBuildingRepo {
	f := &stubBuildingRepo{buildings: make(map[uuid.UUID]*models.Building)}
	for _, b := range buildings {
		f.buildings[b.ID] = b
	}
	return f
}

func (f *stubBuildingRepo) Create(ctx context.Context, b *models.Building) error {
	return errors.New("not implemented")
}

func (f *stubBuildingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	b, ok := f.buildings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *stubBuildingRepo) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.Building, error) {
	return nil, errors.New("not implemented")
}

func (f *stubBuildingRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Building, error) {
	return nil, errors.New("not implemented")
}

func (f *stubBuildingRepo) Update(ctx context.Context, b *models.Building) error {
	return errors.New("not implemented")
}

func (f *stubBuildingRepo) UpdateIfVersion(ctx context.Context, b *models.Building, expected int64) (pgconn.CommandTag, error) {
	return nil, errors.New("not implemented")
}

func (f *stubBuildingRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Building) error) error {
	return errors.New("not implemented")
}

func (f *stubBuildingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return errors.New("not implemented")
}

func (f *stubBuildingRepo) HasSpaces(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, errors.New("not implemented")
}

func (f *stubBuildingRepo) HasTickets(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, errors.New("not implemented")
}

type stubUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newStubUserRepo(users ...*models.User) *stubUserRepo {
	f := &stubUserRepo{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *stubUserRepo) Create(ctx context.Context, u *models.User) error {
	return errors.New("not implemented")
}

func (f *stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (f *stubUserRepo) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.User, error) {
	return nil, errors.New("not implemented")
}

func (f *stubUserRepo) Update(ctx context.Context, u *models.User) error {
	return errors.New("not implemented")
}

func (f *stubUserRepo) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	return nil, errors.New("not implemented")
}

func (f *stubUserRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return errors.New("not implemented")
}

func (f *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return errors.New("not implemented")
}

type stubEntitlementRepo struct {
	granted []*models.BuildingEntitlement
}

func (f *stubEntitlementRepo) Create(ctx context.Context, e *models.BuildingEntitlement) error {
	f.granted = append(f.granted, e)
	return nil
}

func (f *stubEntitlementRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BuildingEntitlement, error) {
	for _, e := range f.granted {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *stubEntitlementRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.BuildingEntitlement, error) {
	return nil, errors.New("not implemented")
}

func (f *stubEntitlementRepo) ListBuildingIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, e := range f.granted {
		if e.UserID == userID {
			out = append(out, e.BuildingID)
		}
	}
	return out, nil
}

func (f *stubEntitlementRepo) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.BuildingEntitlement, error) {
	return nil, errors.New("not implemented")
}

func (f *stubEntitlementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return errors.New("not implemented")
}

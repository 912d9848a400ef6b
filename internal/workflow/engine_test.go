package workflow

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/marcobasurco/Plumbtix-sub001/internal/authz"
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type fakeTicketRepo struct {
	tickets map[uuid.UUID]*models.Ticket
	logs    []*models.TicketStatusLog

	// conflictsLeft makes TransitionStatusAtomic lose the version race that
	// many times, running conflictMutate to imitate the concurrent writer.
	conflictsLeft  int
	conflictMutate func(*models.Ticket)
}

func newFakeTicketRepo(tickets ...*models.Ticket) *fakeTicketRepo {
	f := &fakeTicketRepo{tickets: make(map[uuid.UUID]*models.Ticket)}
	for _, t := range tickets {
		f.tickets[t.ID] = t
	}
	return f
}

func (f *fakeTicketRepo) CreateWithLog(ctx context.Context, t *models.Ticket) error {
	return errors.New("not implemented")
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTicketRepo) List(ctx context.Context, filter repositories.TicketFilter) ([]*models.Ticket, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTicketRepo) Update(ctx context.Context, t *models.Ticket) error {
	return errors.New("not implemented")
}

func (f *fakeTicketRepo) UpdateIfVersion(ctx context.Context, t *models.Ticket, expected int64) (pgconn.CommandTag, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTicketRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Ticket) error) error {
	return errors.New("not implemented")
}

func (f *fakeTicketRepo) TransitionStatusAtomic(
	ctx context.Context,
	ticketID uuid.UUID,
	expectedVersion int64,
	newStatus models.TicketStatus,
	changedBy uuid.UUID,
	notes *string,
) (*models.Ticket, *models.TicketStatusLog, error) {
	t, ok := f.tickets[ticketID]
	if !ok {
		return nil, nil, utils.ErrRowVersionConflict
	}
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		if f.conflictMutate != nil {
			f.conflictMutate(t)
		}
		t.RowVersion++
		return nil, nil, utils.ErrRowVersionConflict
	}
	if t.RowVersion != expectedVersion {
		return nil, nil, utils.ErrRowVersionConflict
	}

	old := t.Status
	t.Status = newStatus
	t.RowVersion++
	if newStatus == models.StatusCompleted {
		now := time.Now().UTC()
		t.CompletedAt = &now
	}
	logEntry := &models.TicketStatusLog{
		ID:              uuid.New(),
		TicketID:        t.ID,
		OldStatus:       &old,
		NewStatus:       newStatus,
		ChangedByUserID: &changedBy,
		Notes:           notes,
		CreatedAt:       time.Now().UTC(),
	}
	f.logs = append(f.logs, logEntry)

	cp := *t
	return &cp, logEntry, nil
}

type fakeBuildingRepo struct {
	buildings map[uuid.UUID]*models.Building
}

func newFakeBuildingRepo(buildings ...*models.Building) *fakeBuildingRepo {
	f := &fakeBuildingRepo{buildings: make(map[uuid.UUID]*models.Building)}
	for _, b := range buildings {
		f.buildings[b.ID] = b
	}
	return f
}

func (f *fakeBuildingRepo) Create(ctx context.Context, b *models.Building) error {
	return errors.New("not implemented")
}

func (f *fakeBuildingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	b, ok := f.buildings[id]
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (f *fakeBuildingRepo) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.Building, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBuildingRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Building, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBuildingRepo) Update(ctx context.Context, b *models.Building) error {
	return errors.New("not implemented")
}

func (f *fakeBuildingRepo) UpdateIfVersion(ctx context.Context, b *models.Building, expected int64) (pgconn.CommandTag, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBuildingRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Building) error) error {
	return errors.New("not implemented")
}

func (f *fakeBuildingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return errors.New("not implemented")
}

func (f *fakeBuildingRepo) HasSpaces(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeBuildingRepo) HasTickets(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func engineFixture(status models.TicketStatus) (*Engine, *fakeTicketRepo, *models.Ticket, *models.Building) {
	building := &models.Building{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Name:      "Harborview Lofts",
	}
	ticket := &models.Ticket{
		ID:              uuid.New(),
		TicketNumber:    1042,
		BuildingID:      building.ID,
		SpaceID:         uuid.New(),
		CreatedByUserID: uuid.New(),
		IssueType:       "leak",
		Severity:        models.SeverityUrgent,
		Status:          status,
		Description:     "water under the kitchen sink",
	}
	ticket.RowVersion = 1

	tickets := newFakeTicketRepo(ticket)
	return NewEngine(tickets, newFakeBuildingRepo(building)), tickets, ticket, building
}

func adminFor(b *models.Building) authz.CallerContext {
	return authz.CallerContext{UserID: uuid.New(), Role: models.RoleCompanyAdmin, CompanyID: &b.CompanyID}
}

func appErrCode(t *testing.T, err error) (*utils.AppError, string) {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr, appErr.Code
}

func TestApplyTransitionHappyPath(t *testing.T) {
	engine, tickets, ticket, building := engineFixture(models.StatusNew)
	actor := adminFor(building)
	notes := "plumber booked for thursday"

	updated, logEntry, err := engine.ApplyTransition(context.Background(), actor, ticket.ID, models.StatusScheduled, &notes)
	require.NoError(t, err)

	require.Equal(t, models.StatusScheduled, updated.Status)
	require.Equal(t, int64(2), updated.RowVersion)

	require.NotNil(t, logEntry.OldStatus)
	require.Equal(t, models.StatusNew, *logEntry.OldStatus)
	require.Equal(t, models.StatusScheduled, logEntry.NewStatus)
	require.Equal(t, &actor.UserID, logEntry.ChangedByUserID)
	require.Equal(t, &notes, logEntry.Notes)

	require.Len(t, tickets.logs, 1, "exactly one log row per accepted transition")
}

func TestApplyTransitionStampsCompletedAt(t *testing.T) {
	engine, _, ticket, building := engineFixture(models.StatusInProgress)

	updated, _, err := engine.ApplyTransition(context.Background(), adminFor(building), ticket.ID, models.StatusCompleted, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
}

func TestApplyTransitionUnknownStatus(t *testing.T) {
	engine, _, ticket, building := engineFixture(models.StatusNew)

	_, _, err := engine.ApplyTransition(context.Background(), adminFor(building), ticket.ID, "open", nil)
	appErr, code := appErrCode(t, err)
	require.Equal(t, utils.ErrCodeValidation, code)
	require.Equal(t, http.StatusBadRequest, appErr.StatusCode)
}

func TestApplyTransitionTicketNotFound(t *testing.T) {
	engine, _, _, building := engineFixture(models.StatusNew)

	_, _, err := engine.ApplyTransition(context.Background(), adminFor(building), uuid.New(), models.StatusScheduled, nil)
	_, code := appErrCode(t, err)
	require.Equal(t, utils.ErrCodeNotFound, code)
}

func TestApplyTransitionIllegalMove(t *testing.T) {
	engine, tickets, ticket, building := engineFixture(models.StatusNew)

	_, _, err := engine.ApplyTransition(context.Background(), adminFor(building), ticket.ID, models.StatusInvoiced, nil)
	appErr, code := appErrCode(t, err)
	require.Equal(t, utils.ErrCodeIllegalTransition, code)
	require.Equal(t, http.StatusConflict, appErr.StatusCode)
	require.Empty(t, tickets.logs, "rejected transitions must not log")
}

func TestApplyTransitionInvoicingIsPlatformOnly(t *testing.T) {
	engine, _, ticket, building := engineFixture(models.StatusCompleted)

	staff := authz.CallerContext{
		UserID:              uuid.New(),
		Role:                models.RoleCompanyStaff,
		CompanyID:           &building.CompanyID,
		EntitledBuildingIDs: []uuid.UUID{building.ID},
	}
	_, _, err := engine.ApplyTransition(context.Background(), staff, ticket.ID, models.StatusInvoiced, nil)
	_, code := appErrCode(t, err)
	require.Equal(t, utils.ErrCodeIllegalTransition, code)

	// completed is terminal for company_admin too.
	_, _, err = engine.ApplyTransition(context.Background(), adminFor(building), ticket.ID, models.StatusInvoiced, nil)
	_, code = appErrCode(t, err)
	require.Equal(t, utils.ErrCodeIllegalTransition, code)

	platform := authz.CallerContext{UserID: uuid.New(), Role: models.RolePlatformAdmin}
	updated, _, err := engine.ApplyTransition(context.Background(), platform, ticket.ID, models.StatusInvoiced, nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusInvoiced, updated.Status)
}

func TestApplyTransitionResidentForbidden(t *testing.T) {
	engine, _, ticket, _ := engineFixture(models.StatusNew)

	// The creator can read the ticket, so the denial is a visible 403.
	creator := authz.CallerContext{UserID: ticket.CreatedByUserID, Role: models.RoleResident, ResidentSpaceIDs: []uuid.UUID{ticket.SpaceID}}
	_, _, err := engine.ApplyTransition(context.Background(), creator, ticket.ID, models.StatusScheduled, nil)
	appErr, code := appErrCode(t, err)
	require.Equal(t, utils.ErrCodeForbidden, code)
	require.Equal(t, http.StatusForbidden, appErr.StatusCode)

	// A resident with no visibility gets a 404 instead.
	stranger := authz.CallerContext{UserID: uuid.New(), Role: models.RoleResident}
	_, _, err = engine.ApplyTransition(context.Background(), stranger, ticket.ID, models.StatusScheduled, nil)
	_, code = appErrCode(t, err)
	require.Equal(t, utils.ErrCodeNotFound, code)
}

func TestApplyTransitionRetriesVersionRace(t *testing.T) {
	engine, tickets, ticket, building := engineFixture(models.StatusNew)
	tickets.conflictsLeft = 1 // one concurrent bump, state still allows the move

	updated, _, err := engine.ApplyTransition(context.Background(), adminFor(building), ticket.ID, models.StatusScheduled, nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusScheduled, updated.Status)
	require.Len(t, tickets.logs, 1)
}

func TestApplyTransitionReevaluatesAfterRace(t *testing.T) {
	engine, tickets, ticket, building := engineFixture(models.StatusNew)
	// The concurrent writer cancels the ticket; the retried move new→scheduled
	// is no longer legal from cancelled.
	tickets.conflictsLeft = 1
	tickets.conflictMutate = func(tk *models.Ticket) { tk.Status = models.StatusCancelled }

	_, _, err := engine.ApplyTransition(context.Background(), adminFor(building), ticket.ID, models.StatusScheduled, nil)
	_, code := appErrCode(t, err)
	require.Equal(t, utils.ErrCodeIllegalTransition, code)
	require.Empty(t, tickets.logs)
}

func TestApplyTransitionGivesUpAfterRepeatedRaces(t *testing.T) {
	engine, tickets, ticket, building := engineFixture(models.StatusNew)
	tickets.conflictsLeft = maxTransitionRetries + 1

	_, _, err := engine.ApplyTransition(context.Background(), adminFor(building), ticket.ID, models.StatusScheduled, nil)
	appErr, code := appErrCode(t, err)
	require.Equal(t, utils.ErrCodeRowVersionConflict, code)
	require.Equal(t, http.StatusConflict, appErr.StatusCode)
}

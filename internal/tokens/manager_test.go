package tokens

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"

	"github.com/marcobasurco/Plumbtix-sub001/internal/authz"
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

/* ------------------------------------------------------------------
   In-memory fakes sharing the same state bag
------------------------------------------------------------------ */

type fakeStore struct {
	invitations map[uuid.UUID]*models.Invitation
	occupants   map[uuid.UUID]*models.Occupant
	users       map[uuid.UUID]*models.User
	spaces      map[uuid.UUID]*models.Space
	buildings   map[uuid.UUID]*models.Building

	now time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		invitations: make(map[uuid.UUID]*models.Invitation),
		occupants:   make(map[uuid.UUID]*models.Occupant),
		users:       make(map[uuid.UUID]*models.User),
		spaces:      make(map[uuid.UUID]*models.Space),
		buildings:   make(map[uuid.UUID]*models.Building),
		now:         time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

var errNotImplemented = errors.New("not implemented in fake")

type fakeInvitationRepo struct{ s *fakeStore }

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *models.Invitation) error {
	for _, other := range f.s.invitations {
		if other.Email == inv.Email && !other.Accepted() {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	cp := *inv
	f.s.invitations[inv.ID] = &cp
	return nil
}

func (f *fakeInvitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	inv, ok := f.s.invitations[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	for _, inv := range f.s.invitations {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitationRepo) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.Invitation, error) {
	return nil, errNotImplemented
}

func (f *fakeInvitationRepo) PendingEmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	for _, inv := range f.s.invitations {
		if inv.ID != excludeID && !inv.Accepted() && utils.NormalizeEmail(inv.Email) == utils.NormalizeEmail(email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvitationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.s.invitations[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.s.invitations, id)
	return nil
}

func (f *fakeInvitationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for id, inv := range f.s.invitations {
		if !inv.Accepted() && inv.Expired(now) {
			delete(f.s.invitations, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeInvitationRepo) RotateToken(ctx context.Context, invitationID uuid.UUID, newToken string, name, email *string, expiresAt time.Time) (*models.Invitation, error) {
	inv, ok := f.s.invitations[invitationID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if inv.Accepted() {
		return nil, utils.ErrTokenAlreadyUsed
	}
	if name != nil {
		inv.Name = *name
	}
	if email != nil {
		inv.Email = *email
	}
	inv.Token = newToken
	inv.ExpiresAt = expiresAt
	inv.RowVersion++
	cp := *inv
	return &cp, nil
}

func (f *fakeInvitationRepo) AcceptAtomic(ctx context.Context, token string, newUser *models.User, now time.Time) (*models.Invitation, error) {
	var inv *models.Invitation
	for _, candidate := range f.s.invitations {
		if candidate.Token == token {
			inv = candidate
			break
		}
	}
	if inv == nil {
		return nil, utils.ErrTokenNotFound
	}
	if inv.Accepted() {
		return nil, utils.ErrTokenAlreadyUsed
	}
	if inv.Expired(now) {
		return nil, utils.ErrTokenExpired
	}

	newUser.Email = inv.Email
	newUser.FullName = inv.Name
	newUser.Role = inv.Role
	newUser.CompanyID = &inv.CompanyID
	cp := *newUser
	f.s.users[newUser.ID] = &cp

	accepted := now
	inv.AcceptedAt = &accepted
	inv.RowVersion++
	out := *inv
	return &out, nil
}

type fakeOccupantRepo struct{ s *fakeStore }

func (f *fakeOccupantRepo) Create(ctx context.Context, o *models.Occupant) error {
	cp := *o
	f.s.occupants[o.ID] = &cp
	return nil
}

func (f *fakeOccupantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Occupant, error) {
	o, ok := f.s.occupants[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOccupantRepo) GetByClaimToken(ctx context.Context, token string) (*models.Occupant, error) {
	for _, o := range f.s.occupants {
		if o.ClaimToken != nil && *o.ClaimToken == token {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOccupantRepo) ListBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*models.Occupant, error) {
	return nil, errNotImplemented
}

func (f *fakeOccupantRepo) ListSpaceIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return nil, errNotImplemented
}

func (f *fakeOccupantRepo) ListBuildingIDsByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return nil, errNotImplemented
}

func (f *fakeOccupantRepo) Update(ctx context.Context, o *models.Occupant) error {
	return errNotImplemented
}

func (f *fakeOccupantRepo) UpdateIfVersion(ctx context.Context, o *models.Occupant, expected int64) (pgconn.CommandTag, error) {
	return nil, errNotImplemented
}

func (f *fakeOccupantRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Occupant) error) error {
	return errNotImplemented
}

func (f *fakeOccupantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return errNotImplemented
}

func (f *fakeOccupantRepo) RotateClaimToken(ctx context.Context, occupantID uuid.UUID, newToken string, name, email *string) (*models.Occupant, error) {
	o, ok := f.s.occupants[occupantID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if o.Claimed() {
		return nil, utils.ErrTokenAlreadyUsed
	}
	if name != nil {
		o.Name = *name
	}
	if email != nil {
		o.Email = *email
	}
	o.ClaimToken = &newToken
	sent := f.s.now
	o.InviteSentAt = &sent
	o.RowVersion++
	cp := *o
	return &cp, nil
}

func (f *fakeOccupantRepo) ClaimAtomic(ctx context.Context, token string, newUser *models.User) (*models.Occupant, error) {
	var occ *models.Occupant
	for _, candidate := range f.s.occupants {
		if candidate.ClaimToken != nil && *candidate.ClaimToken == token {
			occ = candidate
			break
		}
	}
	if occ == nil {
		return nil, utils.ErrTokenNotFound
	}
	if occ.Claimed() {
		return nil, utils.ErrTokenAlreadyUsed
	}

	space := f.s.spaces[occ.SpaceID]
	building := f.s.buildings[space.BuildingID]

	newUser.Email = occ.Email
	newUser.FullName = occ.Name
	newUser.Role = models.RoleResident
	newUser.CompanyID = &building.CompanyID
	if newUser.Phone == nil {
		newUser.Phone = occ.Phone
	}
	cp := *newUser
	f.s.users[newUser.ID] = &cp

	claimed := f.s.now
	occ.UserID = &newUser.ID
	occ.ClaimedAt = &claimed
	occ.RowVersion++
	out := *occ
	return &out, nil
}

type fakeUserRepo struct{ s *fakeStore }

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	cp := *u
	f.s.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.s.users {
		if utils.NormalizeEmail(u.Email) == utils.NormalizeEmail(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.User, error) {
	return nil, errNotImplemented
}

func (f *fakeUserRepo) Update(ctx context.Context, u *models.User) error { return errNotImplemented }

func (f *fakeUserRepo) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	return nil, errNotImplemented
}

func (f *fakeUserRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return errNotImplemented
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return errNotImplemented }

type fakeSpaceRepo struct{ s *fakeStore }

func (f *fakeSpaceRepo) Create(ctx context.Context, sp *models.Space) error { return errNotImplemented }

func (f *fakeSpaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Space, error) {
	sp, ok := f.s.spaces[id]
	if !ok {
		return nil, nil
	}
	return sp, nil
}

func (f *fakeSpaceRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Space, error) {
	return nil, errNotImplemented
}

func (f *fakeSpaceRepo) Update(ctx context.Context, sp *models.Space) error { return errNotImplemented }

func (f *fakeSpaceRepo) UpdateIfVersion(ctx context.Context, sp *models.Space, expected int64) (pgconn.CommandTag, error) {
	return nil, errNotImplemented
}

func (f *fakeSpaceRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Space) error) error {
	return errNotImplemented
}

func (f *fakeSpaceRepo) Delete(ctx context.Context, id uuid.UUID) error { return errNotImplemented }

func (f *fakeSpaceRepo) HasTickets(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeSpaceRepo) UnitNumberExists(ctx context.Context, buildingID uuid.UUID, unitNumber string, excludeID uuid.UUID) (bool, error) {
	return false, nil
}

type fakeBuildingRepo struct{ s *fakeStore }

func (f *fakeBuildingRepo) Create(ctx context.Context, b *models.Building) error {
	return errNotImplemented
}

func (f *fakeBuildingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	b, ok := f.s.buildings[id]
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (f *fakeBuildingRepo) ListByCompanyID(ctx context.Context, companyID uuid.UUID) ([]*models.Building, error) {
	return nil, errNotImplemented
}

func (f *fakeBuildingRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Building, error) {
	return nil, errNotImplemented
}

func (f *fakeBuildingRepo) Update(ctx context.Context, b *models.Building) error {
	return errNotImplemented
}

func (f *fakeBuildingRepo) UpdateIfVersion(ctx context.Context, b *models.Building, expected int64) (pgconn.CommandTag, error) {
	return nil, errNotImplemented
}

func (f *fakeBuildingRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Building) error) error {
	return errNotImplemented
}

func (f *fakeBuildingRepo) Delete(ctx context.Context, id uuid.UUID) error { return errNotImplemented }

func (f *fakeBuildingRepo) HasSpaces(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeBuildingRepo) HasTickets(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

/* ------------------------------------------------------------------
   Fixture
------------------------------------------------------------------ */

type managerFixture struct {
	store    *fakeStore
	manager  *Manager
	company  uuid.UUID
	building *models.Building
	space    *models.Space
	admin    authz.CallerContext
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()
	store := newFakeStore()

	company := uuid.New()
	building := &models.Building{ID: uuid.New(), CompanyID: company, Name: "Harborview Lofts"}
	unit := "7C"
	space := &models.Space{ID: uuid.New(), BuildingID: building.ID, SpaceType: models.SpaceTypeUnit, UnitNumber: &unit}
	store.buildings[building.ID] = building
	store.spaces[space.ID] = space

	m := NewManager(
		&fakeInvitationRepo{s: store},
		&fakeOccupantRepo{s: store},
		&fakeUserRepo{s: store},
		&fakeSpaceRepo{s: store},
		&fakeBuildingRepo{s: store},
		DefaultInviteTTL,
	)
	m.now = func() time.Time { return store.now }

	adminID := uuid.New()
	store.users[adminID] = &models.User{ID: adminID, Email: "admin@acme-props.com", Role: models.RoleCompanyAdmin, CompanyID: &company}

	return &managerFixture{
		store:    store,
		manager:  m,
		company:  company,
		building: building,
		space:    space,
		admin:    authz.CallerContext{UserID: adminID, Role: models.RoleCompanyAdmin, CompanyID: &company},
	}
}

func (fx *managerFixture) newOccupant() *models.Occupant {
	occ := &models.Occupant{
		ID:           uuid.New(),
		SpaceID:      fx.space.ID,
		OccupantType: models.OccupantTypeTenant,
		Name:         "Dana Whitfield",
		Email:        "dana@example.com",
	}
	fx.store.occupants[occ.ID] = occ
	return occ
}

func requireAppErr(t *testing.T, err error, status int, code string) {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, status, appErr.StatusCode)
	require.Equal(t, code, appErr.Code)
}

/* ------------------------------------------------------------------
   Invitations
------------------------------------------------------------------ */

func TestIssueInvitationHappyPath(t *testing.T) {
	fx := newManagerFixture(t)
	ctx := context.Background()

	inv, err := fx.manager.IssueInvitation(ctx, fx.admin, fx.company, "Pat.Lee@Example.com", "Pat Lee", models.RoleCompanyStaff)
	require.NoError(t, err)

	require.Equal(t, "pat.lee@example.com", inv.Email, "email is normalized before storage")
	require.Len(t, inv.Token, utils.TokenLength)
	require.Equal(t, fx.store.now.Add(DefaultInviteTTL), inv.ExpiresAt)
	require.Nil(t, inv.AcceptedAt)
	require.Equal(t, fx.admin.UserID, inv.InvitedByUserID)
}

func TestIssueInvitationRoleAndScope(t *testing.T) {
	fx := newManagerFixture(t)
	ctx := context.Background()

	_, err := fx.manager.IssueInvitation(ctx, fx.admin, fx.company, "x@example.com", "X", models.RoleResident)
	requireAppErr(t, err, http.StatusBadRequest, utils.ErrCodeValidation)

	_, err = fx.manager.IssueInvitation(ctx, fx.admin, fx.company, "x@example.com", "X", models.RolePlatformAdmin)
	requireAppErr(t, err, http.StatusBadRequest, utils.ErrCodeValidation)

	// Admin of another company must not learn the target company exists.
	otherCompany := uuid.New()
	_, err = fx.manager.IssueInvitation(ctx, fx.admin, otherCompany, "x@example.com", "X", models.RoleCompanyStaff)
	requireAppErr(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
}

func TestIssueInvitationEmailCollisions(t *testing.T) {
	fx := newManagerFixture(t)
	ctx := context.Background()

	// Collides with an existing user.
	_, err := fx.manager.IssueInvitation(ctx, fx.admin, fx.company, "admin@acme-props.com", "Dup", models.RoleCompanyStaff)
	requireAppErr(t, err, http.StatusConflict, utils.ErrCodeConflict)

	// Collides with a pending invitation.
	_, err = fx.manager.IssueInvitation(ctx, fx.admin, fx.company, "pat@example.com", "Pat", models.RoleCompanyStaff)
	require.NoError(t, err)
	_, err = fx.manager.IssueInvitation(ctx, fx.admin, fx.company, "pat@example.com", "Pat Again", models.RoleCompanyStaff)
	requireAppErr(t, err, http.StatusConflict, utils.ErrCodeConflict)
}

func TestRedeemInvitationCreatesUser(t *testing.T) {
	fx := newManagerFixture(t)
	ctx := context.Background()

	inv, err := fx.manager.IssueInvitation(ctx, fx.admin, fx.company, "pat@example.com", "Pat Lee", models.RoleCompanyStaff)
	require.NoError(t, err)

	user, err := fx.manager.RedeemInvitation(ctx, inv.Token, "a long enough password")
	require.NoError(t, err)
	require.Equal(t, "pat@example.com", user.Email)
	require.Equal(t, "Pat Lee", user.FullName)
	require.Equal(t, models.RoleCompanyStaff, user.Role)
	require.Equal(t, &fx.company, user.CompanyID)
	require.True(t, utils.CheckPasswordHash("a long enough password", user.PasswordHash))

	// Single use: the second redeem is refused and no second user appears.
	before := len(fx.store.users)
	_, err = fx.manager.RedeemInvitation(ctx, inv.Token, "another password")
	requireAppErr(t, err, http.StatusConflict, utils.ErrCodeTokenAlreadyUsed)
	require.Len(t, fx.store.users, before)
}

func TestRedeemInvitationExpired(t *testing.T) {
	fx := newManagerFixture(t)
	ctx := context.Background()

	inv, err := fx.manager.IssueInvitation(ctx, fx.admin, fx.company, "pat@example.com", "Pat", models.RoleCompanyStaff)
	require.NoError(t, err)

	fx.store.now = fx.store.now.Add(DefaultInviteTTL + time.Hour)
	_, err = fx.manager.RedeemInvitation(ctx, inv.Token, "a long enough password")
	requireAppErr(t, err, http.StatusGone, utils.ErrCodeTokenExpired)
}

func TestRedeemInvitationUnknownToken(t *testing.T) {
	fx := newManagerFixture(t)

	_, err := fx.manager.RedeemInvitation(context.Background(), utils.NewBearerToken(), "a long enough password")
	requireAppErr(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
}

func TestResendInvitationSupersedesToken(t *testing.T) {
	fx := newManagerFixture(t)
	ctx := context.Background()

	inv, err := fx.manager.IssueInvitation(ctx, fx.admin, fx.company, "pat@example.com", "Pat", models.RoleCompanyStaff)
	require.NoError(t, err)
	oldToken := inv.Token

	fx.store.now = fx.store.now.Add(48 * time.Hour)
	newName := "Patricia Lee"
	rotated, err := fx.manager.ResendInvitation(ctx, fx.admin, inv.ID, &newName, nil)
	require.NoError(t, err)

	require.NotEqual(t, oldToken, rotated.Token)
	require.Equal(t, "Patricia Lee", rotated.Name)
	require.Equal(t, fx.store.now.Add(DefaultInviteTTL), rotated.ExpiresAt, "expiry extends from the resend")

	// The superseded token is dead even though it was never redeemed.
	_, err = fx.manager.RedeemInvitation(ctx, oldToken, "a long enough password")
	requireAppErr(t, err, http.StatusNotFound, utils.ErrCodeNotFound)

	_, err = fx.manager.RedeemInvitation(ctx, rotated.Token, "a long enough password")
	require.NoError(t, err)
}

func TestResendAcceptedInvitationConflicts(t *testing.T) {
	fx := newManagerFixture(t)
	ctx := context.Background()

	inv, err := fx.manager.IssueInvitation(ctx, fx.admin, fx.company, "pat@example.com", "Pat", models.RoleCompanyStaff)
	require.NoError(t, err)
	_, err = fx.manager.RedeemInvitation(ctx, inv.Token, "a long enough password")
	require.NoError(t, err)

	_, err = fx.manager.ResendInvitation(ctx, fx.admin, inv.ID, nil, nil)
	requireAppErr(t, err, http.StatusConflict, utils.ErrCodeTokenAlreadyUsed)
}

func TestRevokeInvitation(t *testing.T) {
	fx := newManagerFixture(t)
	ctx := context.Background()

	inv, err := fx.manager.IssueInvitation(ctx, fx.admin, fx.company, "pat@example.com", "Pat", models.RoleCompanyStaff)
	require.NoError(t, err)

	require.NoError(t, fx.manager.RevokeInvitation(ctx, fx.admin, inv.ID))

	_, err = fx.manager.RedeemInvitation(ctx, inv.Token, "a long enough password")
	requireAppErr(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
}

func TestRevokeAcceptedInvitationConflicts(t *testing.T) {
	fx := newManagerFixture(t)
	ctx := context.Background()

	inv, err := fx.manager.IssueInvitation(ctx, fx.admin, fx.company, "pat@example.com", "Pat", models.RoleCompanyStaff)
	require.NoError(t, err)
	_, err = fx.manager.RedeemInvitation(ctx, inv.Token, "a long enough password")
	require.NoError(t, err)

	err = fx.manager.RevokeInvitation(ctx, fx.admin, inv.ID)
	requireAppErr(t, err, http.StatusConflict, utils.ErrCodeTokenAlreadyUsed)
}

/* ------------------------------------------------------------------
   Occupant account-claims
------------------------------------------------------------------ */

func TestIssueClaimGeneratesAndSupersedes(t *testing.T) {
	fx := newManagerFixture(t)
	ctx := context.Background()
	occ := fx.newOccupant()

	first, err := fx.manager.IssueClaim(ctx, fx.admin, occ.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ClaimToken)
	require.Len(t, *first.ClaimToken, utils.TokenLength)
	require.NotNil(t, first.InviteSentAt)

	// Re-issuing supersedes: only the latest token redeems.
	second, err := fx.manager.IssueClaim(ctx, fx.admin, occ.ID)
	require.NoError(t, err)
	require.NotEqual(t, *first.ClaimToken, *second.ClaimToken)

	_, _, err = fx.manager.RedeemClaim(ctx, *first.ClaimToken, "a long enough password")
	requireAppErr(t, err, http.StatusNotFound, utils.ErrCodeNotFound)

	_, _, err = fx.manager.RedeemClaim(ctx, *second.ClaimToken, "a long enough password")
	require.NoError(t, err)
}

func TestIssueClaimScope(t *testing.T) {
	fx := newManagerFixture(t)
	ctx := context.Background()
	occ := fx.newOccupant()

	otherCompany := uuid.New()
	outsider := authz.CallerContext{UserID: uuid.New(), Role: models.RoleCompanyAdmin, CompanyID: &otherCompany}
	_, err := fx.manager.IssueClaim(ctx, outsider, occ.ID)
	requireAppErr(t, err, http.StatusNotFound, utils.ErrCodeNotFound)

	_, err = fx.manager.IssueClaim(ctx, fx.admin, uuid.New())
	requireAppErr(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
}

func TestRedeemClaimBindsResidentAccount(t *testing.T) {
	fx := newManagerFixture(t)
	ctx := context.Background()
	occ := fx.newOccupant()

	issued, err := fx.manager.IssueClaim(ctx, fx.admin, occ.ID)
	require.NoError(t, err)

	user, claimed, err := fx.manager.RedeemClaim(ctx, *issued.ClaimToken, "a long enough password")
	require.NoError(t, err)

	require.Equal(t, models.RoleResident, user.Role)
	require.Equal(t, occ.Email, user.Email)
	require.Equal(t, &fx.building.CompanyID, user.CompanyID)

	require.NotNil(t, claimed.UserID)
	require.Equal(t, user.ID, *claimed.UserID)
	require.NotNil(t, claimed.ClaimedAt)

	// A claimed occupant can never claim again.
	_, err = fx.manager.IssueClaim(ctx, fx.admin, occ.ID)
	requireAppErr(t, err, http.StatusConflict, utils.ErrCodeTokenAlreadyUsed)

	_, _, err = fx.manager.RedeemClaim(ctx, *issued.ClaimToken, "another password")
	requireAppErr(t, err, http.StatusConflict, utils.ErrCodeTokenAlreadyUsed)
}

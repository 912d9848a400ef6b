// Package tokens manages the lifecycle of the two bearer-token families:
// company invitations and occupant account-claims. A token moves
// Issued → Redeemed | Expired | Superseded; redemption is single-use and
// serialized in the repository layer, and issuing a fresh token for the same
// invitation/occupant supersedes the old string immediately.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/authz"
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

// DefaultInviteTTL is how long an invitation token stays redeemable. Occupant
// claim tokens carry no hard expiry; a resend regenerates them instead.
const DefaultInviteTTL = 7 * 24 * time.Hour

type Manager struct {
	invitations repositories.InvitationRepository
	occupants   repositories.OccupantRepository
	users       repositories.UserRepository
	spaces      repositories.SpaceRepository
	buildings   repositories.BuildingRepository

	inviteTTL time.Duration
	now       func() time.Time
}

func NewManager(
	invitations repositories.InvitationRepository,
	occupants repositories.OccupantRepository,
	users repositories.UserRepository,
	spaces repositories.SpaceRepository,
	buildings repositories.BuildingRepository,
	inviteTTL time.Duration,
) *Manager {
	if inviteTTL <= 0 {
		inviteTTL = DefaultInviteTTL
	}
	return &Manager{
		invitations: invitations,
		occupants:   occupants,
		users:       users,
		spaces:      spaces,
		buildings:   buildings,
		inviteTTL:   inviteTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

/* ------------------------------------------------------------------
   Invitations
------------------------------------------------------------------ */

// IssueInvitation creates a fresh invitation token after checking that the
// actor may invite into the company and that the email is free.
func (m *Manager) IssueInvitation(
	ctx context.Context,
	actor authz.CallerContext,
	companyID uuid.UUID,
	email, name string,
	role models.Role,
) (*models.Invitation, error) {
	if role != models.RoleCompanyAdmin && role != models.RoleCompanyStaff {
		return nil, utils.ValidationError("invitation role must be company_admin or company_staff")
	}
	email = utils.NormalizeEmail(email)
	if !utils.IsValidEmail(email) {
		return nil, utils.ValidationError("invalid email address")
	}

	ref := authz.ResourceRef{Type: authz.ResourceInvitation, CompanyID: &companyID}
	if d := authz.Decide(actor, authz.ActionCreate, ref); !d.Allowed {
		if d.Conceal {
			return nil, utils.NotFoundError("company not found")
		}
		return nil, utils.ForbiddenError(d.Reason)
	}

	if err := m.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	inv := &models.Invitation{
		ID:              uuid.New(),
		CompanyID:       companyID,
		Email:           email,
		Name:            name,
		Role:            role,
		Token:           utils.NewBearerToken(),
		InvitedByUserID: actor.UserID,
		ExpiresAt:       m.now().Add(m.inviteTTL),
	}
	if err := m.invitations.Create(ctx, inv); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.ConflictError("an invitation for this email already exists")
		}
		return nil, utils.InternalError(err)
	}
	return inv, nil
}

// RedeemInvitation accepts a token and creates the invited user. The second of
// two concurrent redeems gets token_already_used; no duplicate user row is
// ever created.
func (m *Manager) RedeemInvitation(ctx context.Context, token, password string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, utils.InternalError(err)
	}

	newUser := &models.User{ID: uuid.New(), PasswordHash: hash}
	inv, err := m.invitations.AcceptAtomic(ctx, token, newUser, m.now())
	if err != nil {
		return nil, translateTokenError(err, "invitation")
	}

	user, err := m.users.GetByID(ctx, newUser.ID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if user == nil {
		return nil, utils.InternalError(fmt.Errorf("user %s missing after accepting invitation %s", newUser.ID, inv.ID))
	}
	return user, nil
}

// ResendInvitation rotates the token (superseding the old one even though it
// was never used), optionally updating the invitee's name/email, and extends
// the expiry from now.
func (m *Manager) ResendInvitation(
	ctx context.Context,
	actor authz.CallerContext,
	invitationID uuid.UUID,
	name, email *string,
) (*models.Invitation, error) {
	inv, err := m.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if inv == nil {
		return nil, utils.NotFoundError("invitation not found")
	}

	ref := authz.ResourceRef{Type: authz.ResourceInvitation, ID: inv.ID, CompanyID: &inv.CompanyID}
	if d := authz.Decide(actor, authz.ActionUpdate, ref); !d.Allowed {
		if d.Conceal {
			return nil, utils.NotFoundError("invitation not found")
		}
		return nil, utils.ForbiddenError(d.Reason)
	}

	if email != nil {
		normalized := utils.NormalizeEmail(*email)
		if !utils.IsValidEmail(normalized) {
			return nil, utils.ValidationError("invalid email address")
		}
		if err := m.ensureEmailFree(ctx, normalized, inv.ID); err != nil {
			return nil, err
		}
		email = &normalized
	}

	rotated, err := m.invitations.RotateToken(
		ctx, inv.ID, utils.NewBearerToken(), name, email, m.now().Add(m.inviteTTL),
	)
	if err != nil {
		if errors.Is(err, utils.ErrTokenAlreadyUsed) {
			return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeTokenAlreadyUsed,
				"invitation has already been accepted", err)
		}
		return nil, utils.InternalError(err)
	}
	return rotated, nil
}

// RevokeInvitation deletes an unaccepted invitation, killing its token.
func (m *Manager) RevokeInvitation(ctx context.Context, actor authz.CallerContext, invitationID uuid.UUID) error {
	inv, err := m.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return utils.InternalError(err)
	}
	if inv == nil {
		return utils.NotFoundError("invitation not found")
	}

	ref := authz.ResourceRef{Type: authz.ResourceInvitation, ID: inv.ID, CompanyID: &inv.CompanyID}
	if d := authz.Decide(actor, authz.ActionDelete, ref); !d.Allowed {
		if d.Conceal {
			return utils.NotFoundError("invitation not found")
		}
		return utils.ForbiddenError(d.Reason)
	}

	if inv.Accepted() {
		return utils.NewAppError(http.StatusConflict, utils.ErrCodeTokenAlreadyUsed,
			"invitation has already been accepted", nil)
	}
	if err := m.invitations.Delete(ctx, inv.ID); err != nil {
		return utils.InternalError(err)
	}
	return nil
}

/* ------------------------------------------------------------------
   Occupant account-claims
------------------------------------------------------------------ */

// IssueClaim generates a claim token for an unclaimed occupant, superseding
// any outstanding one. The actor must be allowed to manage the occupant.
func (m *Manager) IssueClaim(ctx context.Context, actor authz.CallerContext, occupantID uuid.UUID) (*models.Occupant, error) {
	occ, err := m.occupants.GetByID(ctx, occupantID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if occ == nil {
		return nil, utils.NotFoundError("occupant not found")
	}

	ref, err := m.occupantRef(ctx, occ)
	if err != nil {
		return nil, err
	}
	if d := authz.Decide(actor, authz.ActionUpdate, *ref); !d.Allowed {
		if d.Conceal {
			return nil, utils.NotFoundError("occupant not found")
		}
		return nil, utils.ForbiddenError(d.Reason)
	}

	rotated, err := m.occupants.RotateClaimToken(ctx, occ.ID, utils.NewBearerToken(), nil, nil)
	if err != nil {
		if errors.Is(err, utils.ErrTokenAlreadyUsed) {
			return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeTokenAlreadyUsed,
				"occupant has already claimed their account", err)
		}
		return nil, utils.InternalError(err)
	}
	return rotated, nil
}

// RedeemClaim binds a platform account to the occupant. Claim tokens have no
// hard expiry; only supersession or a completed claim kills them.
func (m *Manager) RedeemClaim(ctx context.Context, token, password string) (*models.User, *models.Occupant, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, nil, utils.InternalError(err)
	}

	newUser := &models.User{ID: uuid.New(), PasswordHash: hash}
	occ, err := m.occupants.ClaimAtomic(ctx, token, newUser)
	if err != nil {
		return nil, nil, translateTokenError(err, "claim")
	}

	user, err := m.users.GetByID(ctx, newUser.ID)
	if err != nil {
		return nil, nil, utils.InternalError(err)
	}
	if user == nil {
		return nil, nil, utils.InternalError(fmt.Errorf("user %s missing after claim by occupant %s", newUser.ID, occ.ID))
	}
	return user, occ, nil
}

/* ------------------------------------------------------------------
   Helpers
------------------------------------------------------------------ */

// ensureEmailFree rejects an email already held by a user or by another
// pending invitation.
func (m *Manager) ensureEmailFree(ctx context.Context, email string, excludeInvitation uuid.UUID) error {
	existing, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		return utils.InternalError(err)
	}
	if existing != nil {
		return utils.ConflictError("a user with this email already exists")
	}
	pending, err := m.invitations.PendingEmailExists(ctx, email, excludeInvitation)
	if err != nil {
		return utils.InternalError(err)
	}
	if pending {
		return utils.ConflictError("a pending invitation for this email already exists")
	}
	return nil
}

func (m *Manager) occupantRef(ctx context.Context, occ *models.Occupant) (*authz.ResourceRef, error) {
	space, err := m.spaces.GetByID(ctx, occ.SpaceID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if space == nil {
		return nil, utils.NotFoundError("occupant not found")
	}
	building, err := m.buildings.GetByID(ctx, space.BuildingID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if building == nil {
		return nil, utils.NotFoundError("occupant not found")
	}
	return &authz.ResourceRef{
		Type:        authz.ResourceOccupant,
		ID:          occ.ID,
		CompanyID:   &building.CompanyID,
		BuildingID:  &building.ID,
		SpaceID:     &occ.SpaceID,
		OwnerUserID: occ.UserID,
	}, nil
}

func translateTokenError(err error, family string) error {
	switch {
	case errors.Is(err, utils.ErrTokenNotFound):
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound,
			family+" token not found", err)
	case errors.Is(err, utils.ErrTokenExpired):
		return utils.NewAppError(http.StatusGone, utils.ErrCodeTokenExpired,
			family+" token has expired", err)
	case errors.Is(err, utils.ErrTokenAlreadyUsed):
		return utils.NewAppError(http.StatusConflict, utils.ErrCodeTokenAlreadyUsed,
			family+" token has already been used", err)
	}
	if repositories.IsUniqueViolation(err) {
		return utils.ConflictError("a user with this email already exists")
	}
	return utils.InternalError(err)
}

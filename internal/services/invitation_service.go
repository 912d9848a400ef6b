package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/authz"
	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/notify"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/tokens"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

// InvitationService fronts the token manager for the HTTP layer and takes
// care of sending the invitation email after the row is committed.
type InvitationService struct {
	invitations repositories.InvitationRepository
	companies   repositories.CompanyRepository
	tokens      *tokens.Manager
	dispatcher  *notify.Dispatcher
}

func NewInvitationService(
	invitations repositories.InvitationRepository,
	companies repositories.CompanyRepository,
	tokenManager *tokens.Manager,
	dispatcher *notify.Dispatcher,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		companies:   companies,
		tokens:      tokenManager,
		dispatcher:  dispatcher,
	}
}

func (s *InvitationService) CreateInvitation(ctx context.Context, actor authz.CallerContext, req dtos.CreateInvitationRequest) (*models.Invitation, error) {
	inv, err := s.tokens.IssueInvitation(ctx, actor, req.CompanyID, req.Email, req.Name, req.Role)
	if err != nil {
		return nil, err
	}
	s.dispatchInvite(ctx, inv)
	return inv, nil
}

func (s *InvitationService) ListInvitations(ctx context.Context, actor authz.CallerContext, companyID *uuid.UUID) ([]*models.Invitation, error) {
	target := companyID
	if actor.Role != models.RolePlatformAdmin {
		target = actor.CompanyID
	}
	if target == nil {
		return nil, utils.ValidationError("company_id is required")
	}

	ref := authz.ResourceRef{Type: authz.ResourceInvitation, CompanyID: target}
	if err := require(actor, authz.ActionRead, ref, "company"); err != nil {
		return nil, err
	}

	out, err := s.invitations.ListByCompanyID(ctx, *target)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	return out, nil
}

func (s *InvitationService) ResendInvitation(ctx context.Context, actor authz.CallerContext, id uuid.UUID, req dtos.ResendInvitationRequest) (*models.Invitation, error) {
	inv, err := s.tokens.ResendInvitation(ctx, actor, id, req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	s.dispatchInvite(ctx, inv)
	return inv, nil
}

func (s *InvitationService) RevokeInvitation(ctx context.Context, actor authz.CallerContext, id uuid.UUID) error {
	return s.tokens.RevokeInvitation(ctx, actor, id)
}

// RedeemInvitation is unauthenticated; the token is the credential.
func (s *InvitationService) RedeemInvitation(ctx context.Context, req dtos.RedeemInvitationRequest) (*models.User, error) {
	return s.tokens.RedeemInvitation(ctx, req.Token, req.Password)
}

func (s *InvitationService) dispatchInvite(ctx context.Context, inv *models.Invitation) {
	companyName := "your property management company"
	if company, err := s.companies.GetByID(ctx, inv.CompanyID); err == nil && company != nil {
		companyName = company.Name
	}
	s.dispatcher.DispatchInvite(inv.Email, inv.Token, notify.InviteMeta{
		CompanyName: companyName,
		InviteeName: inv.Name,
		Role:        inv.Role,
	})
}

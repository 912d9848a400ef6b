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

type OccupantService struct {
	occupants  repositories.OccupantRepository
	spaces     repositories.SpaceRepository
	buildings  repositories.BuildingRepository
	tokens     *tokens.Manager
	dispatcher *notify.Dispatcher
}

func NewOccupantService(
	occupants repositories.OccupantRepository,
	spaces repositories.SpaceRepository,
	buildings repositories.BuildingRepository,
	tokenManager *tokens.Manager,
	dispatcher *notify.Dispatcher,
) *OccupantService {
	return &OccupantService{
		occupants:  occupants,
		spaces:     spaces,
		buildings:  buildings,
		tokens:     tokenManager,
		dispatcher: dispatcher,
	}
}

func (s *OccupantService) occupantScope(ctx context.Context, occ *models.Occupant) (*models.Space, *models.Building, authz.ResourceRef, error) {
	space, err := s.spaces.GetByID(ctx, occ.SpaceID)
	if err != nil {
		return nil, nil, authz.ResourceRef{}, utils.InternalError(err)
	}
	if space == nil {
		return nil, nil, authz.ResourceRef{}, utils.NotFoundError("occupant not found")
	}
	building, err := s.buildings.GetByID(ctx, space.BuildingID)
	if err != nil {
		return nil, nil, authz.ResourceRef{}, utils.InternalError(err)
	}
	if building == nil {
		return nil, nil, authz.ResourceRef{}, utils.NotFoundError("occupant not found")
	}
	ref := authz.ResourceRef{
		Type:        authz.ResourceOccupant,
		ID:          occ.ID,
		CompanyID:   &building.CompanyID,
		BuildingID:  &building.ID,
		SpaceID:     &space.ID,
		OwnerUserID: occ.UserID,
	}
	return space, building, ref, nil
}

func (s *OccupantService) CreateOccupant(ctx context.Context, actor authz.CallerContext, req dtos.CreateOccupantRequest) (*models.Occupant, error) {
	space, err := s.spaces.GetByID(ctx, req.SpaceID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if space == nil {
		return nil, utils.NotFoundError("space not found")
	}
	_, bref, err := buildingRef(ctx, s.buildings, space.BuildingID)
	if err != nil {
		return nil, err
	}

	ref := authz.ResourceRef{
		Type:       authz.ResourceOccupant,
		CompanyID:  bref.CompanyID,
		BuildingID: bref.BuildingID,
		SpaceID:    &space.ID,
	}
	if err := require(actor, authz.ActionCreate, ref, "space"); err != nil {
		return nil, err
	}

	email := utils.NormalizeEmail(req.Email)
	if !utils.IsValidEmail(email) {
		return nil, utils.ValidationError("invalid email address")
	}
	if req.Phone != nil && !utils.IsE164(*req.Phone) {
		return nil, utils.ValidationError("phone must be E.164 formatted")
	}

	occ := &models.Occupant{
		ID:           uuid.New(),
		SpaceID:      space.ID,
		OccupantType: req.OccupantType,
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
	}
	if err := s.occupants.Create(ctx, occ); err != nil {
		return nil, utils.InternalError(err)
	}
	return occ, nil
}

func (s *OccupantService) GetOccupant(ctx context.Context, actor authz.CallerContext, id uuid.UUID) (*models.Occupant, error) {
	occ, err := s.occupants.GetByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if occ == nil {
		return nil, utils.NotFoundError("occupant not found")
	}
	_, _, ref, err := s.occupantScope(ctx, occ)
	if err != nil {
		return nil, err
	}
	if err := require(actor, authz.ActionRead, ref, "occupant"); err != nil {
		return nil, err
	}
	return occ, nil
}

func (s *OccupantService) ListOccupants(ctx context.Context, actor authz.CallerContext, spaceID uuid.UUID) ([]*models.Occupant, error) {
	space, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if space == nil {
		return nil, utils.NotFoundError("space not found")
	}
	_, bref, err := buildingRef(ctx, s.buildings, space.BuildingID)
	if err != nil {
		return nil, err
	}

	ref := authz.ResourceRef{
		Type:       authz.ResourceSpace,
		ID:         space.ID,
		CompanyID:  bref.CompanyID,
		BuildingID: bref.BuildingID,
		SpaceID:    &space.ID,
	}
	if err := require(actor, authz.ActionRead, ref, "space"); err != nil {
		return nil, err
	}

	out, err := s.occupants.ListBySpaceID(ctx, spaceID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	return out, nil
}

func (s *OccupantService) UpdateOccupant(ctx context.Context, actor authz.CallerContext, id uuid.UUID, req dtos.UpdateOccupantRequest) (*models.Occupant, error) {
	occ, err := s.occupants.GetByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if occ == nil {
		return nil, utils.NotFoundError("occupant not found")
	}
	_, _, ref, err := s.occupantScope(ctx, occ)
	if err != nil {
		return nil, err
	}
	if err := require(actor, authz.ActionUpdate, ref, "occupant"); err != nil {
		return nil, err
	}

	if req.Email != nil {
		normalized := utils.NormalizeEmail(*req.Email)
		if !utils.IsValidEmail(normalized) {
			return nil, utils.ValidationError("invalid email address")
		}
		req.Email = &normalized
	}
	if req.Phone != nil && *req.Phone != "" && !utils.IsE164(*req.Phone) {
		return nil, utils.ValidationError("phone must be E.164 formatted")
	}

	if err := s.occupants.UpdateWithRetry(ctx, id, func(o *models.Occupant) error {
		if req.OccupantType != nil {
			o.OccupantType = *req.OccupantType
		}
		if req.Name != nil {
			o.Name = *req.Name
		}
		if req.Email != nil {
			o.Email = *req.Email
		}
		if req.Phone != nil {
			o.Phone = req.Phone
		}
		return nil
	}); err != nil {
		return nil, utils.InternalError(err)
	}
	return s.occupants.GetByID(ctx, id)
}

// DeleteOccupant removes an occupant record. A claimed occupant keeps their
// platform account; only the space binding goes away.
func (s *OccupantService) DeleteOccupant(ctx context.Context, actor authz.CallerContext, id uuid.UUID) error {
	occ, err := s.occupants.GetByID(ctx, id)
	if err != nil {
		return utils.InternalError(err)
	}
	if occ == nil {
		return utils.NotFoundError("occupant not found")
	}
	_, _, ref, err := s.occupantScope(ctx, occ)
	if err != nil {
		return err
	}
	if err := require(actor, authz.ActionDelete, ref, "occupant"); err != nil {
		return err
	}

	if err := s.occupants.Delete(ctx, id); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return utils.DependencyExistsError("occupant still has dependent records")
		}
		return utils.InternalError(err)
	}
	return nil
}

// RedeemClaim is unauthenticated; the token is the credential.
func (s *OccupantService) RedeemClaim(ctx context.Context, req dtos.RedeemClaimRequest) (*models.User, *models.Occupant, error) {
	return s.tokens.RedeemClaim(ctx, req.Token, req.Password)
}

// InviteOccupant issues (or reissues) a claim token and emails the claim link.
// A resend supersedes the previous token immediately.
func (s *OccupantService) InviteOccupant(ctx context.Context, actor authz.CallerContext, id uuid.UUID) (*models.Occupant, error) {
	occ, err := s.tokens.IssueClaim(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	space, building, _, err := s.occupantScope(ctx, occ)
	if err != nil {
		return nil, err
	}
	unitLabel := ""
	if space.UnitNumber != nil {
		unitLabel = *space.UnitNumber
	}
	if occ.ClaimToken != nil {
		s.dispatcher.DispatchClaim(occ.Email, *occ.ClaimToken, notify.ClaimMeta{
			OccupantName: occ.Name,
			BuildingName: building.Name,
			UnitLabel:    unitLabel,
		})
	}
	return occ, nil
}

package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/authz"
	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type EntitlementService struct {
	entitlements repositories.EntitlementRepository
	buildings    repositories.BuildingRepository
	users        repositories.UserRepository
}

func NewEntitlementService(
	entitlements repositories.EntitlementRepository,
	buildings repositories.BuildingRepository,
	users repositories.UserRepository,
) *EntitlementService {
	return &EntitlementService{entitlements: entitlements, buildings: buildings, users: users}
}

// Grant gives one company_staff user access to one building. The target must
// be staff in the building's company; duplicates conflict.
func (s *EntitlementService) Grant(ctx context.Context, actor authz.CallerContext, req dtos.GrantEntitlementRequest) (*models.BuildingEntitlement, error) {
	building, bref, err := buildingRef(ctx, s.buildings, req.BuildingID)
	if err != nil {
		return nil, err
	}

	ref := authz.ResourceRef{
		Type:       authz.ResourceEntitlement,
		CompanyID:  bref.CompanyID,
		BuildingID: &building.ID,
	}
	if err := require(actor, authz.ActionCreate, ref, "building"); err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if target == nil {
		return nil, utils.NotFoundError("user not found")
	}
	if target.Role != models.RoleCompanyStaff {
		return nil, utils.ValidationError("entitlements can only be granted to company_staff users")
	}
	if target.CompanyID == nil || *target.CompanyID != building.CompanyID {
		return nil, utils.ForbiddenError("user and building belong to different companies")
	}

	ent := &models.BuildingEntitlement{
		ID:         uuid.New(),
		UserID:     target.ID,
		BuildingID: building.ID,
	}
	if err := s.entitlements.Create(ctx, ent); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.ConflictError("this user is already entitled to the building")
		}
		return nil, utils.InternalError(err)
	}
	return ent, nil
}

// List returns the company's grants for admins, or the caller's own grants for
// staff.
func (s *EntitlementService) List(ctx context.Context, actor authz.CallerContext, companyID *uuid.UUID) ([]*models.BuildingEntitlement, error) {
	switch actor.Role {
	case models.RolePlatformAdmin:
		if companyID == nil {
			return nil, utils.ValidationError("company_id is required")
		}
		out, err := s.entitlements.ListByCompanyID(ctx, *companyID)
		if err != nil {
			return nil, utils.InternalError(err)
		}
		return out, nil
	case models.RoleCompanyAdmin:
		if actor.CompanyID == nil {
			return []*models.BuildingEntitlement{}, nil
		}
		out, err := s.entitlements.ListByCompanyID(ctx, *actor.CompanyID)
		if err != nil {
			return nil, utils.InternalError(err)
		}
		return out, nil
	case models.RoleCompanyStaff:
		out, err := s.entitlements.ListByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, utils.InternalError(err)
		}
		return out, nil
	}
	return nil, utils.ForbiddenError("entitlement access denied")
}

// Revoke is idempotent: revoking an already-revoked grant succeeds quietly.
func (s *EntitlementService) Revoke(ctx context.Context, actor authz.CallerContext, id uuid.UUID) error {
	ent, err := s.entitlements.GetByID(ctx, id)
	if err != nil {
		return utils.InternalError(err)
	}
	if ent == nil {
		return nil
	}

	building, _, err := buildingRef(ctx, s.buildings, ent.BuildingID)
	if err != nil {
		return err
	}
	ref := authz.ResourceRef{
		Type:        authz.ResourceEntitlement,
		ID:          ent.ID,
		CompanyID:   &building.CompanyID,
		BuildingID:  &building.ID,
		OwnerUserID: &ent.UserID,
	}
	if err := require(actor, authz.ActionDelete, ref, "entitlement"); err != nil {
		return err
	}

	if err := s.entitlements.Delete(ctx, id); err != nil {
		return utils.InternalError(err)
	}
	return nil
}

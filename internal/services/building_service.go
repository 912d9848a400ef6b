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

type BuildingService struct {
	buildings repositories.BuildingRepository
}

func NewBuildingService(buildings repositories.BuildingRepository) *BuildingService {
	return &BuildingService{buildings: buildings}
}

func (s *BuildingService) CreateBuilding(ctx context.Context, actor authz.CallerContext, req dtos.CreateBuildingRequest) (*models.Building, error) {
	ref := authz.ResourceRef{Type: authz.ResourceBuilding, CompanyID: &req.CompanyID}
	if err := require(actor, authz.ActionCreate, ref, "company"); err != nil {
		return nil, err
	}

	building := &models.Building{
		ID:               uuid.New(),
		CompanyID:        req.CompanyID,
		Name:             req.Name,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		ZipCode:          req.ZipCode,
		GateCode:         req.GateCode,
		ShutoffLocations: req.ShutoffLocations,
		OnsiteContact:    req.OnsiteContact,
	}
	if err := s.buildings.Create(ctx, building); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return nil, utils.NotFoundError("company not found")
		}
		return nil, utils.InternalError(err)
	}
	return building, nil
}

func (s *BuildingService) GetBuilding(ctx context.Context, actor authz.CallerContext, id uuid.UUID) (*models.Building, error) {
	building, ref, err := buildingRef(ctx, s.buildings, id)
	if err != nil {
		return nil, err
	}
	if err := require(actor, authz.ActionRead, ref, "building"); err != nil {
		return nil, err
	}
	return building, nil
}

// ListBuildings narrows by the caller's scope: admins see the whole company,
// staff only their entitled buildings, residents the buildings they occupy.
func (s *BuildingService) ListBuildings(ctx context.Context, actor authz.CallerContext, companyID *uuid.UUID) ([]*models.Building, error) {
	switch actor.Role {
	case models.RolePlatformAdmin:
		if companyID == nil {
			return nil, utils.ValidationError("company_id is required")
		}
		out, err := s.buildings.ListByCompanyID(ctx, *companyID)
		if err != nil {
			return nil, utils.InternalError(err)
		}
		return out, nil
	case models.RoleCompanyAdmin:
		if actor.CompanyID == nil {
			return []*models.Building{}, nil
		}
		out, err := s.buildings.ListByCompanyID(ctx, *actor.CompanyID)
		if err != nil {
			return nil, utils.InternalError(err)
		}
		return out, nil
	case models.RoleCompanyStaff:
		out, err := s.buildings.ListByIDs(ctx, actor.EntitledBuildingIDs)
		if err != nil {
			return nil, utils.InternalError(err)
		}
		return out, nil
	case models.RoleResident:
		out, err := s.buildings.ListByIDs(ctx, actor.ResidentBuildingIDs)
		if err != nil {
			return nil, utils.InternalError(err)
		}
		return out, nil
	}
	return nil, utils.ForbiddenError("building access denied")
}

func (s *BuildingService) UpdateBuilding(ctx context.Context, actor authz.CallerContext, id uuid.UUID, req dtos.UpdateBuildingRequest) (*models.Building, error) {
	_, ref, err := buildingRef(ctx, s.buildings, id)
	if err != nil {
		return nil, err
	}
	if err := require(actor, authz.ActionUpdate, ref, "building"); err != nil {
		return nil, err
	}

	if err := s.buildings.UpdateWithRetry(ctx, id, func(b *models.Building) error {
		if req.Name != nil {
			b.Name = *req.Name
		}
		if req.Address != nil {
			b.Address = *req.Address
		}
		if req.City != nil {
			b.City = *req.City
		}
		if req.State != nil {
			b.State = *req.State
		}
		if req.ZipCode != nil {
			b.ZipCode = *req.ZipCode
		}
		if req.GateCode != nil {
			b.GateCode = req.GateCode
		}
		if req.ShutoffLocations != nil {
			b.ShutoffLocations = req.ShutoffLocations
		}
		if req.OnsiteContact != nil {
			b.OnsiteContact = req.OnsiteContact
		}
		return nil
	}); err != nil {
		return nil, utils.InternalError(err)
	}
	return s.buildings.GetByID(ctx, id)
}

// DeleteBuilding refuses while spaces or tickets still reference the building.
func (s *BuildingService) DeleteBuilding(ctx context.Context, actor authz.CallerContext, id uuid.UUID) error {
	_, ref, err := buildingRef(ctx, s.buildings, id)
	if err != nil {
		return err
	}
	if err := require(actor, authz.ActionDelete, ref, "building"); err != nil {
		return err
	}

	hasSpaces, err := s.buildings.HasSpaces(ctx, id)
	if err != nil {
		return utils.InternalError(err)
	}
	if hasSpaces {
		return utils.DependencyExistsError("building still has spaces")
	}
	hasTickets, err := s.buildings.HasTickets(ctx, id)
	if err != nil {
		return utils.InternalError(err)
	}
	if hasTickets {
		return utils.DependencyExistsError("building still has tickets")
	}

	if err := s.buildings.Delete(ctx, id); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return utils.DependencyExistsError("building still has dependent records")
		}
		return utils.InternalError(err)
	}
	return nil
}

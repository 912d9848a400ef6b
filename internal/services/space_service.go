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

type SpaceService struct {
	spaces    repositories.SpaceRepository
	buildings repositories.BuildingRepository
	occupants repositories.OccupantRepository
}

func NewSpaceService(
	spaces repositories.SpaceRepository,
	buildings repositories.BuildingRepository,
	occupants repositories.OccupantRepository,
) *SpaceService {
	return &SpaceService{spaces: spaces, buildings: buildings, occupants: occupants}
}

func (s *SpaceService) spaceRef(ctx context.Context, sp *models.Space) (authz.ResourceRef, error) {
	building, err := s.buildings.GetByID(ctx, sp.BuildingID)
	if err != nil {
		return authz.ResourceRef{}, utils.InternalError(err)
	}
	if building == nil {
		return authz.ResourceRef{}, utils.NotFoundError("space not found")
	}
	return authz.ResourceRef{
		Type:       authz.ResourceSpace,
		ID:         sp.ID,
		CompanyID:  &building.CompanyID,
		BuildingID: &building.ID,
		SpaceID:    &sp.ID,
	}, nil
}

// CreateSpace enforces the unit/common-area discriminator and, for units, the
// per-building unit_number uniqueness.
func (s *SpaceService) CreateSpace(ctx context.Context, actor authz.CallerContext, req dtos.CreateSpaceRequest) (*models.Space, error) {
	building, bref, err := buildingRef(ctx, s.buildings, req.BuildingID)
	if err != nil {
		return nil, err
	}
	ref := authz.ResourceRef{
		Type:       authz.ResourceSpace,
		CompanyID:  bref.CompanyID,
		BuildingID: &building.ID,
	}
	if err := require(actor, authz.ActionCreate, ref, "building"); err != nil {
		return nil, err
	}

	var space *models.Space
	switch req.SpaceType {
	case models.SpaceTypeUnit:
		if req.UnitNumber == nil || req.CommonAreaType != nil {
			return nil, utils.ValidationError("a unit requires unit_number and must not set common_area_type")
		}
		space = models.NewUnitSpace(building.ID, *req.UnitNumber)
	case models.SpaceTypeCommonArea:
		if req.CommonAreaType == nil || req.UnitNumber != nil {
			return nil, utils.ValidationError("a common area requires common_area_type and must not set unit_number")
		}
		space = models.NewCommonAreaSpace(building.ID, *req.CommonAreaType)
	default:
		return nil, utils.ValidationError("space_type must be unit or common_area")
	}
	if err := space.Validate(); err != nil {
		return nil, utils.ValidationError(err.Error())
	}

	if space.SpaceType == models.SpaceTypeUnit {
		exists, err := s.spaces.UnitNumberExists(ctx, building.ID, *space.UnitNumber, uuid.Nil)
		if err != nil {
			return nil, utils.InternalError(err)
		}
		if exists {
			return nil, utils.ConflictError("a unit with this number already exists in the building")
		}
	}

	if err := s.spaces.Create(ctx, space); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.ConflictError("a unit with this number already exists in the building")
		}
		return nil, utils.InternalError(err)
	}
	return space, nil
}

func (s *SpaceService) GetSpace(ctx context.Context, actor authz.CallerContext, id uuid.UUID) (*models.Space, error) {
	space, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if space == nil {
		return nil, utils.NotFoundError("space not found")
	}
	ref, err := s.spaceRef(ctx, space)
	if err != nil {
		return nil, err
	}
	if err := require(actor, authz.ActionRead, ref, "space"); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *SpaceService) ListSpaces(ctx context.Context, actor authz.CallerContext, buildingID uuid.UUID) ([]*models.Space, error) {
	_, bref, err := buildingRef(ctx, s.buildings, buildingID)
	if err != nil {
		return nil, err
	}
	if err := require(actor, authz.ActionRead, bref, "building"); err != nil {
		return nil, err
	}

	out, err := s.spaces.ListByBuildingID(ctx, buildingID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if actor.Role == models.RoleResident {
		// Residents see only their own spaces, not the whole building roster.
		filtered := out[:0]
		for _, sp := range out {
			if actor.OccupiesSpace(sp.ID) {
				filtered = append(filtered, sp)
			}
		}
		out = filtered
	}
	return out, nil
}

func (s *SpaceService) UpdateSpace(ctx context.Context, actor authz.CallerContext, id uuid.UUID, req dtos.UpdateSpaceRequest) (*models.Space, error) {
	space, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if space == nil {
		return nil, utils.NotFoundError("space not found")
	}
	ref, err := s.spaceRef(ctx, space)
	if err != nil {
		return nil, err
	}
	if err := require(actor, authz.ActionUpdate, ref, "space"); err != nil {
		return nil, err
	}

	if req.UnitNumber != nil {
		if space.SpaceType != models.SpaceTypeUnit {
			return nil, utils.ValidationError("only units carry a unit_number")
		}
		exists, err := s.spaces.UnitNumberExists(ctx, space.BuildingID, *req.UnitNumber, space.ID)
		if err != nil {
			return nil, utils.InternalError(err)
		}
		if exists {
			return nil, utils.ConflictError("a unit with this number already exists in the building")
		}
	}
	if req.CommonAreaType != nil && space.SpaceType != models.SpaceTypeCommonArea {
		return nil, utils.ValidationError("only common areas carry a common_area_type")
	}

	if err := s.spaces.UpdateWithRetry(ctx, id, func(sp *models.Space) error {
		if req.UnitNumber != nil {
			sp.UnitNumber = req.UnitNumber
		}
		if req.CommonAreaType != nil {
			sp.CommonAreaType = req.CommonAreaType
		}
		return sp.Validate()
	}); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.ConflictError("a unit with this number already exists in the building")
		}
		return nil, utils.InternalError(err)
	}
	return s.spaces.GetByID(ctx, id)
}

// DeleteSpace refuses while occupants or tickets still reference the space.
func (s *SpaceService) DeleteSpace(ctx context.Context, actor authz.CallerContext, id uuid.UUID) error {
	space, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return utils.InternalError(err)
	}
	if space == nil {
		return utils.NotFoundError("space not found")
	}
	ref, err := s.spaceRef(ctx, space)
	if err != nil {
		return err
	}
	if err := require(actor, authz.ActionDelete, ref, "space"); err != nil {
		return err
	}

	occupants, err := s.occupants.ListBySpaceID(ctx, id)
	if err != nil {
		return utils.InternalError(err)
	}
	if len(occupants) > 0 {
		return utils.DependencyExistsError("space still has occupants")
	}
	hasTickets, err := s.spaces.HasTickets(ctx, id)
	if err != nil {
		return utils.InternalError(err)
	}
	if hasTickets {
		return utils.DependencyExistsError("space still has tickets")
	}

	if err := s.spaces.Delete(ctx, id); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return utils.DependencyExistsError("space still has dependent records")
		}
		return utils.InternalError(err)
	}
	return nil
}

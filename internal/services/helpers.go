package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/authz"
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

// authzError maps a denial to its outward shape: 404 when the caller has no
// read visibility into the resource, 403 otherwise.
func authzError(d authz.Decision, resource string) error {
	if d.Conceal {
		return utils.NotFoundError(resource + " not found")
	}
	return utils.ForbiddenError(d.Reason)
}

// require runs the decision and returns nil on allow.
func require(actor authz.CallerContext, action authz.Action, ref authz.ResourceRef, resource string) error {
	if d := authz.Decide(actor, action, ref); !d.Allowed {
		return authzError(d, resource)
	}
	return nil
}

// buildingRef resolves the ResourceRef of a building, or a not-found error.
func buildingRef(ctx context.Context, buildings repositories.BuildingRepository, id uuid.UUID) (*models.Building, authz.ResourceRef, error) {
	b, err := buildings.GetByID(ctx, id)
	if err != nil {
		return nil, authz.ResourceRef{}, utils.InternalError(err)
	}
	if b == nil {
		return nil, authz.ResourceRef{}, utils.NotFoundError("building not found")
	}
	ref := authz.ResourceRef{
		Type:       authz.ResourceBuilding,
		ID:         b.ID,
		CompanyID:  &b.CompanyID,
		BuildingID: &b.ID,
	}
	return b, ref, nil
}

// Package identity turns an authenticated user id into the CallerContext every
// authorization decision consumes. Resolution happens once per request, at
// write time, against fresh facts.
package identity

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/authz"
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type Resolver struct {
	users        repositories.UserRepository
	entitlements repositories.EntitlementRepository
	occupants    repositories.OccupantRepository
}

func NewResolver(
	users repositories.UserRepository,
	entitlements repositories.EntitlementRepository,
	occupants repositories.OccupantRepository,
) *Resolver {
	return &Resolver{users: users, entitlements: entitlements, occupants: occupants}
}

// Resolve loads the user plus whatever scoping facts their role needs: staff
// get entitled building ids, residents get claimed space and building ids.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (authz.CallerContext, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return authz.CallerContext{}, err
	}
	if user == nil {
		return authz.CallerContext{}, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthenticated,
			"account no longer exists", nil)
	}

	cc := authz.CallerContext{
		UserID:    user.ID,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	}

	switch user.Role {
	case models.RoleCompanyStaff:
		buildingIDs, err := r.entitlements.ListBuildingIDsByUserID(ctx, user.ID)
		if err != nil {
			return authz.CallerContext{}, err
		}
		cc.EntitledBuildingIDs = buildingIDs
	case models.RoleResident:
		spaceIDs, err := r.occupants.ListSpaceIDsByUserID(ctx, user.ID)
		if err != nil {
			return authz.CallerContext{}, err
		}
		buildingIDs, err := r.occupants.ListBuildingIDsByUserID(ctx, user.ID)
		if err != nil {
			return authz.CallerContext{}, err
		}
		cc.ResidentSpaceIDs = spaceIDs
		cc.ResidentBuildingIDs = buildingIDs
	}

	return cc, nil
}

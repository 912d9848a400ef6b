// Package authz is the permission core. Decide is a pure function over a
// pre-resolved CallerContext and resource facts; it performs no I/O, so it can
// be imported by reporting and export features without duplicating the rules.
package authz

import (
	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

// CallerContext holds every fact about the requester the engine needs. It is
// built once per request by the identity resolver and passed explicitly; there
// is no ambient caller state.
type CallerContext struct {
	UserID              uuid.UUID
	Role                models.Role
	CompanyID           *uuid.UUID
	EntitledBuildingIDs []uuid.UUID
	ResidentSpaceIDs    []uuid.UUID
	ResidentBuildingIDs []uuid.UUID
}

// SameCompany reports whether the caller belongs to the given company.
func (c CallerContext) SameCompany(companyID uuid.UUID) bool {
	return c.CompanyID != nil && *c.CompanyID == companyID
}

// EntitledTo reports whether the caller holds a building entitlement.
func (c CallerContext) EntitledTo(buildingID uuid.UUID) bool {
	for _, id := range c.EntitledBuildingIDs {
		if id == buildingID {
			return true
		}
	}
	return false
}

// OccupiesSpace reports whether the caller is a claimed occupant of the space.
func (c CallerContext) OccupiesSpace(spaceID uuid.UUID) bool {
	for _, id := range c.ResidentSpaceIDs {
		if id == spaceID {
			return true
		}
	}
	return false
}

// OccupiesBuilding reports whether the caller occupies any space in the
// building.
func (c CallerContext) OccupiesBuilding(buildingID uuid.UUID) bool {
	for _, id := range c.ResidentBuildingIDs {
		if id == buildingID {
			return true
		}
	}
	return false
}

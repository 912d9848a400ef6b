package models

import (
	"time"

	"github.com/google/uuid"
)

// BuildingEntitlement grants one company_staff user visibility and writability
// of one building. The (user_id, building_id) pair is unique. Entitlements are
// the only channel through which staff gain building access.
type BuildingEntitlement struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	BuildingID uuid.UUID `json:"building_id"`
	CreatedAt  time.Time `json:"created_at"`
}

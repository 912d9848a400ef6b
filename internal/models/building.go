package models

import (
	"time"

	"github.com/google/uuid"
)

// Building belongs to exactly one company. Site-access metadata is only
// surfaced to actors the authorization engine clears for the building.
type Building struct {
	Versioned

	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`

	GateCode         *string `json:"gate_code,omitempty"`
	ShutoffLocations *string `json:"shutoff_locations,omitempty"`
	OnsiteContact    *string `json:"onsite_contact,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Building) GetID() string { return b.ID.String() }

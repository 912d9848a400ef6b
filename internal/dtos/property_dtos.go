package dtos

import (
	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

// ----- Building DTOs -----

type CreateBuildingRequest struct {
	CompanyID uuid.UUID `json:"company_id" validate:"required"`
	Name      string    `json:"name" validate:"required,min=2,max=255"`
	Address   string    `json:"address" validate:"required,min=5"`
	City      string    `json:"city" validate:"required,min=2"`
	State     string    `json:"state" validate:"required,len=2"`
	ZipCode   string    `json:"zip_code" validate:"required,min=5,max=10"`

	GateCode         *string `json:"gate_code,omitempty" validate:"omitempty,max=50"`
	ShutoffLocations *string `json:"shutoff_locations,omitempty"`
	OnsiteContact    *string `json:"onsite_contact,omitempty" validate:"omitempty,max=255"`
}

type UpdateBuildingRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Address *string `json:"address,omitempty" validate:"omitempty,min=5"`
	City    *string `json:"city,omitempty" validate:"omitempty,min=2"`
	State   *string `json:"state,omitempty" validate:"omitempty,len=2"`
	ZipCode *string `json:"zip_code,omitempty" validate:"omitempty,min=5,max=10"`

	GateCode         *string `json:"gate_code,omitempty" validate:"omitempty,max=50"`
	ShutoffLocations *string `json:"shutoff_locations,omitempty"`
	OnsiteContact    *string `json:"onsite_contact,omitempty" validate:"omitempty,max=255"`
}

// ----- Space DTOs -----

type CreateSpaceRequest struct {
	BuildingID     uuid.UUID        `json:"building_id" validate:"required"`
	SpaceType      models.SpaceType `json:"space_type" validate:"required,oneof=unit common_area"`
	UnitNumber     *string          `json:"unit_number,omitempty" validate:"omitempty,min=1,max=20"`
	CommonAreaType *string          `json:"common_area_type,omitempty" validate:"omitempty,min=2,max=100"`
}

type UpdateSpaceRequest struct {
	UnitNumber     *string `json:"unit_number,omitempty" validate:"omitempty,min=1,max=20"`
	CommonAreaType *string `json:"common_area_type,omitempty" validate:"omitempty,min=2,max=100"`
}

// ----- Occupant DTOs -----

type CreateOccupantRequest struct {
	SpaceID      uuid.UUID           `json:"space_id" validate:"required"`
	OccupantType models.OccupantType `json:"occupant_type" validate:"required,oneof=homeowner tenant"`
	Name         string              `json:"name" validate:"required,min=2,max=255"`
	Email        string              `json:"email" validate:"required,email"`
	Phone        *string             `json:"phone,omitempty" validate:"omitempty,e164"`
}

type UpdateOccupantRequest struct {
	OccupantType *models.OccupantType `json:"occupant_type,omitempty" validate:"omitempty,oneof=homeowner tenant"`
	Name         *string              `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Email        *string              `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string              `json:"phone,omitempty" validate:"omitempty,e164"`
}

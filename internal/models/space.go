package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type SpaceType string

const (
	SpaceTypeUnit       SpaceType = "unit"
	SpaceTypeCommonArea SpaceType = "common_area"
)

var (
	ErrSpaceDiscriminator = errors.New("space discriminator mismatch")
)

// Space is a unit or a common area inside a building. The discriminator
// invariant: unit ⇔ UnitNumber set and CommonAreaType nil; common_area ⇔ the
// reverse. Use NewUnitSpace / NewCommonAreaSpace so an invalid combination is
// never constructed in the first place.
type Space struct {
	Versioned

	ID             uuid.UUID `json:"id"`
	BuildingID     uuid.UUID `json:"building_id"`
	SpaceType      SpaceType `json:"space_type"`
	UnitNumber     *string   `json:"unit_number,omitempty"`
	CommonAreaType *string   `json:"common_area_type,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewUnitSpace(buildingID uuid.UUID, unitNumber string) *Space {
	return &Space{
		ID:         uuid.New(),
		BuildingID: buildingID,
		SpaceType:  SpaceTypeUnit,
		UnitNumber: &unitNumber,
	}
}

func NewCommonAreaSpace(buildingID uuid.UUID, areaType string) *Space {
	return &Space{
		ID:             uuid.New(),
		BuildingID:     buildingID,
		SpaceType:      SpaceTypeCommonArea,
		CommonAreaType: &areaType,
	}
}

// Validate enforces the discriminator invariant before any persist.
func (s *Space) Validate() error {
	switch s.SpaceType {
	case SpaceTypeUnit:
		if s.UnitNumber == nil || *s.UnitNumber == "" || s.CommonAreaType != nil {
			return ErrSpaceDiscriminator
		}
	case SpaceTypeCommonArea:
		if s.CommonAreaType == nil || *s.CommonAreaType == "" || s.UnitNumber != nil {
			return ErrSpaceDiscriminator
		}
	default:
		return ErrSpaceDiscriminator
	}
	return nil
}

func (s *Space) GetID() string { return s.ID.String() }

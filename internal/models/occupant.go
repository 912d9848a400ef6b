package models

import (
	"time"

	"github.com/google/uuid"
)

type OccupantType string

const (
	OccupantTypeHomeowner OccupantType = "homeowner"
	OccupantTypeTenant    OccupantType = "tenant"
)

// Occupant binds a resident to a space. UserID stays nil until the occupant
// redeems a claim token; after that it is permanently set and the token is
// inert. ClaimToken is unique while live; issuing a fresh one supersedes the
// old string immediately.
type Occupant struct {
	Versioned

	ID           uuid.UUID    `json:"id"`
	SpaceID      uuid.UUID    `json:"space_id"`
	UserID       *uuid.UUID   `json:"user_id,omitempty"`
	OccupantType OccupantType `json:"occupant_type"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        *string      `json:"phone,omitempty"`

	ClaimToken   *string    `json:"-"`
	InviteSentAt *time.Time `json:"invite_sent_at,omitempty"`
	ClaimedAt    *time.Time `json:"claimed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Claimed reports whether the occupant has linked a platform account.
func (o *Occupant) Claimed() bool { return o.ClaimedAt != nil }

func (o *Occupant) GetID() string { return o.ID.String() }

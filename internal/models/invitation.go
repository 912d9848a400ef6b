package models

import (
	"time"

	"github.com/google/uuid"
)

// Invitation onboards a company_admin or company_staff user. Single use: once
// AcceptedAt is set the token is permanently dead. Rotating the token (resend)
// kills the old string even though it was never redeemed.
type Invitation struct {
	Versioned

	ID              uuid.UUID  `json:"id"`
	CompanyID       uuid.UUID  `json:"company_id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Role            Role       `json:"role"`
	Token           string     `json:"-"`
	InvitedByUserID uuid.UUID  `json:"invited_by_user_id"`
	ExpiresAt       time.Time  `json:"expires_at"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Accepted reports whether the invitation has been redeemed.
func (i *Invitation) Accepted() bool { return i.AcceptedAt != nil }

// Expired reports whether the invitation is past its TTL at the given instant.
func (i *Invitation) Expired(now time.Time) bool { return now.After(i.ExpiresAt) }

func (i *Invitation) GetID() string { return i.ID.String() }

package dtos

import (
	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

// ----- Invitation DTOs -----

type CreateInvitationRequest struct {
	CompanyID uuid.UUID   `json:"company_id" validate:"required"`
	Email     string      `json:"email" validate:"required,email"`
	Name      string      `json:"name" validate:"required,min=2,max=255"`
	Role      models.Role `json:"role" validate:"required,oneof=company_admin company_staff"`
}

type ResendInvitationRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

type RedeemInvitationRequest struct {
	Token    string `json:"token" validate:"required,len=64,hexadecimal"`
	Password string `json:"password" validate:"required,min=8"`
}

// ----- Occupant claim DTOs -----

type RedeemClaimRequest struct {
	Token    string `json:"token" validate:"required,len=64,hexadecimal"`
	Password string `json:"password" validate:"required,min=8"`
}

type ClaimRedeemedResponse struct {
	User     *models.User     `json:"user"`
	Occupant *models.Occupant `json:"occupant"`
}

// ----- Entitlement DTOs -----

type GrantEntitlementRequest struct {
	UserID     uuid.UUID `json:"user_id" validate:"required"`
	BuildingID uuid.UUID `json:"building_id" validate:"required"`
}

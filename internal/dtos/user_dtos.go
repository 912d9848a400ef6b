package dtos

import (
	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

// ----- Auth DTOs -----

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// ----- User DTOs -----

type CreateUserRequest struct {
	Email     string      `json:"email" validate:"required,email"`
	FullName  string      `json:"full_name" validate:"required,min=2,max=255"`
	Phone     *string     `json:"phone,omitempty" validate:"omitempty,e164"`
	Role      models.Role `json:"role" validate:"required"`
	CompanyID *uuid.UUID  `json:"company_id,omitempty"`
	Password  string      `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleCompanyAdmin  Role = "company_admin"
	RoleCompanyStaff  Role = "company_staff"
	RoleResident      Role = "resident"
)

// ValidRole reports whether r is one of the four platform roles.
func ValidRole(r Role) bool {
	switch r {
	case RolePlatformAdmin, RoleCompanyAdmin, RoleCompanyStaff, RoleResident:
		return true
	}
	return false
}

// User is a platform account. CompanyID is nil only for platform admins.
type User struct {
	Versioned

	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Phone        *string    `json:"phone,omitempty"`
	Role         Role       `json:"role"`
	CompanyID    *uuid.UUID `json:"company_id,omitempty"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) GetID() string { return u.ID.String() }

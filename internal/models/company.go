package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the root of the tenancy tree. Slug is unique platform-wide.
type Company struct {
	Versioned

	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Slug      string            `json:"slug"`
	Settings  map[string]string `json:"settings,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (c *Company) GetID() string { return c.ID.String() }

package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

// ----- Ticket DTOs -----

type CreateTicketRequest struct {
	BuildingID  uuid.UUID       `json:"building_id" validate:"required"`
	SpaceID     uuid.UUID       `json:"space_id" validate:"required"`
	IssueType   string          `json:"issue_type" validate:"required,min=2,max=100"`
	Severity    models.Severity `json:"severity" validate:"required,oneof=emergency urgent standard"`
	Description string          `json:"description" validate:"required,min=5"`
}

// UpdateTicketRequest touches descriptive fields only. Status moves go through
// the transition endpoint.
type UpdateTicketRequest struct {
	IssueType          *string          `json:"issue_type,omitempty" validate:"omitempty,min=2,max=100"`
	Severity           *models.Severity `json:"severity,omitempty" validate:"omitempty,oneof=emergency urgent standard"`
	Description        *string          `json:"description,omitempty" validate:"omitempty,min=5"`
	AssignedTechnician *string          `json:"assigned_technician,omitempty" validate:"omitempty,max=255"`
	ScheduledDate      *time.Time       `json:"scheduled_date,omitempty"`
	QuoteAmount        *float64         `json:"quote_amount,omitempty" validate:"omitempty,gte=0"`
	InvoiceNumber      *string          `json:"invoice_number,omitempty" validate:"omitempty,max=64"`
}

type TransitionTicketRequest struct {
	NewStatus models.TicketStatus `json:"new_status" validate:"required"`
	Notes     *string             `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type TransitionTicketResponse struct {
	Ticket *models.Ticket          `json:"ticket"`
	Log    *models.TicketStatusLog `json:"log"`
}

type ListTicketsQuery struct {
	Status     *models.TicketStatus
	BuildingID *uuid.UUID
}

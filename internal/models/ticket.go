package models

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	StatusNew             TicketStatus = "new"
	StatusNeedsInfo       TicketStatus = "needs_info"
	StatusScheduled       TicketStatus = "scheduled"
	StatusDispatched      TicketStatus = "dispatched"
	StatusOnSite          TicketStatus = "on_site"
	StatusInProgress      TicketStatus = "in_progress"
	StatusWaitingApproval TicketStatus = "waiting_approval"
	StatusCompleted       TicketStatus = "completed"
	StatusInvoiced        TicketStatus = "invoiced"
	StatusCancelled       TicketStatus = "cancelled"
)

// AllTicketStatuses lists every status; useful for table-driven checks.
var AllTicketStatuses = []TicketStatus{
	StatusNew, StatusNeedsInfo, StatusScheduled, StatusDispatched,
	StatusOnSite, StatusInProgress, StatusWaitingApproval,
	StatusCompleted, StatusInvoiced, StatusCancelled,
}

func ValidTicketStatus(s TicketStatus) bool {
	for _, st := range AllTicketStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type Severity string

const (
	SeverityEmergency Severity = "emergency"
	SeverityUrgent    Severity = "urgent"
	SeverityStandard  Severity = "standard"
)

func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityEmergency, SeverityUrgent, SeverityStandard:
		return true
	}
	return false
}

// Ticket is a work order on a space. TicketNumber is monotonically increasing
// and unique, not required gapless (DB sequence).
type Ticket struct {
	Versioned

	ID              uuid.UUID    `json:"id"`
	TicketNumber    int64        `json:"ticket_number"`
	BuildingID      uuid.UUID    `json:"building_id"`
	SpaceID         uuid.UUID    `json:"space_id"`
	CreatedByUserID uuid.UUID    `json:"created_by_user_id"`
	IssueType       string       `json:"issue_type"`
	Severity        Severity     `json:"severity"`
	Status          TicketStatus `json:"status"`
	Description     string       `json:"description"`

	AssignedTechnician *string    `json:"assigned_technician,omitempty"`
	ScheduledDate      *time.Time `json:"scheduled_date,omitempty"`
	QuoteAmount        *float64   `json:"quote_amount,omitempty"`
	InvoiceNumber      *string    `json:"invoice_number,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Ticket) GetID() string { return t.ID.String() }

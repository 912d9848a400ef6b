package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatusLog is append-only. Exactly one row is produced by every accepted
// status transition, plus the creation row with OldStatus nil. Rows are never
// edited or deleted.
type TicketStatusLog struct {
	ID              uuid.UUID     `json:"id"`
	TicketID        uuid.UUID     `json:"ticket_id"`
	OldStatus       *TicketStatus `json:"old_status,omitempty"`
	NewStatus       TicketStatus  `json:"new_status"`
	ChangedByUserID *uuid.UUID    `json:"changed_by_user_id,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

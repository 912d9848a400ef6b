package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationInvite       NotificationKind = "invite"
	NotificationClaim        NotificationKind = "claim"
	NotificationStatusChange NotificationKind = "status_change"
)

// NotificationAudit records every delivery attempt, success or failure.
// Append-only; dispatch failures never roll back the business transaction.
type NotificationAudit struct {
	ID        uuid.UUID        `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Recipient string           `json:"recipient"`
	TicketID  *uuid.UUID       `json:"ticket_id,omitempty"`
	Success   bool             `json:"success"`
	Error     *string          `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

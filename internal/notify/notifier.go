// Package notify is the outbound-message collaborator. Dispatch is
// fire-and-forget relative to the business transaction: it runs after commit,
// never fails the request, and records every attempt to the append-only audit
// log.
package notify

import (
	"context"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
)

// InviteMeta accompanies an invitation email.
type InviteMeta struct {
	CompanyName string
	InviteeName string
	Role        models.Role
}

// ClaimMeta accompanies an occupant account-claim email.
type ClaimMeta struct {
	OccupantName string
	BuildingName string
	UnitLabel    string
}

// Notifier is the transport port. Implementations must be safe for concurrent
// use; errors are recorded, not propagated to request handlers.
type Notifier interface {
	SendInvite(ctx context.Context, email, token string, meta InviteMeta) error
	SendClaim(ctx context.Context, email, token string, meta ClaimMeta) error
	NotifyStatusChange(ctx context.Context, ticket *models.Ticket, oldStatus, newStatus models.TicketStatus, recipientEmail, recipientPhone string) error
}

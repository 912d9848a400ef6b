package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

const (
	dispatchTimeout = 30 * time.Second
	recordTimeout   = 5 * time.Second
)

// Dispatcher sends notifications asynchronously after the business
// transaction commits and records every attempt. A send failure is logged
// and audited but never surfaced to the caller.
type Dispatcher struct {
	notifier Notifier
	audits   repositories.NotificationAuditRepository
}

func NewDispatcher(notifier Notifier, audits repositories.NotificationAuditRepository) *Dispatcher {
	return &Dispatcher{notifier: notifier, audits: audits}
}

func (d *Dispatcher) DispatchInvite(email, token string, meta InviteMeta) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		err := d.notifier.SendInvite(ctx, email, token, meta)
		d.record(models.NotificationInvite, email, nil, err)
	}()
}

func (d *Dispatcher) DispatchClaim(email, token string, meta ClaimMeta) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		err := d.notifier.SendClaim(ctx, email, token, meta)
		d.record(models.NotificationClaim, email, nil, err)
	}()
}

func (d *Dispatcher) DispatchStatusChange(ticket *models.Ticket, oldStatus, newStatus models.TicketStatus, recipientEmail, recipientPhone string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		err := d.notifier.NotifyStatusChange(ctx, ticket, oldStatus, newStatus, recipientEmail, recipientPhone)
		recipient := recipientEmail
		if recipient == "" {
			recipient = recipientPhone
		}
		d.record(models.NotificationStatusChange, recipient, &ticket.ID, err)
	}()
}

// record runs on its own context so the audit row lands even when the send
// itself timed out.
func (d *Dispatcher) record(kind models.NotificationKind, recipient string, ticketID *uuid.UUID, sendErr error) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	audit := &models.NotificationAudit{
		ID:        uuid.New(),
		Kind:      kind,
		Recipient: recipient,
		TicketID:  ticketID,
		Success:   sendErr == nil,
	}
	if sendErr != nil {
		audit.Error = utils.Ptr(sendErr.Error())
	}
	if err := d.audits.Record(ctx, audit); err != nil {
		utils.Logger.WithError(err).Error("Failed to record notification audit entry")
	}
}

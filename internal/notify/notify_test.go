package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

func statusTicket() *models.Ticket {
	return &models.Ticket{
		ID:           uuid.New(),
		TicketNumber: 1042,
		IssueType:    "leak",
		Severity:     models.SeverityUrgent,
		Status:       models.StatusScheduled,
		Description:  "water under the kitchen sink",
	}
}

// Without credentials both channels are skipped with a warning; the message
// bodies are still rendered from the ticket's issue type and number.
func TestNotifyStatusChangeWithoutClients(t *testing.T) {
	s := NewSender(nil, nil, "https://app.plumbtix.io", "noreply@plumbtix.io", "+15550000000", "Plumbtix", true)

	err := s.NotifyStatusChange(context.Background(), statusTicket(),
		models.StatusNew, models.StatusScheduled, "resident@example.com", "+15551234567")
	require.NoError(t, err)
}

func TestStatusDetail(t *testing.T) {
	ticket := statusTicket()

	require.Equal(t, "Log in to Plumbtix for the latest details.", statusDetail(ticket, models.StatusScheduled))
	require.Equal(t, "Log in to Plumbtix for the latest details.", statusDetail(ticket, models.StatusDispatched))

	when := time.Date(2026, time.March, 5, 14, 30, 0, 0, time.UTC)
	ticket.ScheduledDate = &when
	require.Equal(t, "Scheduled for Thursday, March 5 at 2:30 PM.", statusDetail(ticket, models.StatusScheduled))

	ticket.AssignedTechnician = utils.Ptr("Dana")
	require.Equal(t, "Dana is on the way.", statusDetail(ticket, models.StatusDispatched))

	require.Equal(t, "The work has been completed. Thank you for your patience.", statusDetail(ticket, models.StatusCompleted))
}

type fakeNotifier struct {
	mu      sync.Mutex
	sendCtx context.Context
	sendErr error
}

func (n *fakeNotifier) SendInvite(ctx context.Context, _, _ string, _ InviteMeta) error {
	n.mu.Lock()
	n.sendCtx = ctx
	n.mu.Unlock()
	return n.sendErr
}

func (n *fakeNotifier) SendClaim(ctx context.Context, _, _ string, _ ClaimMeta) error {
	n.mu.Lock()
	n.sendCtx = ctx
	n.mu.Unlock()
	return n.sendErr
}

func (n *fakeNotifier) NotifyStatusChange(ctx context.Context, _ *models.Ticket, _, _ models.TicketStatus, _, _ string) error {
	n.mu.Lock()
	n.sendCtx = ctx
	n.mu.Unlock()
	return n.sendErr
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*models.NotificationAudit
	ctxErr  error
	ctxDone time.Time
	written chan struct{}
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{written: make(chan struct{})}
}

func (r *fakeAuditRepo) Record(ctx context.Context, a *models.NotificationAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctxErr = ctx.Err()
	if deadline, ok := ctx.Deadline(); ok {
		r.ctxDone = deadline
	}
	r.entries = append(r.entries, a)
	close(r.written)
	return nil
}

func (r *fakeAuditRepo) ListByTicketID(_ context.Context, ticketID uuid.UUID) ([]*models.NotificationAudit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.NotificationAudit
	for _, a := range r.entries {
		if a.TicketID != nil && *a.TicketID == ticketID {
			out = append(out, a)
		}
	}
	return out, nil
}

func awaitRecord(t *testing.T, audits *fakeAuditRepo) *models.NotificationAudit {
	t.Helper()
	select {
	case <-audits.written:
	case <-time.After(2 * time.Second):
		t.Fatal("audit entry was never recorded")
	}
	audits.mu.Lock()
	defer audits.mu.Unlock()
	require.Len(t, audits.entries, 1)
	return audits.entries[0]
}

// The audit write runs on its own short-lived context, not the send context:
// a send that burned its whole deadline must still get its failure recorded.
func TestDispatchAuditsFailedSend(t *testing.T) {
	notifier := &fakeNotifier{sendErr: errors.New("smtp 554")}
	audits := newFakeAuditRepo()
	d := NewDispatcher(notifier, audits)

	ticket := statusTicket()
	d.DispatchStatusChange(ticket, models.StatusNew, models.StatusScheduled, "resident@example.com", "")

	entry := awaitRecord(t, audits)
	require.Equal(t, models.NotificationStatusChange, entry.Kind)
	require.Equal(t, "resident@example.com", entry.Recipient)
	require.NotNil(t, entry.TicketID)
	require.Equal(t, ticket.ID, *entry.TicketID)
	require.False(t, entry.Success)
	require.NotNil(t, entry.Error)
	require.Equal(t, "smtp 554", *entry.Error)

	require.NoError(t, audits.ctxErr, "audit context must still be live")
	notifier.mu.Lock()
	sendDeadline, ok := notifier.sendCtx.Deadline()
	notifier.mu.Unlock()
	require.True(t, ok)
	require.True(t, audits.ctxDone.Before(sendDeadline),
		"audit write must not ride on the send context")
}

func TestDispatchInviteRecordsSuccess(t *testing.T) {
	notifier := &fakeNotifier{}
	audits := newFakeAuditRepo()
	d := NewDispatcher(notifier, audits)

	d.DispatchInvite("newhire@example.com", "tok", InviteMeta{CompanyName: "Acme Plumbing", InviteeName: "Sam", Role: models.RoleCompanyStaff})

	entry := awaitRecord(t, audits)
	require.Equal(t, models.NotificationInvite, entry.Kind)
	require.Equal(t, "newhire@example.com", entry.Recipient)
	require.Nil(t, entry.TicketID)
	require.True(t, entry.Success)
	require.Nil(t, entry.Error)
}

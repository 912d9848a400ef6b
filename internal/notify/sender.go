package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

// Sender delivers email via SendGrid and SMS via Twilio. Either client may be
// nil, in which case that channel is skipped with a warning; local dev runs
// without credentials.
type Sender struct {
	sgClient  *sendgrid.Client
	twClient  *twilio.RestClient
	appURL    string
	fromEmail string
	fromPhone string
	orgName   string
	sandbox   bool
}

func NewSender(
	sgClient *sendgrid.Client,
	twClient *twilio.RestClient,
	appURL, fromEmail, fromPhone, orgName string,
	sandbox bool,
) *Sender {
	return &Sender{
		sgClient:  sgClient,
		twClient:  twClient,
		appURL:    appURL,
		fromEmail: fromEmail,
		fromPhone: fromPhone,
		orgName:   orgName,
		sandbox:   sandbox,
	}
}

var _ Notifier = (*Sender)(nil)

func (s *Sender) SendInvite(_ context.Context, email, token string, meta InviteMeta) error {
	link := fmt.Sprintf("%s/invitations/accept?token=%s", s.appURL, token)
	expires := time.Now().UTC().Add(7 * 24 * time.Hour).Format("January 2, 2006")

	subject := fmt.Sprintf("You're invited to %s on Plumbtix", meta.CompanyName)
	plainText := fmt.Sprintf(
		"Hi %s,\n\nYou've been invited to join %s on Plumbtix as a %s.\nAccept here: %s\n\nThis link expires on %s.",
		meta.InviteeName, meta.CompanyName, meta.Role, link, expires,
	)
	htmlBody := fmt.Sprintf(
		inviteEmailHTML,
		meta.CompanyName,
		meta.InviteeName,
		meta.CompanyName,
		meta.Role,
		expires,
		link,
		link,
		time.Now().UTC().Year(),
	)
	return s.sendEmail(meta.InviteeName, email, subject, plainText, htmlBody)
}

func (s *Sender) SendClaim(_ context.Context, email, token string, meta ClaimMeta) error {
	link := fmt.Sprintf("%s/claims/redeem?token=%s", s.appURL, token)

	unitSuffix := ""
	if meta.UnitLabel != "" {
		unitSuffix = fmt.Sprintf(", unit %s", meta.UnitLabel)
	}
	subject := "Claim your Plumbtix resident account"
	plainText := fmt.Sprintf(
		"Hi %s,\n\nYour property manager set up a resident account for %s%s.\nClaim it here: %s",
		meta.OccupantName, meta.BuildingName, unitSuffix, link,
	)
	htmlBody := fmt.Sprintf(
		claimEmailHTML,
		meta.OccupantName,
		meta.BuildingName,
		unitSuffix,
		link,
		link,
		time.Now().UTC().Year(),
	)
	return s.sendEmail(meta.OccupantName, email, subject, plainText, htmlBody)
}

func (s *Sender) NotifyStatusChange(
	_ context.Context,
	ticket *models.Ticket,
	oldStatus, newStatus models.TicketStatus,
	recipientEmail, recipientPhone string,
) error {
	subject := fmt.Sprintf("Work order #%d is now %s", ticket.TicketNumber, newStatus)
	detail := statusDetail(ticket, newStatus)
	plainText := fmt.Sprintf(
		"Your %s work order #%d changed status: %s -> %s.\n%s",
		ticket.IssueType, ticket.TicketNumber, oldStatus, newStatus, detail,
	)

	var firstErr error
	if recipientPhone != "" {
		if s.twClient != nil {
			params := &twilioApi.CreateMessageParams{}
			params.SetTo(recipientPhone)
			params.SetFrom(s.fromPhone)
			params.SetBody(subject + " :: " + plainText)
			if _, smsErr := s.twClient.Api.CreateMessage(params); smsErr != nil {
				utils.Logger.WithError(smsErr).Warnf("Failed to send status SMS for ticket #%d", ticket.TicketNumber)
				firstErr = smsErr
			}
		} else {
			utils.Logger.Warnf("Twilio client is nil, skipping status SMS for ticket #%d", ticket.TicketNumber)
		}
	}

	if recipientEmail != "" {
		htmlBody := fmt.Sprintf(
			statusChangeEmailHTML,
			ticket.TicketNumber,
			ticket.IssueType,
			oldStatus,
			newStatus,
			detail,
			time.Now().UTC().Year(),
		)
		if emailErr := s.sendEmail("", recipientEmail, subject, plainText, htmlBody); emailErr != nil && firstErr == nil {
			firstErr = emailErr
		}
	}
	return firstErr
}

func (s *Sender) sendEmail(toName, toEmail, subject, plainText, htmlBody string) error {
	if s.sgClient == nil {
		utils.Logger.Warnf("SendGrid client is nil, skipping email to %s", toEmail)
		return nil
	}
	from := mail.NewEmail(s.orgName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	msg := mail.NewSingleEmail(from, subject, to, plainText, htmlBody)
	msg.TrackingSettings = &mail.TrackingSettings{
		ClickTracking: &mail.ClickTrackingSetting{
			Enable: utils.Ptr(false),
		},
	}
	if s.sandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}
	if _, sgErr := s.sgClient.Send(msg); sgErr != nil {
		utils.Logger.WithError(sgErr).Warnf("Email send failure to %s", toEmail)
		return sgErr
	}
	return nil
}

func statusDetail(ticket *models.Ticket, newStatus models.TicketStatus) string {
	switch newStatus {
	case models.StatusScheduled:
		if ticket.ScheduledDate != nil {
			return fmt.Sprintf("Scheduled for %s.", ticket.ScheduledDate.Format("Monday, January 2 at 3:04 PM"))
		}
	case models.StatusDispatched:
		if ticket.AssignedTechnician != nil {
			return fmt.Sprintf("%s is on the way.", *ticket.AssignedTechnician)
		}
	case models.StatusCompleted:
		return "The work has been completed. Thank you for your patience."
	case models.StatusCancelled:
		return "This work order has been cancelled. Contact your property manager with any questions."
	}
	return "Log in to Plumbtix for the latest details."
}

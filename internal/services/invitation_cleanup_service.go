package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgconn"

	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

const cleanupRetryDelay = 3 * time.Second

// InvitationCleanupService purges expired, never-accepted invitations each
// night so their dead tokens don't pile up.
type InvitationCleanupService interface {
	CleanupDaily(ctx context.Context) error
}

type invitationCleanupService struct {
	invitations repositories.InvitationRepository
}

func NewInvitationCleanupService(invitations repositories.InvitationRepository) InvitationCleanupService {
	return &invitationCleanupService{invitations: invitations}
}

func (s *invitationCleanupService) CleanupDaily(ctx context.Context) error {
	removed, err := s.invitations.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		// One retry on transient network errors.
		if errors.Is(err, io.EOF) || pgconn.SafeToRetry(err) ||
			strings.Contains(err.Error(), "connection was closed") {
			utils.Logger.WithError(err).Warn("invitation cleanup hit transient DB error; retrying once")
			time.Sleep(cleanupRetryDelay)
			removed, err = s.invitations.DeleteExpired(ctx, time.Now().UTC())
		}
		if err != nil {
			utils.Logger.WithError(err).Error("Failed to purge expired invitations")
			return err
		}
	}
	utils.Logger.Infof("Daily invitation cleanup removed %d expired invitations.", removed)
	return nil
}

package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/authz"
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

const maxTransitionRetries = 3

// Engine validates and applies ticket status transitions. Every accepted
// transition persists the status and appends exactly one status-log row in a
// single transaction inside the ticket repository.
type Engine struct {
	tickets   repositories.TicketRepository
	buildings repositories.BuildingRepository
}

func NewEngine(tickets repositories.TicketRepository, buildings repositories.BuildingRepository) *Engine {
	return &Engine{tickets: tickets, buildings: buildings}
}

// ApplyTransition moves a ticket to newStatus on behalf of the actor. The
// sequence is authorization → transition-table check → atomic persist. A
// concurrent transition on the same ticket loses the row_version race and the
// loop re-reads; if the re-read state no longer permits the move the caller
// gets illegal_transition, so the log stays a single linear history.
func (e *Engine) ApplyTransition(
	ctx context.Context,
	actor authz.CallerContext,
	ticketID uuid.UUID,
	newStatus models.TicketStatus,
	notes *string,
) (*models.Ticket, *models.TicketStatusLog, error) {
	if !models.ValidTicketStatus(newStatus) {
		return nil, nil, utils.ValidationError(fmt.Sprintf("unknown ticket status %q", newStatus))
	}

	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		ticket, err := e.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return nil, nil, utils.InternalError(err)
		}
		if ticket == nil {
			return nil, nil, utils.NotFoundError("ticket not found")
		}

		building, err := e.buildings.GetByID(ctx, ticket.BuildingID)
		if err != nil {
			return nil, nil, utils.InternalError(err)
		}
		if building == nil {
			return nil, nil, utils.NotFoundError("ticket not found")
		}

		ref := authz.ResourceRef{
			Type:            authz.ResourceTicket,
			ID:              ticket.ID,
			CompanyID:       &building.CompanyID,
			BuildingID:      &ticket.BuildingID,
			SpaceID:         &ticket.SpaceID,
			CreatedByUserID: &ticket.CreatedByUserID,
		}
		if d := authz.Decide(actor, authz.ActionTransition, ref); !d.Allowed {
			if d.Conceal {
				return nil, nil, utils.NotFoundError("ticket not found")
			}
			return nil, nil, utils.ForbiddenError(d.Reason)
		}

		if !CanTransition(actor.Role, ticket.Status, newStatus) {
			return nil, nil, utils.IllegalTransitionError(fmt.Sprintf(
				"transition from %s to %s is not permitted for role %s",
				ticket.Status, newStatus, actor.Role,
			))
		}

		updated, logEntry, err := e.tickets.TransitionStatusAtomic(
			ctx, ticket.ID, ticket.RowVersion, newStatus, actor.UserID, notes,
		)
		if err != nil {
			if errors.Is(err, utils.ErrRowVersionConflict) {
				continue // someone else transitioned first; re-evaluate
			}
			return nil, nil, utils.InternalError(err)
		}
		return updated, logEntry, nil
	}

	return nil, nil, utils.NewAppError(
		http.StatusConflict, utils.ErrCodeRowVersionConflict,
		"ticket was modified concurrently, please retry", utils.ErrRowVersionConflict,
	)
}

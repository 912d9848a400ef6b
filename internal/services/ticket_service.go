package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/authz"
	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/notify"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
	"github.com/marcobasurco/Plumbtix-sub001/internal/workflow"
)

type TicketService struct {
	tickets    repositories.TicketRepository
	statusLogs repositories.StatusLogRepository
	buildings  repositories.BuildingRepository
	spaces     repositories.SpaceRepository
	users      repositories.UserRepository
	engine     *workflow.Engine
	dispatcher *notify.Dispatcher
}

func NewTicketService(
	tickets repositories.TicketRepository,
	statusLogs repositories.StatusLogRepository,
	buildings repositories.BuildingRepository,
	spaces repositories.SpaceRepository,
	users repositories.UserRepository,
	engine *workflow.Engine,
	dispatcher *notify.Dispatcher,
) *TicketService {
	return &TicketService{
		tickets:    tickets,
		statusLogs: statusLogs,
		buildings:  buildings,
		spaces:     spaces,
		users:      users,
		engine:     engine,
		dispatcher: dispatcher,
	}
}

func (s *TicketService) ticketRef(ctx context.Context, t *models.Ticket) (authz.ResourceRef, error) {
	building, err := s.buildings.GetByID(ctx, t.BuildingID)
	if err != nil {
		return authz.ResourceRef{}, utils.InternalError(err)
	}
	if building == nil {
		return authz.ResourceRef{}, utils.NotFoundError("ticket not found")
	}
	return authz.ResourceRef{
		Type:            authz.ResourceTicket,
		ID:              t.ID,
		CompanyID:       &building.CompanyID,
		BuildingID:      &t.BuildingID,
		SpaceID:         &t.SpaceID,
		CreatedByUserID: &t.CreatedByUserID,
	}, nil
}

// CreateTicket opens a work order in status new and writes the creation
// status-log row in the same transaction.
func (s *TicketService) CreateTicket(ctx context.Context, actor authz.CallerContext, req dtos.CreateTicketRequest) (*models.Ticket, error) {
	space, err := s.spaces.GetByID(ctx, req.SpaceID)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if space == nil {
		return nil, utils.NotFoundError("space not found")
	}
	if space.BuildingID != req.BuildingID {
		return nil, utils.ValidationError("space does not belong to the given building")
	}
	building, _, err := buildingRef(ctx, s.buildings, space.BuildingID)
	if err != nil {
		return nil, err
	}
	if !models.ValidSeverity(req.Severity) {
		return nil, utils.ValidationError("severity must be emergency, urgent or standard")
	}

	ref := authz.ResourceRef{
		Type:            authz.ResourceTicket,
		CompanyID:       &building.CompanyID,
		BuildingID:      &building.ID,
		SpaceID:         &space.ID,
		CreatedByUserID: &actor.UserID,
	}
	if err := require(actor, authz.ActionCreate, ref, "space"); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		ID:              uuid.New(),
		BuildingID:      building.ID,
		SpaceID:         space.ID,
		CreatedByUserID: actor.UserID,
		IssueType:       req.IssueType,
		Severity:        req.Severity,
		Status:          models.StatusNew,
		Description:     req.Description,
	}
	if err := s.tickets.CreateWithLog(ctx, ticket); err != nil {
		return nil, utils.InternalError(err)
	}
	return ticket, nil
}

func (s *TicketService) GetTicket(ctx context.Context, actor authz.CallerContext, id uuid.UUID) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if ticket == nil {
		return nil, utils.NotFoundError("ticket not found")
	}
	ref, err := s.ticketRef(ctx, ticket)
	if err != nil {
		return nil, err
	}
	if err := require(actor, authz.ActionRead, ref, "ticket"); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListTickets scopes the result set before the query runs: admins get their
// company, staff their entitled buildings (possibly none), residents only
// tickets they created.
func (s *TicketService) ListTickets(ctx context.Context, actor authz.CallerContext, q dtos.ListTicketsQuery) ([]*models.Ticket, error) {
	filter := repositories.TicketFilter{Status: q.Status}

	switch actor.Role {
	case models.RolePlatformAdmin:
		// Unscoped; optional building narrowing below.
	case models.RoleCompanyAdmin:
		if actor.CompanyID == nil {
			return []*models.Ticket{}, nil
		}
		filter.CompanyID = actor.CompanyID
	case models.RoleCompanyStaff:
		// Always a non-nil slice: an empty entitlement set must stay empty
		// even when a building_id filter is requested.
		filter.ScopeToBuildings = true
		filter.BuildingIDs = append(make([]uuid.UUID, 0, len(actor.EntitledBuildingIDs)), actor.EntitledBuildingIDs...)
	case models.RoleResident:
		filter.CreatedByUserID = &actor.UserID
	default:
		return nil, utils.ForbiddenError("ticket access denied")
	}

	if q.BuildingID != nil {
		filter.ScopeToBuildings = true
		if filter.BuildingIDs == nil {
			filter.BuildingIDs = []uuid.UUID{*q.BuildingID}
		} else {
			// Intersect the requested building with the entitled set.
			narrowed := filter.BuildingIDs[:0]
			for _, id := range filter.BuildingIDs {
				if id == *q.BuildingID {
					narrowed = append(narrowed, id)
				}
			}
			filter.BuildingIDs = narrowed
		}
	}

	out, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	return out, nil
}

// UpdateTicket touches descriptive fields only; status is the workflow
// engine's business.
func (s *TicketService) UpdateTicket(ctx context.Context, actor authz.CallerContext, id uuid.UUID, req dtos.UpdateTicketRequest) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if ticket == nil {
		return nil, utils.NotFoundError("ticket not found")
	}
	ref, err := s.ticketRef(ctx, ticket)
	if err != nil {
		return nil, err
	}
	if err := require(actor, authz.ActionUpdate, ref, "ticket"); err != nil {
		return nil, err
	}

	if err := s.tickets.UpdateWithRetry(ctx, id, func(t *models.Ticket) error {
		if req.IssueType != nil {
			t.IssueType = *req.IssueType
		}
		if req.Severity != nil {
			t.Severity = *req.Severity
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.AssignedTechnician != nil {
			t.AssignedTechnician = req.AssignedTechnician
		}
		if req.ScheduledDate != nil {
			t.ScheduledDate = req.ScheduledDate
		}
		if req.QuoteAmount != nil {
			t.QuoteAmount = req.QuoteAmount
		}
		if req.InvoiceNumber != nil {
			t.InvoiceNumber = req.InvoiceNumber
		}
		return nil
	}); err != nil {
		return nil, utils.InternalError(err)
	}
	return s.tickets.GetByID(ctx, id)
}

// TransitionTicket applies the status move through the workflow engine, then
// notifies the ticket creator after commit.
func (s *TicketService) TransitionTicket(ctx context.Context, actor authz.CallerContext, id uuid.UUID, req dtos.TransitionTicketRequest) (*models.Ticket, *models.TicketStatusLog, error) {
	ticket, logEntry, err := s.engine.ApplyTransition(ctx, actor, id, req.NewStatus, req.Notes)
	if err != nil {
		return nil, nil, err
	}

	if logEntry.OldStatus != nil && ticket.CreatedByUserID != actor.UserID {
		creator, lookupErr := s.users.GetByID(ctx, ticket.CreatedByUserID)
		if lookupErr != nil {
			utils.Logger.WithError(lookupErr).Warnf("Could not load creator of ticket #%d for notification", ticket.TicketNumber)
		} else if creator != nil {
			phone := ""
			if creator.Phone != nil {
				phone = *creator.Phone
			}
			s.dispatcher.DispatchStatusChange(ticket, *logEntry.OldStatus, logEntry.NewStatus, creator.Email, phone)
		}
	}
	return ticket, logEntry, nil
}

// TicketHistory returns the full status-log path, oldest first. Anyone who can
// read the ticket can read its history.
func (s *TicketService) TicketHistory(ctx context.Context, actor authz.CallerContext, id uuid.UUID) ([]*models.TicketStatusLog, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	if ticket == nil {
		return nil, utils.NotFoundError("ticket not found")
	}
	ref, err := s.ticketRef(ctx, ticket)
	if err != nil {
		return nil, err
	}
	ref.Type = authz.ResourceTicketStatusLog
	if err := require(actor, authz.ActionRead, ref, "ticket"); err != nil {
		return nil, err
	}

	out, err := s.statusLogs.ListByTicketID(ctx, id)
	if err != nil {
		return nil, utils.InternalError(err)
	}
	return out, nil
}

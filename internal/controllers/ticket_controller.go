package controllers

import (
	"net/http"

	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/identity"
	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/services"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type TicketController struct {
	tickets  *services.TicketService
	resolver *identity.Resolver
}

func NewTicketController(tickets *services.TicketService, resolver *identity.Resolver) *TicketController {
	return &TicketController{tickets: tickets, resolver: resolver}
}

// CreateHandler => POST /api/v1/tickets
func (c *TicketController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	var req dtos.CreateTicketRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ticket, err := c.tickets.CreateTicket(r.Context(), caller, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, ticket)
}

// GetHandler => GET /api/v1/tickets/{id}
func (c *TicketController) GetHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ticket, err := c.tickets.GetTicket(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, ticket)
}

// ListHandler => GET /api/v1/tickets?status=&building_id=
func (c *TicketController) ListHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	buildingID, ok := queryUUID(w, r, "building_id")
	if !ok {
		return
	}

	var q dtos.ListTicketsQuery
	q.BuildingID = buildingID
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.TicketStatus(raw)
		if !models.ValidTicketStatus(status) {
			utils.RespondError(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Unknown status query parameter")
			return
		}
		q.Status = &status
	}

	tickets, err := c.tickets.ListTickets(r.Context(), caller, q)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, tickets)
}

// UpdateHandler => PATCH /api/v1/tickets/{id}
// Descriptive fields only; status changes go through TransitionHandler.
func (c *TicketController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateTicketRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ticket, err := c.tickets.UpdateTicket(r.Context(), caller, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, ticket)
}

// TransitionHandler => POST /api/v1/tickets/{id}/transition
func (c *TicketController) TransitionHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.TransitionTicketRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ticket, logEntry, err := c.tickets.TransitionTicket(r.Context(), caller, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, dtos.TransitionTicketResponse{Ticket: ticket, Log: logEntry})
}

// HistoryHandler => GET /api/v1/tickets/{id}/history
func (c *TicketController) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	history, err := c.tickets.TicketHistory(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, history)
}

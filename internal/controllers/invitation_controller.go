package controllers

import (
	"net/http"

	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/identity"
	"github.com/marcobasurco/Plumbtix-sub001/internal/services"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type InvitationController struct {
	invitations *services.InvitationService
	resolver    *identity.Resolver
}

func NewInvitationController(invitations *services.InvitationService, resolver *identity.Resolver) *InvitationController {
	return &InvitationController{invitations: invitations, resolver: resolver}
}

// CreateHandler => POST /api/v1/invitations
func (c *InvitationController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	var req dtos.CreateInvitationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inv, err := c.invitations.CreateInvitation(r.Context(), caller, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, inv)
}

// ListHandler => GET /api/v1/invitations?company_id=
func (c *InvitationController) ListHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	companyID, ok := queryUUID(w, r, "company_id")
	if !ok {
		return
	}

	invitations, err := c.invitations.ListInvitations(r.Context(), caller, companyID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, invitations)
}

// ResendHandler => POST /api/v1/invitations/{id}/resend
// Rotates the token; the previous link dies immediately.
func (c *InvitationController) ResendHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.ResendInvitationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inv, err := c.invitations.ResendInvitation(r.Context(), caller, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, inv)
}

// RevokeHandler => DELETE /api/v1/invitations/{id}
func (c *InvitationController) RevokeHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := c.invitations.RevokeInvitation(r.Context(), caller, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]string{"id": id.String()})
}

// RedeemHandler => POST /api/v1/invitations/redeem (public)
func (c *InvitationController) RedeemHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RedeemInvitationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := c.invitations.RedeemInvitation(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, user)
}

package controllers

import (
	"net/http"

	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/identity"
	"github.com/marcobasurco/Plumbtix-sub001/internal/services"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type OccupantController struct {
	occupants *services.OccupantService
	resolver  *identity.Resolver
}

func NewOccupantController(occupants *services.OccupantService, resolver *identity.Resolver) *OccupantController {
	return &OccupantController{occupants: occupants, resolver: resolver}
}

// CreateHandler => POST /api/v1/occupants
func (c *OccupantController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	var req dtos.CreateOccupantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	occ, err := c.occupants.CreateOccupant(r.Context(), caller, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, occ)
}

// GetHandler => GET /api/v1/occupants/{id}
func (c *OccupantController) GetHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	occ, err := c.occupants.GetOccupant(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, occ)
}

// ListHandler => GET /api/v1/occupants?space_id=
func (c *OccupantController) ListHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	spaceID, ok := queryUUID(w, r, "space_id")
	if !ok {
		return
	}
	if spaceID == nil {
		utils.RespondError(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "space_id query parameter is required")
		return
	}

	occupants, err := c.occupants.ListOccupants(r.Context(), caller, *spaceID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, occupants)
}

// UpdateHandler => PATCH /api/v1/occupants/{id}
func (c *OccupantController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateOccupantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	occ, err := c.occupants.UpdateOccupant(r.Context(), caller, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, occ)
}

// DeleteHandler => DELETE /api/v1/occupants/{id}
func (c *OccupantController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := c.occupants.DeleteOccupant(r.Context(), caller, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]string{"id": id.String()})
}

// InviteHandler => POST /api/v1/occupants/{id}/invite
// Issues (or reissues) a claim token and sends the claim email.
func (c *OccupantController) InviteHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	occ, err := c.occupants.InviteOccupant(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, occ)
}

// RedeemClaimHandler => POST /api/v1/claims/redeem (public)
func (c *OccupantController) RedeemClaimHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RedeemClaimRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, occ, err := c.occupants.RedeemClaim(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, dtos.ClaimRedeemedResponse{User: user, Occupant: occ})
}

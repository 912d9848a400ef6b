package controllers

import (
	"net/http"

	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/identity"
	"github.com/marcobasurco/Plumbtix-sub001/internal/services"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type EntitlementController struct {
	entitlements *services.EntitlementService
	resolver     *identity.Resolver
}

func NewEntitlementController(entitlements *services.EntitlementService, resolver *identity.Resolver) *EntitlementController {
	return &EntitlementController{entitlements: entitlements, resolver: resolver}
}

// GrantHandler => POST /api/v1/entitlements
func (c *EntitlementController) GrantHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	var req dtos.GrantEntitlementRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ent, err := c.entitlements.Grant(r.Context(), caller, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, ent)
}

// ListHandler => GET /api/v1/entitlements?company_id=
func (c *EntitlementController) ListHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	companyID, ok := queryUUID(w, r, "company_id")
	if !ok {
		return
	}

	entitlements, err := c.entitlements.List(r.Context(), caller, companyID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, entitlements)
}

// RevokeHandler => DELETE /api/v1/entitlements/{id}
// Revoking twice is fine; the second call is a no-op success.
func (c *EntitlementController) RevokeHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := c.entitlements.Revoke(r.Context(), caller, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]string{"id": id.String()})
}

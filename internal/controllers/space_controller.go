package controllers

import (
	"net/http"

	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/identity"
	"github.com/marcobasurco/Plumbtix-sub001/internal/services"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type SpaceController struct {
	spaces   *services.SpaceService
	resolver *identity.Resolver
}

func NewSpaceController(spaces *services.SpaceService, resolver *identity.Resolver) *SpaceController {
	return &SpaceController{spaces: spaces, resolver: resolver}
}

// CreateHandler => POST /api/v1/spaces
func (c *SpaceController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	var req dtos.CreateSpaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	space, err := c.spaces.CreateSpace(r.Context(), caller, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, space)
}

// GetHandler => GET /api/v1/spaces/{id}
func (c *SpaceController) GetHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	space, err := c.spaces.GetSpace(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, space)
}

// ListHandler => GET /api/v1/spaces?building_id=
func (c *SpaceController) ListHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	buildingID, ok := queryUUID(w, r, "building_id")
	if !ok {
		return
	}
	if buildingID == nil {
		utils.RespondError(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "building_id query parameter is required")
		return
	}

	spaces, err := c.spaces.ListSpaces(r.Context(), caller, *buildingID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, spaces)
}

// UpdateHandler => PATCH /api/v1/spaces/{id}
func (c *SpaceController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateSpaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	space, err := c.spaces.UpdateSpace(r.Context(), caller, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, space)
}

// DeleteHandler => DELETE /api/v1/spaces/{id}
func (c *SpaceController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := c.spaces.DeleteSpace(r.Context(), caller, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]string{"id": id.String()})
}

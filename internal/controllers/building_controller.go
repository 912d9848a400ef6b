package controllers

import (
	"net/http"

	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/identity"
	"github.com/marcobasurco/Plumbtix-sub001/internal/services"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type BuildingController struct {
	buildings *services.BuildingService
	resolver  *identity.Resolver
}

func NewBuildingController(buildings *services.BuildingService, resolver *identity.Resolver) *BuildingController {
	return &BuildingController{buildings: buildings, resolver: resolver}
}

// CreateHandler => POST /api/v1/buildings
func (c *BuildingController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	var req dtos.CreateBuildingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	building, err := c.buildings.CreateBuilding(r.Context(), caller, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, building)
}

// GetHandler => GET /api/v1/buildings/{id}
func (c *BuildingController) GetHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	building, err := c.buildings.GetBuilding(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, building)
}

// ListHandler => GET /api/v1/buildings?company_id=
func (c *BuildingController) ListHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	companyID, ok := queryUUID(w, r, "company_id")
	if !ok {
		return
	}

	buildings, err := c.buildings.ListBuildings(r.Context(), caller, companyID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, buildings)
}

// UpdateHandler => PATCH /api/v1/buildings/{id}
func (c *BuildingController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateBuildingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	building, err := c.buildings.UpdateBuilding(r.Context(), caller, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, building)
}

// DeleteHandler => DELETE /api/v1/buildings/{id}
func (c *BuildingController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := c.buildings.DeleteBuilding(r.Context(), caller, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]string{"id": id.String()})
}

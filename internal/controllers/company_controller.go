package controllers

import (
	"net/http"

	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/identity"
	"github.com/marcobasurco/Plumbtix-sub001/internal/services"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type CompanyController struct {
	companies *services.CompanyService
	resolver  *identity.Resolver
}

func NewCompanyController(companies *services.CompanyService, resolver *identity.Resolver) *CompanyController {
	return &CompanyController{companies: companies, resolver: resolver}
}

// CreateHandler => POST /api/v1/companies
func (c *CompanyController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	var req dtos.CreateCompanyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	company, err := c.companies.CreateCompany(r.Context(), caller, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, company)
}

// GetHandler => GET /api/v1/companies/{id}
func (c *CompanyController) GetHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	company, err := c.companies.GetCompany(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, company)
}

// ListHandler => GET /api/v1/companies
func (c *CompanyController) ListHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}

	companies, err := c.companies.ListCompanies(r.Context(), caller)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, companies)
}

// UpdateHandler => PATCH /api/v1/companies/{id}
func (c *CompanyController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateCompanyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	company, err := c.companies.UpdateCompany(r.Context(), caller, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, company)
}

// DeleteHandler => DELETE /api/v1/companies/{id}
func (c *CompanyController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := c.companies.DeleteCompany(r.Context(), caller, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]string{"id": id.String()})
}

package controllers

import (
	"net/http"

	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/identity"
	"github.com/marcobasurco/Plumbtix-sub001/internal/services"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type UserController struct {
	users    *services.UserService
	resolver *identity.Resolver
}

func NewUserController(users *services.UserService, resolver *identity.Resolver) *UserController {
	return &UserController{users: users, resolver: resolver}
}

// CreateHandler => POST /api/v1/users
func (c *UserController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	var req dtos.CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := c.users.CreateUser(r.Context(), caller, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, user)
}

// GetHandler => GET /api/v1/users/{id}
func (c *UserController) GetHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := c.users.GetUser(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, user)
}

// ListHandler => GET /api/v1/users?company_id=
func (c *UserController) ListHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	companyID, ok := queryUUID(w, r, "company_id")
	if !ok {
		return
	}

	users, err := c.users.ListUsers(r.Context(), caller, companyID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, users)
}

// UpdateHandler => PATCH /api/v1/users/{id}
func (c *UserController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := c.users.UpdateUser(r.Context(), caller, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, user)
}

// DeleteHandler => DELETE /api/v1/users/{id}
func (c *UserController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := resolveCaller(w, r, c.resolver)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := c.users.DeleteUser(r.Context(), caller, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]string{"id": id.String()})
}

package controllers

import (
	"net/http"

	"github.com/marcobasurco/Plumbtix-sub001/internal/dtos"
	"github.com/marcobasurco/Plumbtix-sub001/internal/services"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// LoginHandler => POST /api/v1/auth/login (public)
func (c *AuthController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := c.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, dtos.LoginResponse{AccessToken: token, User: user})
}

package controllers

import (
	"context"
	"net/http"

	"github.com/marcobasurco/Plumbtix-sub001/internal/app"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type HealthController struct {
	app *app.App
}

func NewHealthController(app *app.App) *HealthController {
	return &HealthController{app}
}

// HealthCheckHandler => GET /health
func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.app.DB.Ping(context.Background()); err != nil {
		utils.Logger.WithError(err).Error("Database unreachable")
		utils.RespondError(w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Database unreachable", err)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]string{"status": "OK"})
}

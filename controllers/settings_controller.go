package controllers

import (
	"context"
	"time"

	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/labstack/echo/v4"
)

type SettingsManager interface {
	Get(ctx context.Context) (*models.SystemSettings, error)
	Update(ctx context.Context, req models.SettingsUpdateRequest) (*models.SystemSettings, error)
	UpdateSupervisorReset(ctx context.Context, req models.SupervisorResetRequest) (*models.SystemSettings, error)
}

// ResetClock reports when the supervisor reset job fires next.
type ResetClock interface {
	NextReset() time.Time
}

type SettingsController struct {
	settings SettingsManager
	clock    ResetClock
}

func NewSettingsController(settings SettingsManager, clock ResetClock) *SettingsController {
	return &SettingsController{settings: settings, clock: clock}
}

// GetSettings handles GET /api/settings and /api/system-settings
func (sc *SettingsController) GetSettings(c echo.Context) error {
	s, err := sc.settings.Get(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Settings retrieved successfully", s)
}

// UpdateSettings handles PUT /api/settings and /api/system-settings
func (sc *SettingsController) UpdateSettings(c echo.Context) error {
	var req models.SettingsUpdateRequest
	if err := bindRequest(c, &req); err != nil {
		return fail(c, err)
	}
	s, err := sc.settings.Update(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Settings updated successfully", s)
}

// UpdateSupervisorReset handles PUT /api/system-settings/supervisor-reset
func (sc *SettingsController) UpdateSupervisorReset(c echo.Context) error {
	var req models.SupervisorResetRequest
	if err := bindRequest(c, &req); err != nil {
		return fail(c, err)
	}
	s, err := sc.settings.UpdateSupervisorReset(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}
	data := map[string]interface{}{"settings": s}
	if sc.clock != nil {
		if next := sc.clock.NextReset(); !next.IsZero() {
			data["nextReset"] = next
		}
	}
	return respondOK(c, "Supervisor reset schedule updated successfully", data)
}

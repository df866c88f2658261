package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/tellerdesk_backend/controllers"
	"github.com/HSouheill/tellerdesk_backend/middleware"
)

// RegisterSettingsRoutes serves the settings singleton under both of its
// historical paths.
func RegisterSettingsRoutes(api *echo.Group, sc *controllers.SettingsController) {
	adminOnly := middleware.RequireUserType(middleware.AdminRoles...)

	for _, prefix := range []string{"/settings", "/system-settings"} {
		g := api.Group(prefix)
		g.GET("", sc.GetSettings)
		g.PUT("", sc.UpdateSettings, adminOnly)
	}
	api.PUT("/system-settings/supervisor-reset", sc.UpdateSupervisorReset, adminOnly)
}

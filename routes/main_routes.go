package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/tellerdesk_backend/controllers"
	"github.com/HSouheill/tellerdesk_backend/middleware"
	"github.com/HSouheill/tellerdesk_backend/websocket"
)

// Controllers bundles every HTTP handler the API serves.
type Controllers struct {
	Settings      *controllers.SettingsController
	Payroll       *controllers.PayrollController
	Capital       *controllers.CapitalController
	Shift         *controllers.ShiftController
	TellerReport  *controllers.TellerReportController
	ShortPayment  *controllers.ShortPaymentController
	Notifications *controllers.NotificationController
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, jwtSecret string, hub *websocket.Hub, h Controllers) {
	e.Match([]string{http.MethodGet, http.MethodHead}, "/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"clients": hub.ClientCount(),
		})
	})

	// Connections authenticate after the upgrade with an AUTH:<jwt> message.
	e.GET("/api/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(c, hub, middleware.WebSocketTokenParser(jwtSecret))
	})

	api := e.Group("/api")
	api.Use(middleware.JWTMiddleware(jwtSecret))
	api.Use(middleware.JSONBody())

	RegisterSettingsRoutes(api, h.Settings)
	RegisterPayrollRoutes(api, h.Payroll)
	RegisterCapitalRoutes(api, h.Capital)
	RegisterShiftRoutes(api, h.Shift, h.TellerReport, h.ShortPayment)
	RegisterNotificationRoutes(api, h.Notifications)
}

package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/tellerdesk_backend/controllers"
)

// RegisterNotificationRoutes registers all notification-related routes
func RegisterNotificationRoutes(api *echo.Group, nc *controllers.NotificationController) {
	g := api.Group("/notifications")
	g.GET("", nc.ListNotifications)
	g.PUT("/read-all", nc.MarkRead)
	g.PUT("/:id/read", nc.MarkRead)

	api.POST("/users/fcm-token", nc.UpdateUserFCMToken)
}

package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/tellerdesk_backend/controllers"
	"github.com/HSouheill/tellerdesk_backend/middleware"
)

// RegisterCapitalRoutes registers teller float routes. Supervisors issue and
// collect capital; only admins may delete it.
func RegisterCapitalRoutes(api *echo.Group, cc *controllers.CapitalController) {
	supervisors := middleware.RequireUserType(middleware.SupervisorRoles...)

	g := api.Group("/capital")
	g.POST("", cc.AddCapital, supervisors)
	g.POST("/additional", cc.AddAdditional, supervisors)
	g.POST("/remit", cc.Remit, supervisors)
	g.GET("/active/:tellerId", cc.GetActive, middleware.RequireSelfOrRole("tellerId", middleware.SupervisorRoles...))
	g.GET("/history/:tellerId", cc.GetHistory, middleware.RequireSelfOrRole("tellerId", middleware.SupervisorRoles...))
	g.DELETE("/:tellerId", cc.DeleteCapital, middleware.RequireUserType(middleware.AdminRoles...))
}

package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/tellerdesk_backend/controllers"
	"github.com/HSouheill/tellerdesk_backend/middleware"
)

// RegisterShiftRoutes registers the day-to-day teller floor routes: shifts,
// end-of-day reports and short repayment plans.
func RegisterShiftRoutes(api *echo.Group, sc *controllers.ShiftController, tc *controllers.TellerReportController, spc *controllers.ShortPaymentController) {
	supervisors := middleware.RequireUserType(middleware.SupervisorRoles...)

	shifts := api.Group("/shift")
	shifts.GET("/today/:userId", sc.GetToday, middleware.RequireSelfOrRole("userId", middleware.SupervisorRoles...))
	shifts.POST("/set", sc.SetShift, supervisors)
	shifts.GET("/history/:userId", sc.GetHistory, middleware.RequireSelfOrRole("userId", middleware.SupervisorRoles...))

	reports := api.Group("/teller-reports")
	reports.POST("", tc.SubmitReport, supervisors)
	reports.GET("/:tellerId", tc.ListReports, middleware.RequireSelfOrRole("tellerId", middleware.SupervisorRoles...))

	shorts := api.Group("/short-payments")
	shorts.POST("/collect", spc.CollectDue, middleware.RequireUserType(middleware.AdminRoles...))
	shorts.GET("/:userId", spc.ListPlans, middleware.RequireSelfOrRole("userId", middleware.AdminRoles...))
}

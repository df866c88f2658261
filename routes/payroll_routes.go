package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/tellerdesk_backend/controllers"
	"github.com/HSouheill/tellerdesk_backend/middleware"
)

// RegisterPayrollRoutes registers payroll routes. Reads are open to every
// authenticated user (the controller scopes non-admins to their own
// payrolls); every write is admin-only.
func RegisterPayrollRoutes(api *echo.Group, pc *controllers.PayrollController) {
	adminOnly := middleware.RequireUserType(middleware.AdminRoles...)

	g := api.Group("/payroll")

	// Static paths before /:id
	g.GET("", pc.ListPayrolls)
	g.GET("/export", pc.ExportPayrolls, adminOnly)
	g.GET("/balance/:userId", pc.GetBalance, middleware.RequireSelfOrRole("userId", middleware.AdminRoles...))
	g.POST("/withdraw", pc.Withdraw, adminOnly)
	g.POST("/reconcile", pc.Reconcile, adminOnly)

	g.GET("/:id", pc.GetPayroll)
	g.GET("/:id/payslip", pc.GetPayslip)
	g.POST("/:id/adjust", pc.AdjustPayroll, adminOnly)
	g.POST("/:id/override", pc.OverridePayroll, adminOnly)
	g.PUT("/:id/base-salary", pc.SetBaseSalary, adminOnly)
	g.PUT("/:id/approve", pc.ApprovePayroll, adminOnly)
	g.PUT("/:id/disapprove", pc.DisapprovePayroll, adminOnly)
	g.PUT("/:id/lock", pc.LockPayroll, adminOnly)
	g.PUT("/:id/unlock", pc.UnlockPayroll, adminOnly)
	g.POST("/:id/deduction", pc.AddDeduction, adminOnly)
	g.POST("/:id/advance", pc.CashAdvance, adminOnly)
	g.DELETE("/:id", pc.DeletePayroll, adminOnly)
}

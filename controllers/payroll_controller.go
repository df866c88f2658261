package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/middleware"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/services"
	"github.com/HSouheill/tellerdesk_backend/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PayrollManager interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error)
	List(ctx context.Context, f models.PayrollFilter) ([]models.Payroll, error)
	Adjust(ctx context.Context, id, adminID primitive.ObjectID, req models.AdjustPayrollRequest) (*models.Payroll, error)
	Override(ctx context.Context, id, adminID primitive.ObjectID, req models.AdjustPayrollRequest) (*models.Payroll, error)
	SetBaseSalary(ctx context.Context, id primitive.ObjectID, base float64) (*models.Payroll, error)
	Approve(ctx context.Context, id, adminID primitive.ObjectID) (*models.Payroll, error)
	Disapprove(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error)
	Lock(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error)
	Unlock(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error)
	AddDeduction(ctx context.Context, id primitive.ObjectID, amount float64) (*models.Payroll, error)
	CashAdvance(ctx context.Context, id primitive.ObjectID, amount float64) (*models.Payroll, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AvailableBalance(ctx context.Context, userID primitive.ObjectID) (*models.PayrollBalance, error)
	Withdraw(ctx context.Context, userID, adminID primitive.ObjectID) (*models.Withdrawal, error)
}

type PayrollExporter interface {
	PayrollWorkbook(ctx context.Context, f models.PayrollFilter) ([]byte, error)
}

type PayslipRenderer interface {
	Payslip(ctx context.Context, id primitive.ObjectID) ([]byte, error)
}

type Reconciler interface {
	Run(ctx context.Context, req models.ReconcileRequest) (*services.ReconcileResult, error)
}

type AdminMailer interface {
	EmailAdmin(subject, body string) error
}

type PayrollController struct {
	payrolls  PayrollManager
	exporter  PayrollExporter
	payslips  PayslipRenderer
	reconcile Reconciler
	mailer    AdminMailer
}

func NewPayrollController(payrolls PayrollManager, exporter PayrollExporter, payslips PayslipRenderer, reconcile Reconciler, mailer AdminMailer) *PayrollController {
	return &PayrollController{
		payrolls:  payrolls,
		exporter:  exporter,
		payslips:  payslips,
		reconcile: reconcile,
		mailer:    mailer,
	}
}

// filterFromQuery reads ?userId&from&to&approved&withdrawn&locked&limit.
// Non-admins only ever see their own payrolls.
func filterFromQuery(c echo.Context) (models.PayrollFilter, error) {
	f := models.PayrollFilter{
		From:      c.QueryParam("from"),
		To:        c.QueryParam("to"),
		Approved:  utils.BoolQuery(c, "approved"),
		Withdrawn: utils.BoolQuery(c, "withdrawn"),
		Locked:    utils.BoolQuery(c, "locked"),
		Limit:     utils.LimitQuery(c),
	}
	if raw := c.QueryParam("userId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return f, apperror.Invalid("invalid userId")
		}
		f.UserID = &id
	}
	if !isAdmin(c) {
		self := middleware.ActorID(c)
		f.UserID = &self
	}
	return f, nil
}

// ListPayrolls handles GET /api/payroll
func (pc *PayrollController) ListPayrolls(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return fail(c, err)
	}
	list, err := pc.payrolls.List(c.Request().Context(), f)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Payrolls retrieved successfully", list)
}

// GetPayroll handles GET /api/payroll/:id
func (pc *PayrollController) GetPayroll(c echo.Context) error {
	id, err := utils.ObjectIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	p, err := pc.payrolls.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if !isAdmin(c) && p.User != middleware.ActorID(c) {
		return fail(c, apperror.ErrPayrollNotFound)
	}
	return respondOK(c, "Payroll retrieved successfully", p)
}

// AdjustPayroll handles POST /api/payroll/:id/adjust
func (pc *PayrollController) AdjustPayroll(c echo.Context) error {
	return pc.adjust(c, pc.payrolls.Adjust, "Payroll adjusted successfully")
}

// OverridePayroll handles POST /api/payroll/:id/override
func (pc *PayrollController) OverridePayroll(c echo.Context) error {
	return pc.adjust(c, pc.payrolls.Override, "Payroll overridden successfully")
}

func (pc *PayrollController) adjust(c echo.Context, apply func(context.Context, primitive.ObjectID, primitive.ObjectID, models.AdjustPayrollRequest) (*models.Payroll, error), message string) error {
	id, err := utils.ObjectIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req models.AdjustPayrollRequest
	if err := bindRequest(c, &req); err != nil {
		return fail(c, err)
	}
	req.Reason = utils.SanitizeInput(req.Reason)
	p, err := apply(c.Request().Context(), id, middleware.ActorID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, message, p)
}

// SetBaseSalary handles PUT /api/payroll/:id/base-salary
func (pc *PayrollController) SetBaseSalary(c echo.Context) error {
	id, err := utils.ObjectIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req models.SetBaseSalaryRequest
	if err := bindRequest(c, &req); err != nil {
		return fail(c, err)
	}
	p, err := pc.payrolls.SetBaseSalary(c.Request().Context(), id, *req.BaseSalary)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Base salary updated successfully", p)
}

// ApprovePayroll handles PUT /api/payroll/:id/approve
func (pc *PayrollController) ApprovePayroll(c echo.Context) error {
	id, err := utils.ObjectIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	p, err := pc.payrolls.Approve(c.Request().Context(), id, middleware.ActorID(c))
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Payroll approved successfully", p)
}

// DisapprovePayroll handles PUT /api/payroll/:id/disapprove
func (pc *PayrollController) DisapprovePayroll(c echo.Context) error {
	return pc.transition(c, pc.payrolls.Disapprove, "Payroll disapproved successfully")
}

// LockPayroll handles PUT /api/payroll/:id/lock
func (pc *PayrollController) LockPayroll(c echo.Context) error {
	return pc.transition(c, pc.payrolls.Lock, "Payroll locked successfully")
}

// UnlockPayroll handles PUT /api/payroll/:id/unlock
func (pc *PayrollController) UnlockPayroll(c echo.Context) error {
	return pc.transition(c, pc.payrolls.Unlock, "Payroll unlocked successfully")
}

func (pc *PayrollController) transition(c echo.Context, apply func(context.Context, primitive.ObjectID) (*models.Payroll, error), message string) error {
	id, err := utils.ObjectIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	p, err := apply(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, message, p)
}

// AddDeduction handles POST /api/payroll/:id/deduction
func (pc *PayrollController) AddDeduction(c echo.Context) error {
	return pc.amount(c, pc.payrolls.AddDeduction, "Deduction recorded successfully")
}

// CashAdvance handles POST /api/payroll/:id/advance
func (pc *PayrollController) CashAdvance(c echo.Context) error {
	return pc.amount(c, pc.payrolls.CashAdvance, "Cash advance recorded successfully")
}

func (pc *PayrollController) amount(c echo.Context, apply func(context.Context, primitive.ObjectID, float64) (*models.Payroll, error), message string) error {
	id, err := utils.ObjectIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req models.AmountRequest
	if err := bindRequest(c, &req); err != nil {
		return fail(c, err)
	}
	p, err := apply(c.Request().Context(), id, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, message, p)
}

// DeletePayroll handles DELETE /api/payroll/:id
func (pc *PayrollController) DeletePayroll(c echo.Context) error {
	id, err := utils.ObjectIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := pc.payrolls.Delete(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Payroll deleted successfully", nil)
}

// GetBalance handles GET /api/payroll/balance/:userId
func (pc *PayrollController) GetBalance(c echo.Context) error {
	userID, err := utils.ObjectIDParam(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	balance, err := pc.payrolls.AvailableBalance(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Balance retrieved successfully", balance)
}

// Withdraw handles POST /api/payroll/withdraw. A partial payout answers 200
// with the withdrawal and the reason the rest was skipped.
func (pc *PayrollController) Withdraw(c echo.Context) error {
	var req models.WithdrawRequest
	if err := bindRequest(c, &req); err != nil {
		return fail(c, err)
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return fail(c, apperror.Invalid("invalid userId"))
	}
	w, err := pc.payrolls.Withdraw(c.Request().Context(), userID, middleware.ActorID(c))
	if w == nil {
		return fail(c, err)
	}
	message := "Withdrawal processed successfully"
	if err != nil {
		message = "Withdrawal partially processed: " + err.Error()
	}
	return respondOK(c, message, w)
}

// ExportPayrolls handles GET /api/payroll/export
func (pc *PayrollController) ExportPayrolls(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return fail(c, err)
	}
	f.Limit = 0
	data, err := pc.exporter.PayrollWorkbook(c.Request().Context(), f)
	if err != nil {
		return fail(c, err)
	}
	name := "payroll"
	if f.From != "" || f.To != "" {
		name = fmt.Sprintf("payroll_%s_%s", f.From, f.To)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s.xlsx", name))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// GetPayslip handles GET /api/payroll/:id/payslip
func (pc *PayrollController) GetPayslip(c echo.Context) error {
	id, err := utils.ObjectIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if !isAdmin(c) {
		p, err := pc.payrolls.Get(c.Request().Context(), id)
		if err != nil {
			return fail(c, err)
		}
		if p.User != middleware.ActorID(c) {
			return fail(c, apperror.ErrPayrollNotFound)
		}
	}
	data, err := pc.payslips.Payslip(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=payslip_%s.pdf", id.Hex()))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// Reconcile handles POST /api/payroll/reconcile and mails the summary to
// the admin address.
func (pc *PayrollController) Reconcile(c echo.Context) error {
	var req models.ReconcileRequest
	if err := bindRequest(c, &req); err != nil {
		return fail(c, err)
	}
	res, err := pc.reconcile.Run(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}
	if pc.mailer != nil {
		subject := fmt.Sprintf("Payroll reconciliation %s to %s", req.From, req.To)
		if err := pc.mailer.EmailAdmin(subject, res.Summary()); err != nil {
			config.GetLogger().WithError(err).Warn("Failed to mail reconciliation summary")
		}
	}
	return respondOK(c, "Reconciliation completed", res)
}

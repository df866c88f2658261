package controllers

import (
	"context"

	"github.com/HSouheill/tellerdesk_backend/middleware"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TellerReportManager interface {
	Submit(ctx context.Context, actorID primitive.ObjectID, req models.SubmitTellerReportRequest) (*models.TellerReportResult, error)
	List(ctx context.Context, tellerID primitive.ObjectID, limit int64) ([]models.TellerReport, error)
}

type TellerReportController struct {
	reports TellerReportManager
}

func NewTellerReportController(reports TellerReportManager) *TellerReportController {
	return &TellerReportController{reports: reports}
}

// SubmitReport handles POST /api/teller-reports
func (tc *TellerReportController) SubmitReport(c echo.Context) error {
	var req models.SubmitTellerReportRequest
	if err := bindRequest(c, &req); err != nil {
		return fail(c, err)
	}
	req.Remarks = utils.SanitizeInput(req.Remarks)
	res, err := tc.reports.Submit(c.Request().Context(), middleware.ActorID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return respondCreated(c, "Teller report submitted successfully", res)
}

// ListReports handles GET /api/teller-reports/:tellerId
func (tc *TellerReportController) ListReports(c echo.Context) error {
	tellerID, err := utils.ObjectIDParam(c, "tellerId")
	if err != nil {
		return fail(c, err)
	}
	list, err := tc.reports.List(c.Request().Context(), tellerID, utils.LimitQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Teller reports retrieved successfully", list)
}

package controllers

import (
	"context"

	"github.com/HSouheill/tellerdesk_backend/middleware"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CapitalManager interface {
	AddCapital(ctx context.Context, supervisorID primitive.ObjectID, req models.AddCapitalRequest) (*models.Capital, error)
	AddAdditional(ctx context.Context, supervisorID primitive.ObjectID, req models.CapitalEntryRequest) (*models.CapitalSummary, error)
	Remit(ctx context.Context, supervisorID primitive.ObjectID, req models.CapitalEntryRequest) (*models.CapitalSummary, error)
	Delete(ctx context.Context, tellerID primitive.ObjectID) (int64, error)
	Active(ctx context.Context, tellerID primitive.ObjectID) (*models.CapitalSummary, error)
	History(ctx context.Context, tellerID primitive.ObjectID, limit int64) ([]models.Capital, error)
}

type CapitalController struct {
	capitals CapitalManager
}

func NewCapitalController(capitals CapitalManager) *CapitalController {
	return &CapitalController{capitals: capitals}
}

// AddCapital handles POST /api/capital
func (cc *CapitalController) AddCapital(c echo.Context) error {
	var req models.AddCapitalRequest
	if err := bindRequest(c, &req); err != nil {
		return fail(c, err)
	}
	req.Note = utils.SanitizeInput(req.Note)
	capital, err := cc.capitals.AddCapital(c.Request().Context(), middleware.ActorID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return respondCreated(c, "Capital added successfully", capital)
}

// AddAdditional handles POST /api/capital/additional
func (cc *CapitalController) AddAdditional(c echo.Context) error {
	return cc.entry(c, cc.capitals.AddAdditional, "Additional capital recorded successfully")
}

// Remit handles POST /api/capital/remit
func (cc *CapitalController) Remit(c echo.Context) error {
	return cc.entry(c, cc.capitals.Remit, "Remittance recorded successfully")
}

func (cc *CapitalController) entry(c echo.Context, apply func(context.Context, primitive.ObjectID, models.CapitalEntryRequest) (*models.CapitalSummary, error), message string) error {
	var req models.CapitalEntryRequest
	if err := bindRequest(c, &req); err != nil {
		return fail(c, err)
	}
	req.Note = utils.SanitizeInput(req.Note)
	summary, err := apply(c.Request().Context(), middleware.ActorID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, message, summary)
}

// GetActive handles GET /api/capital/active/:tellerId
func (cc *CapitalController) GetActive(c echo.Context) error {
	tellerID, err := utils.ObjectIDParam(c, "tellerId")
	if err != nil {
		return fail(c, err)
	}
	summary, err := cc.capitals.Active(c.Request().Context(), tellerID)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Active capital retrieved successfully", summary)
}

// GetHistory handles GET /api/capital/history/:tellerId
func (cc *CapitalController) GetHistory(c echo.Context) error {
	tellerID, err := utils.ObjectIDParam(c, "tellerId")
	if err != nil {
		return fail(c, err)
	}
	history, err := cc.capitals.History(c.Request().Context(), tellerID, utils.LimitQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Capital history retrieved successfully", history)
}

// DeleteCapital handles DELETE /api/capital/:tellerId. The teller's float and
// all its entries go, and the teller's base salary is reset to zero.
func (cc *CapitalController) DeleteCapital(c echo.Context) error {
	tellerID, err := utils.ObjectIDParam(c, "tellerId")
	if err != nil {
		return fail(c, err)
	}
	deleted, err := cc.capitals.Delete(c.Request().Context(), tellerID)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Capital deleted successfully", map[string]int64{"deleted": deleted})
}

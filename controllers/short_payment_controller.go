package controllers

import (
	"context"

	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShortPaymentManager interface {
	List(ctx context.Context, userID primitive.ObjectID) ([]models.ShortPayment, error)
	CollectDue(ctx context.Context) (int, error)
}

type ShortPaymentController struct {
	plans ShortPaymentManager
}

func NewShortPaymentController(plans ShortPaymentManager) *ShortPaymentController {
	return &ShortPaymentController{plans: plans}
}

// ListPlans handles GET /api/short-payments/:userId
func (sc *ShortPaymentController) ListPlans(c echo.Context) error {
	userID, err := utils.ObjectIDParam(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	plans, err := sc.plans.List(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Short payment plans retrieved successfully", plans)
}

// CollectDue handles POST /api/short-payments/collect, running the weekly
// collection on demand.
func (sc *ShortPaymentController) CollectDue(c echo.Context) error {
	collected, err := sc.plans.CollectDue(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Due installments collected", map[string]int{"collected": collected})
}

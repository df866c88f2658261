package controllers

import (
	"context"

	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShiftManager interface {
	Today(ctx context.Context, userID primitive.ObjectID) (*models.Shift, error)
	Set(ctx context.Context, req models.SetShiftRequest) (*models.ShiftResult, error)
	History(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Shift, error)
}

type ShiftController struct {
	shifts ShiftManager
}

func NewShiftController(shifts ShiftManager) *ShiftController {
	return &ShiftController{shifts: shifts}
}

// GetToday handles GET /api/shift/today/:userId
func (sc *ShiftController) GetToday(c echo.Context) error {
	userID, err := utils.ObjectIDParam(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	shift, err := sc.shifts.Today(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Shift retrieved successfully", shift)
}

// SetShift handles POST /api/shift/set
func (sc *ShiftController) SetShift(c echo.Context) error {
	var req models.SetShiftRequest
	if err := bindRequest(c, &req); err != nil {
		return fail(c, err)
	}
	res, err := sc.shifts.Set(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Shift saved successfully", res)
}

// GetHistory handles GET /api/shift/history/:userId
func (sc *ShiftController) GetHistory(c echo.Context) error {
	userID, err := utils.ObjectIDParam(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	history, err := sc.shifts.History(c.Request().Context(), userID, utils.LimitQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return respondOK(c, "Shift history retrieved successfully", history)
}

package services

import (
	"context"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShiftService struct {
	shifts   ShiftStore
	users    UserStore
	payrolls *PayrollService
	days     *dayResolver
	events   EventBroadcaster
	logger   *logrus.Logger
}

func NewShiftService(shifts ShiftStore, users UserStore, capitals CapitalStore, settings SettingsProvider, payrolls *PayrollService, events EventBroadcaster) *ShiftService {
	if events == nil {
		events = noopBroadcaster{}
	}
	return &ShiftService{
		shifts:   shifts,
		users:    users,
		payrolls: payrolls,
		days:     &dayResolver{capitals: capitals, settings: settings, now: time.Now},
		events:   events,
		logger:   config.GetLogger(),
	}
}

// Today returns the user's shift for the current business day.
func (s *ShiftService) Today(ctx context.Context, userID primitive.ObjectID) (*models.Shift, error) {
	date, err := s.days.today(ctx)
	if err != nil {
		return nil, appErr(err)
	}
	shift, err := s.shifts.FindByUserAndDate(ctx, userID, date)
	return shift, appErr(err)
}

// Set records the role a user works as for a day and brings that day's
// payroll in line with it.
func (s *ShiftService) Set(ctx context.Context, req models.SetShiftRequest) (*models.ShiftResult, error) {
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, apperror.Invalid("invalid user id")
	}
	if req.Date != "" && !ledger.ValidDate(req.Date) {
		return nil, apperror.Invalid("date must be yyyy-MM-dd")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, appErr(err)
	}

	assigned := req.AssignedRole
	if assigned == "" {
		assigned = user.Role
	}
	day, err := s.days.resolve(ctx, userID, req.Date, assigned, req.RoleWorkedAs)
	if err != nil {
		return nil, err
	}

	shift, err := s.shifts.Upsert(ctx, &models.Shift{
		UserID:         userID,
		Date:           day.Date,
		AssignedRole:   day.AssignedRole,
		RoleWorkedAs:   day.RoleWorkedAs,
		BaseSalaryUsed: day.BaseSalary,
	})
	if err != nil {
		return nil, appErr(err)
	}

	payroll, err := s.payrolls.EnsureForDay(ctx, DayPayroll{
		UserID:       userID,
		Date:         day.Date,
		Role:         day.AssignedRole,
		RoleWorkedAs: day.RoleWorkedAs,
		BaseSalary:   day.BaseSalary,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"userId":       userID.Hex(),
		"date":         day.Date,
		"roleWorkedAs": day.RoleWorkedAs,
		"baseSalary":   day.BaseSalary,
	}).Info("Shift set")
	s.events.Broadcast(websocket.EventPayrollUpdated, payroll)
	return &models.ShiftResult{Shift: shift, Payroll: payroll}, nil
}

func (s *ShiftService) History(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Shift, error) {
	list, err := s.shifts.History(ctx, userID, limit)
	return list, appErr(err)
}

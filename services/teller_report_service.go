package services

import (
	"context"
	"errors"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TellerReportService struct {
	reports  TellerReportStore
	shifts   ShiftStore
	users    UserStore
	settings SettingsProvider
	payrolls *PayrollService
	days     *dayResolver
	events   EventBroadcaster
	logger   *logrus.Logger
}

func NewTellerReportService(reports TellerReportStore, shifts ShiftStore, users UserStore, capitals CapitalStore, settings SettingsProvider, payrolls *PayrollService, events EventBroadcaster) *TellerReportService {
	if events == nil {
		events = noopBroadcaster{}
	}
	return &TellerReportService{
		reports:  reports,
		shifts:   shifts,
		users:    users,
		settings: settings,
		payrolls: payrolls,
		days:     &dayResolver{capitals: capitals, settings: settings, now: time.Now},
		events:   events,
		logger:   config.GetLogger(),
	}
}

// Submit stores a cash count and syncs the day's payroll over and short to
// the totals of all that day's reports.
func (s *TellerReportService) Submit(ctx context.Context, actorID primitive.ObjectID, req models.SubmitTellerReportRequest) (*models.TellerReportResult, error) {
	tellerID, err := primitive.ObjectIDFromHex(req.TellerID)
	if err != nil {
		return nil, apperror.Invalid("invalid teller id")
	}
	if req.SystemBalance == nil || req.CashOnHand == nil {
		return nil, apperror.Invalid("systemBalance and cashOnHand are required")
	}
	if req.Date != "" && !ledger.ValidDate(req.Date) {
		return nil, apperror.Invalid("date must be yyyy-MM-dd")
	}
	teller, err := s.users.FindByID(ctx, tellerID)
	if err != nil {
		return nil, appErr(err)
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, appErr(err)
	}

	day, err := s.workDay(ctx, tellerID, req.Date, teller.Role)
	if err != nil {
		return nil, err
	}

	existing, err := s.reports.ListForDay(ctx, tellerID, day.Date)
	if err != nil {
		return nil, appErr(err)
	}
	if len(existing) > 0 && !st.AllowMultipleReportsPerDay {
		return nil, apperror.ErrDuplicateReport
	}

	payroll, err := s.payrolls.EnsureForDay(ctx, DayPayroll{
		UserID:       tellerID,
		Date:         day.Date,
		Role:         day.AssignedRole,
		RoleWorkedAs: day.RoleWorkedAs,
		BaseSalary:   day.BaseSalary,
	})
	if err != nil {
		return nil, err
	}
	if err := ledger.CheckMutable(payroll); err != nil {
		return nil, err
	}

	over, short := ledger.OverShort(*req.SystemBalance, *req.CashOnHand)
	report := &models.TellerReport{
		TellerID:      tellerID,
		Date:          day.Date,
		SystemBalance: ledger.Round2(*req.SystemBalance),
		CashOnHand:    ledger.Round2(*req.CashOnHand),
		Over:          over,
		Short:         short,
		Remarks:       req.Remarks,
	}
	if actorID != tellerID {
		report.SupervisorID = &actorID
	}
	prevOver, prevShort := payroll.Over, payroll.Short
	overs := []float64{over}
	shorts := []float64{short}
	for _, r := range existing {
		overs = append(overs, r.Over)
		shorts = append(shorts, r.Short)
	}

	// The payroll is synced first so a failed sync leaves no report behind
	// and the same submission can be retried.
	payroll, err = s.payrolls.SyncOverShort(ctx, payroll.ID, ledger.Sum(overs...), ledger.Sum(shorts...))
	if err != nil {
		return nil, err
	}
	if err := s.reports.Create(ctx, report); err != nil {
		if _, rbErr := s.payrolls.SyncOverShort(ctx, payroll.ID, prevOver, prevShort); rbErr != nil {
			config.LogError(s.logger, "tellerReport", "Submit", "roll back over/short", logrus.Fields{"payrollId": payroll.ID.Hex()}, rbErr)
		}
		return nil, appErr(err)
	}

	s.logger.WithFields(logrus.Fields{
		"tellerId": tellerID.Hex(),
		"date":     day.Date,
		"over":     over,
		"short":    short,
	}).Info("Teller report submitted")
	s.events.Broadcast(websocket.EventTellerManagementUpdated, report)
	return &models.TellerReportResult{Report: report, Payroll: payroll}, nil
}

// workDay prices the report's day from the shift recorded for it. Without a
// shift the role is worked out from capital activity.
func (s *TellerReportService) workDay(ctx context.Context, tellerID primitive.ObjectID, date, assigned string) (*workDay, error) {
	if date == "" {
		today, err := s.days.today(ctx)
		if err != nil {
			return nil, appErr(err)
		}
		date = today
	}
	shift, err := s.shifts.FindByUserAndDate(ctx, tellerID, date)
	switch {
	case err == nil:
		return &workDay{
			Date:         shift.Date,
			AssignedRole: shift.AssignedRole,
			RoleWorkedAs: shift.RoleWorkedAs,
			BaseSalary:   shift.BaseSalaryUsed,
		}, nil
	case errors.Is(err, apperror.ErrShiftNotFound):
		return s.days.resolve(ctx, tellerID, date, assigned, "")
	default:
		return nil, appErr(err)
	}
}

func (s *TellerReportService) List(ctx context.Context, tellerID primitive.ObjectID, limit int64) ([]models.TellerReport, error) {
	list, err := s.reports.ListByTeller(ctx, tellerID, limit)
	return list, appErr(err)
}

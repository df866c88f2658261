package services

import (
	"context"
	"errors"
	"testing"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reportFixture struct {
	svc      *TellerReportService
	payrolls *PayrollService
	store    *memPayrolls
	reports  *memReports
	shifts   *memShifts
	users    *memUsers
}

func newReportFixture(allowMultiple bool, teller *models.User) *reportFixture {
	settings := defaultSettings()
	settings.s.AllowMultipleReportsPerDay = allowMultiple
	f := &reportFixture{
		store:   newMemPayrolls(),
		reports: &memReports{},
		shifts:  newMemShifts(),
		users:   newMemUsers(teller),
	}
	f.payrolls = NewPayrollService(f.store, &memWithdrawals{}, nil, nil, nil)
	f.payrolls.now = clock
	f.svc = NewTellerReportService(f.reports, f.shifts, f.users, newMemCapitals(), settings, f.payrolls, nil)
	f.svc.days.now = clock
	return f
}

func f64(v float64) *float64 { return &v }

func TestSubmitReportSyncsOverShort(t *testing.T) {
	teller := &models.User{ID: primitive.NewObjectID(), Role: models.RoleTeller}
	svc := newReportFixture(false, teller).svc
	sup := primitive.NewObjectID()

	res, err := svc.Submit(context.Background(), sup, models.SubmitTellerReportRequest{
		TellerID: teller.ID.Hex(), SystemBalance: f64(10000), CashOnHand: f64(10250),
	})
	require.NoError(t, err)

	assert.Equal(t, 250.0, res.Report.Over)
	assert.Zero(t, res.Report.Short)
	require.NotNil(t, res.Report.SupervisorID)
	assert.Equal(t, 250.0, res.Payroll.Over)
	assert.Equal(t, 700.0, res.Payroll.TotalSalary)
	assert.Zero(t, ledger.Drift(res.Payroll))

	_, err = svc.Submit(context.Background(), sup, models.SubmitTellerReportRequest{
		TellerID: teller.ID.Hex(), SystemBalance: f64(1), CashOnHand: f64(1),
	})
	assert.ErrorIs(t, err, apperror.ErrDuplicateReport)
}

func TestMultipleReportsAreSummed(t *testing.T) {
	teller := &models.User{ID: primitive.NewObjectID(), Role: models.RoleTeller}
	f := newReportFixture(true, teller)
	svc, reports := f.svc, f.reports
	ctx := context.Background()

	_, err := svc.Submit(ctx, teller.ID, models.SubmitTellerReportRequest{TellerID: teller.ID.Hex(), SystemBalance: f64(1000), CashOnHand: f64(1100)})
	require.NoError(t, err)
	res, err := svc.Submit(ctx, teller.ID, models.SubmitTellerReportRequest{TellerID: teller.ID.Hex(), SystemBalance: f64(1000), CashOnHand: f64(960)})
	require.NoError(t, err)

	assert.Nil(t, res.Report.SupervisorID)
	assert.Equal(t, 100.0, res.Payroll.Over)
	assert.Equal(t, 40.0, res.Payroll.Short)
	assert.Equal(t, 510.0, res.Payroll.TotalSalary)
	assert.Len(t, reports.docs, 2)
}

func TestReportAgainstLockedPayrollIsRejected(t *testing.T) {
	teller := &models.User{ID: primitive.NewObjectID(), Role: models.RoleTeller}
	f := newReportFixture(false, teller)
	svc, store, reports := f.svc, f.store, f.reports
	locked := models.Payroll{
		ID: primitive.NewObjectID(), User: teller.ID, Date: "2026-05-04",
		BaseSalary: 450, TotalSalary: 450, Approved: true, Locked: true, Version: 2,
	}
	store.byID[locked.ID] = locked

	_, err := svc.Submit(context.Background(), teller.ID, models.SubmitTellerReportRequest{
		TellerID: teller.ID.Hex(), SystemBalance: f64(100), CashOnHand: f64(50),
	})
	assert.ErrorIs(t, err, apperror.ErrPayrollLocked)
	assert.Empty(t, reports.docs)
	assert.Equal(t, locked, store.get(locked.ID))
}

func TestReportKeepsRoleFromShift(t *testing.T) {
	teller := &models.User{ID: primitive.NewObjectID(), Role: models.RoleTeller}
	f := newReportFixture(false, teller)
	shifts := NewShiftService(f.shifts, f.users, newMemCapitals(), defaultSettings(), f.payrolls, nil)
	shifts.days.now = clock
	ctx := context.Background()

	set, err := shifts.Set(ctx, models.SetShiftRequest{UserID: teller.ID.Hex(), RoleWorkedAs: models.RoleSupervisor})
	require.NoError(t, err)
	require.Equal(t, 500.0, set.Payroll.BaseSalary)

	res, err := f.svc.Submit(ctx, teller.ID, models.SubmitTellerReportRequest{
		TellerID: teller.ID.Hex(), SystemBalance: f64(1000), CashOnHand: f64(980),
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleSupervisor, res.Payroll.RoleWorkedAs)
	assert.Equal(t, set.Shift.BaseSalaryUsed, res.Payroll.BaseSalary)
	assert.Equal(t, 480.0, res.Payroll.TotalSalary)
	assert.Zero(t, ledger.Drift(res.Payroll))
}

func TestFailedPayrollSyncStoresNoReport(t *testing.T) {
	teller := &models.User{ID: primitive.NewObjectID(), Role: models.RoleTeller}
	f := newReportFixture(false, teller)
	f.store.updateFn = func(p *models.Payroll) error {
		if p.Short > 0 {
			return errors.New("boom")
		}
		return nil
	}
	ctx := context.Background()
	req := models.SubmitTellerReportRequest{TellerID: teller.ID.Hex(), SystemBalance: f64(1000), CashOnHand: f64(900)}

	_, err := f.svc.Submit(ctx, teller.ID, req)
	require.Error(t, err)
	assert.Empty(t, f.reports.docs)

	f.store.updateFn = nil
	res, err := f.svc.Submit(ctx, teller.ID, req)
	require.NoError(t, err, "the same report can be submitted again")
	assert.Equal(t, 100.0, res.Payroll.Short)
	assert.Equal(t, 350.0, res.Payroll.TotalSalary)
	assert.Len(t, f.reports.docs, 1)
}

func TestFailedReportSaveRollsBackPayroll(t *testing.T) {
	teller := &models.User{ID: primitive.NewObjectID(), Role: models.RoleTeller}
	f := newReportFixture(false, teller)
	f.reports.createErr = errors.New("reports down")
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, teller.ID, models.SubmitTellerReportRequest{
		TellerID: teller.ID.Hex(), SystemBalance: f64(1000), CashOnHand: f64(900),
	})
	require.Error(t, err)

	p, err := f.store.FindByUserAndDate(ctx, teller.ID, "2026-05-04")
	require.NoError(t, err)
	assert.Zero(t, p.Short)
	assert.Equal(t, 450.0, p.TotalSalary)
	assert.Zero(t, ledger.Drift(p))
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCollectDueTakesOneInstallmentPerWeek(t *testing.T) {
	user := primitive.NewObjectID()
	origin := models.Payroll{ID: primitive.NewObjectID(), User: user, Date: "2026-05-04", BaseSalary: 450, Short: 100, TotalSalary: 350, Version: 1}
	payrolls := newMemPayrolls(origin)
	plans := newMemPlans()
	svc := NewShortPaymentService(plans, payrolls, nil)
	ctx := context.Background()

	now := fixedNow
	svc.now = func() time.Time { return now }

	plan, err := svc.CreatePlan(ctx, &origin, 3, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, []float64{33.33, 33.33, 33.34}, plan.Installments)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), plan.NextDueAt)

	n, err := svc.CollectDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing is due in the first week")

	next := models.Payroll{ID: primitive.NewObjectID(), User: user, Date: "2026-05-11", BaseSalary: 450, TotalSalary: 450, Version: 1}
	payrolls.byID[next.ID] = next

	for week := 1; week <= 3; week++ {
		now = fixedNow.Add(time.Duration(week) * 7 * 24 * time.Hour)
		n, err := svc.CollectDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "week %d", week)
	}

	got := payrolls.get(next.ID)
	assert.Equal(t, 100.0, got.Deduction)
	assert.Equal(t, 350.0, got.TotalSalary)
	assert.Equal(t, 350.0, payrolls.get(origin.ID).TotalSalary)

	stored := plans.byID[plan.ID]
	assert.Equal(t, models.ShortPaymentCompleted, stored.Status)
	assert.Equal(t, 3, stored.PaidTerms)
	assert.Equal(t, 100.0, stored.AmountPaid)
	assert.Zero(t, stored.Remaining())

	now = now.Add(7 * 24 * time.Hour)
	n, err = svc.CollectDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCollectDueWaitsForOpenPayroll(t *testing.T) {
	user := primitive.NewObjectID()
	locked := models.Payroll{ID: primitive.NewObjectID(), User: user, Date: "2026-05-04", Short: 60, TotalSalary: 390, Approved: true, Locked: true, Version: 1}
	payrolls := newMemPayrolls(locked)
	plans := newMemPlans()
	svc := NewShortPaymentService(plans, payrolls, nil)
	svc.now = clock
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, &locked, 2, primitive.NewObjectID())
	require.NoError(t, err)

	svc.now = func() time.Time { return fixedNow.Add(8 * 24 * time.Hour) }
	n, err := svc.CollectDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 0, plans.byID[plan.ID].PaidTerms)
	assert.Equal(t, locked, payrolls.get(locked.ID))
}

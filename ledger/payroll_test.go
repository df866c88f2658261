package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSetBaseSalaryAppliesDelta(t *testing.T) {
	t.Run("base change moves total by the same amount", func(t *testing.T) {
		p := &models.Payroll{BaseSalary: 450, Over: 250, Short: 100, TotalSalary: 600}

		delta, err := ledger.SetBaseSalary(p, 500)

		require.NoError(t, err)
		assert.Equal(t, 50.0, delta)
		assert.Equal(t, 650.0, p.TotalSalary)
		assert.Equal(t, 250.0, p.Over)
		assert.Equal(t, 100.0, p.Short)
	})

	t.Run("total already containing over and short is not re-derived", func(t *testing.T) {
		p := &models.Payroll{BaseSalary: 450, Over: 350, TotalSalary: 800}

		_, err := ledger.SetBaseSalary(p, 500)

		require.NoError(t, err)
		assert.Equal(t, 850.0, p.TotalSalary)
	})

	t.Run("adjustments survive a base change", func(t *testing.T) {
		p := &models.Payroll{BaseSalary: 450, Over: 250, Short: 100, TotalSalary: 600}
		_, err := ledger.ApplyAdjustment(p, ledger.AdjustmentInput{Delta: 75, Reason: "bonus"}, time.Now())
		require.NoError(t, err)

		_, err = ledger.SetBaseSalary(p, 500)

		require.NoError(t, err)
		assert.Equal(t, 725.0, p.TotalSalary)
		assert.Len(t, p.Adjustments, 1)
	})

	t.Run("locked payroll rejects base change", func(t *testing.T) {
		p := &models.Payroll{BaseSalary: 450, TotalSalary: 450, Approved: true, Locked: true}

		_, err := ledger.SetBaseSalary(p, 500)

		assert.True(t, errors.Is(err, apperror.ErrPayrollLocked))
		assert.Equal(t, 450.0, p.TotalSalary)
	})

	t.Run("negative base is invalid", func(t *testing.T) {
		p := &models.Payroll{BaseSalary: 450, TotalSalary: 450}

		_, err := ledger.SetBaseSalary(p, -1)

		assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
	})
}

func TestApplyAdjustmentIsAdditive(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	admin := primitive.NewObjectID()

	sequential := &models.Payroll{BaseSalary: 450, TotalSalary: 450}
	for i, d := range []float64{50, -20, 10} {
		_, err := ledger.ApplyAdjustment(sequential, ledger.AdjustmentInput{
			Delta:   d,
			Reason:  "correction",
			AdminID: admin,
		}, start.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	single := &models.Payroll{BaseSalary: 450, TotalSalary: 450}
	_, err := ledger.ApplyAdjustment(single, ledger.AdjustmentInput{Delta: 40, Reason: "correction"}, start)
	require.NoError(t, err)

	assert.Equal(t, single.TotalSalary, sequential.TotalSalary)
	require.Len(t, sequential.Adjustments, 3)
	assert.Equal(t, []float64{50, -20, 10}, []float64{
		sequential.Adjustments[0].Delta,
		sequential.Adjustments[1].Delta,
		sequential.Adjustments[2].Delta,
	})
	assert.True(t, sequential.Adjustments[0].CreatedAt.Before(sequential.Adjustments[1].CreatedAt))
	assert.True(t, sequential.Adjustments[1].CreatedAt.Before(sequential.Adjustments[2].CreatedAt))
	assert.Equal(t, admin, sequential.Adjustments[2].AdminID)
}

func TestApplyAdjustmentRejections(t *testing.T) {
	tests := []struct {
		name    string
		payroll models.Payroll
		input   ledger.AdjustmentInput
		wantErr error
	}{
		{
			name:    "missing reason",
			payroll: models.Payroll{TotalSalary: 450},
			input:   ledger.AdjustmentInput{Delta: 10, Reason: "  "},
			wantErr: apperror.ErrReasonRequired,
		},
		{
			name:    "bare override marker is not a reason",
			payroll: models.Payroll{TotalSalary: 450},
			input:   ledger.AdjustmentInput{Delta: 10, Reason: models.OverrideMarker},
			wantErr: apperror.ErrReasonRequired,
		},
		{
			name:    "locked",
			payroll: models.Payroll{TotalSalary: 450, Approved: true, Locked: true},
			input:   ledger.AdjustmentInput{Delta: 10, Reason: "x"},
			wantErr: apperror.ErrPayrollLocked,
		},
		{
			name:    "withdrawn",
			payroll: models.Payroll{TotalSalary: 450, Approved: true, Withdrawn: true},
			input:   ledger.AdjustmentInput{Delta: 10, Reason: "x"},
			wantErr: apperror.ErrPayrollWithdrawn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.payroll
			_, err := ledger.ApplyAdjustment(&p, tt.input, time.Now())
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, 450.0, p.TotalSalary)
			assert.Empty(t, p.Adjustments)
		})
	}
}

func TestSetOverShortUsesDeltas(t *testing.T) {
	p := &models.Payroll{BaseSalary: 450, TotalSalary: 450}

	_, err := ledger.SetOverShort(p, 250, 100)
	require.NoError(t, err)
	assert.Equal(t, 600.0, p.TotalSalary)

	// a second sync with the same figures is a no-op
	delta, err := ledger.SetOverShort(p, 250, 100)
	require.NoError(t, err)
	assert.Zero(t, delta)
	assert.Equal(t, 600.0, p.TotalSalary)

	_, err = ledger.SetOverShort(p, 200, 150)
	require.NoError(t, err)
	assert.Equal(t, 500.0, p.TotalSalary)
	assert.Equal(t, ledger.ExpectedTotal(p), p.TotalSalary)
}

func TestDeductionAndWithdrawal(t *testing.T) {
	p := &models.Payroll{BaseSalary: 500, TotalSalary: 500}

	require.NoError(t, ledger.AddDeduction(p, 33.33))
	require.NoError(t, ledger.AddWithdrawal(p, 100))

	assert.Equal(t, 366.67, p.TotalSalary)
	assert.Equal(t, 33.33, p.Deduction)
	assert.Equal(t, 100.0, p.Withdrawal)
	assert.Zero(t, ledger.Drift(p))

	assert.Error(t, ledger.AddDeduction(p, 0))
	assert.Error(t, ledger.AddWithdrawal(p, -5))
}

func TestDriftDetectsDoubleCounting(t *testing.T) {
	// total recomputed from scratch after over had already been folded in
	p := &models.Payroll{BaseSalary: 500, Over: 250, TotalSalary: 1000}

	assert.Equal(t, 250.0, ledger.Drift(p))
}

func TestOverrideReason(t *testing.T) {
	assert.Equal(t, "[OVERRIDE] manual fix", ledger.OverrideReason("manual fix"))
	assert.Equal(t, "[OVERRIDE] manual fix", ledger.OverrideReason("[OVERRIDE] manual fix"))
	assert.True(t, ledger.IsOverride(" [OVERRIDE] x"))
	assert.False(t, ledger.IsOverride("routine"))
}

func TestNeedsShortPlan(t *testing.T) {
	assert.True(t, ledger.NeedsShortPlan(&models.Payroll{Short: 300}, 3))
	assert.False(t, ledger.NeedsShortPlan(&models.Payroll{Short: 300}, 1))
	assert.False(t, ledger.NeedsShortPlan(&models.Payroll{}, 3))
}

func TestOverShort(t *testing.T) {
	over, short := ledger.OverShort(10000, 10250.5)
	assert.Equal(t, 250.5, over)
	assert.Equal(t, 0.0, short)

	over, short = ledger.OverShort(10000, 9900)
	assert.Equal(t, 0.0, over)
	assert.Equal(t, 100.0, short)

	over, short = ledger.OverShort(500, 500)
	assert.Zero(t, over)
	assert.Zero(t, short)
}

package ledger

import (
	"strings"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComputeTotalSalary is the only place a stored totalSalary changes. Every
// mutation is expressed as a delta against the stored total; totals are
// never re-derived from their components.
func ComputeTotalSalary(current, delta float64) float64 {
	return add(current, delta)
}

// ExpectedTotal evaluates the canonical formula
//
//	base + over - short - deduction - withdrawal + sum(adjustments)
//
// It is used to report drift, never to overwrite a stored total.
func ExpectedTotal(p *models.Payroll) float64 {
	values := []float64{p.BaseSalary, p.Over, -p.Short, -p.Deduction, -p.Withdrawal}
	for _, a := range p.Adjustments {
		values = append(values, a.Delta)
	}
	return Sum(values...)
}

// Drift is stored total minus the canonical formula.
func Drift(p *models.Payroll) float64 {
	return sub(p.TotalSalary, ExpectedTotal(p))
}

// CheckMutable rejects changes to locked or withdrawn payrolls.
func CheckMutable(p *models.Payroll) error {
	if p.Withdrawn {
		return apperror.ErrPayrollWithdrawn
	}
	if p.Locked {
		return apperror.ErrPayrollLocked
	}
	return nil
}

// SetBaseSalary changes the base and moves the total by the same amount.
// It returns the delta applied.
func SetBaseSalary(p *models.Payroll, newBase float64) (float64, error) {
	if err := CheckMutable(p); err != nil {
		return 0, err
	}
	if newBase < 0 {
		return 0, apperror.Invalid("base salary cannot be negative")
	}
	delta := sub(newBase, p.BaseSalary)
	p.BaseSalary = Round2(newBase)
	p.TotalSalary = ComputeTotalSalary(p.TotalSalary, delta)
	return delta, nil
}

// SetOverShort replaces the day's over and short. Over raises the total,
// short lowers it.
func SetOverShort(p *models.Payroll, over, short float64) (float64, error) {
	if err := CheckMutable(p); err != nil {
		return 0, err
	}
	if over < 0 || short < 0 {
		return 0, apperror.Invalid("over and short cannot be negative")
	}
	delta := sub(sub(over, p.Over), sub(short, p.Short))
	p.Over = Round2(over)
	p.Short = Round2(short)
	p.TotalSalary = ComputeTotalSalary(p.TotalSalary, delta)
	return delta, nil
}

// AddDeduction records a deduction and lowers the total.
func AddDeduction(p *models.Payroll, amount float64) error {
	if err := CheckMutable(p); err != nil {
		return err
	}
	if amount <= 0 {
		return apperror.Invalid("deduction must be positive")
	}
	p.Deduction = add(p.Deduction, amount)
	p.TotalSalary = ComputeTotalSalary(p.TotalSalary, -amount)
	return nil
}

// AddWithdrawal records a cash advance against the day's pay.
func AddWithdrawal(p *models.Payroll, amount float64) error {
	if err := CheckMutable(p); err != nil {
		return err
	}
	if amount <= 0 {
		return apperror.Invalid("withdrawal must be positive")
	}
	p.Withdrawal = add(p.Withdrawal, amount)
	p.TotalSalary = ComputeTotalSalary(p.TotalSalary, -amount)
	return nil
}

// AdjustmentInput is an admin's signed change to a payroll total.
type AdjustmentInput struct {
	Delta             float64
	Reason            string
	AdminID           primitive.ObjectID
	ShortPaymentTerms int
}

// ApplyAdjustment adds in.Delta to the total and appends an audit entry.
// Applying the same input twice applies it twice.
func ApplyAdjustment(p *models.Payroll, in AdjustmentInput, now time.Time) (models.Adjustment, error) {
	if err := CheckMutable(p); err != nil {
		return models.Adjustment{}, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" || reason == models.OverrideMarker {
		return models.Adjustment{}, apperror.ErrReasonRequired
	}
	if in.ShortPaymentTerms < 0 {
		return models.Adjustment{}, apperror.Invalid("shortPaymentTerms must be at least 1")
	}
	adj := models.Adjustment{
		Delta:     Round2(in.Delta),
		Reason:    reason,
		AdminID:   in.AdminID,
		CreatedAt: now,
	}
	p.TotalSalary = ComputeTotalSalary(p.TotalSalary, adj.Delta)
	p.Adjustments = append(p.Adjustments, adj)
	if in.ShortPaymentTerms > 0 {
		p.ShortPaymentTerms = in.ShortPaymentTerms
	}
	return adj, nil
}

// IsOverride reports whether an adjustment reason carries the override marker.
func IsOverride(reason string) bool {
	return strings.HasPrefix(strings.TrimSpace(reason), models.OverrideMarker)
}

// OverrideReason prefixes reason with the override marker once.
func OverrideReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if IsOverride(reason) {
		return reason
	}
	return models.OverrideMarker + " " + reason
}

// NeedsShortPlan reports whether an adjustment should spread the payroll's
// short across weekly deductions.
func NeedsShortPlan(p *models.Payroll, terms int) bool {
	return terms > 1 && p.Short > 0
}

// OverShort compares a cash count with the expected system balance. At most
// one of the two results is non-zero.
func OverShort(systemBalance, cashOnHand float64) (over, short float64) {
	diff := sub(cashOnHand, systemBalance)
	if diff >= 0 {
		return diff, 0
	}
	return 0, -diff
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OverrideMarker prefixes the reason of an administrative override.
const OverrideMarker = "[OVERRIDE]"

// Payroll is one user's pay for one day.
type Payroll struct {
	ID                primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	User              primitive.ObjectID  `json:"user" bson:"user"`
	Date              string              `json:"date" bson:"date"` // yyyy-MM-dd
	Role              string              `json:"role" bson:"role"`
	RoleWorkedAs      string              `json:"roleWorkedAs,omitempty" bson:"roleWorkedAs,omitempty"`
	BaseSalary        float64             `json:"baseSalary" bson:"baseSalary"`
	Over              float64             `json:"over" bson:"over"`
	Short             float64             `json:"short" bson:"short"`
	Deduction         float64             `json:"deduction" bson:"deduction"`
	Withdrawal        float64             `json:"withdrawal" bson:"withdrawal"`
	TotalSalary       float64             `json:"totalSalary" bson:"totalSalary"`
	DaysPresent       int                 `json:"daysPresent" bson:"daysPresent"`
	Approved          bool                `json:"approved" bson:"approved"`
	Locked            bool                `json:"locked" bson:"locked"`
	Withdrawn         bool                `json:"withdrawn" bson:"withdrawn"`
	Adjustments       []Adjustment        `json:"adjustments" bson:"adjustments"`
	ShortPaymentTerms int                 `json:"shortPaymentTerms,omitempty" bson:"shortPaymentTerms,omitempty"`
	ApprovedBy        *primitive.ObjectID `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt        *time.Time          `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	LockedAt          *time.Time          `json:"lockedAt,omitempty" bson:"lockedAt,omitempty"`
	WithdrawnAt       *time.Time          `json:"withdrawnAt,omitempty" bson:"withdrawnAt,omitempty"`
	Version           int64               `json:"version" bson:"version"`
	CreatedAt         time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Adjustment is an append-only, signed change to a payroll's total.
type Adjustment struct {
	Delta     float64            `json:"delta" bson:"delta"`
	Reason    string             `json:"reason" bson:"reason"`
	AdminID   primitive.ObjectID `json:"adminId" bson:"adminId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// PayrollStatus is derived from the approved/locked/withdrawn flags.
func (p *Payroll) Status() string {
	switch {
	case p.Withdrawn:
		return "withdrawn"
	case p.Locked:
		return "locked"
	case p.Approved:
		return "approved"
	default:
		return "pending"
	}
}

// PayrollFilter narrows payroll listings.
type PayrollFilter struct {
	UserID    *primitive.ObjectID
	From      string
	To        string
	Approved  *bool
	Withdrawn *bool
	Locked    *bool
	Limit     int64
}

type AdjustPayrollRequest struct {
	Delta             float64 `json:"delta" validate:"required"`
	Reason            string  `json:"reason" validate:"required,max=500"`
	ShortPaymentTerms int     `json:"shortPaymentTerms,omitempty" validate:"omitempty,gte=1,lte=52"`
}

type SetBaseSalaryRequest struct {
	BaseSalary *float64 `json:"baseSalary" validate:"required,gte=0"`
}

type AmountRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Reason string  `json:"reason,omitempty" validate:"max=500"`
}

type WithdrawRequest struct {
	UserID string `json:"userId" validate:"required,len=24,hexadecimal"`
}

type ReconcileRequest struct {
	From   string `json:"from" validate:"required,datetime=2006-01-02"`
	To     string `json:"to" validate:"required,datetime=2006-01-02"`
	DryRun bool   `json:"dryRun"`
}

// PayrollBalance is what a user can still withdraw.
type PayrollBalance struct {
	UserID    primitive.ObjectID `json:"userId"`
	Available float64            `json:"available"`
	Pending   float64            `json:"pending"`
	Count     int                `json:"count"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ShortPaymentActive    = "active"
	ShortPaymentCompleted = "completed"
)

// ShortPayment spreads a payroll's short over weekly deductions.
type ShortPayment struct {
	ID              primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID   `json:"userId" bson:"userId"`
	PayrollID       primitive.ObjectID   `json:"payrollId" bson:"payrollId"`
	TotalShort      float64              `json:"totalShort" bson:"totalShort"`
	Terms           int                  `json:"terms" bson:"terms"`
	Installments    []float64            `json:"installments" bson:"installments"`
	PaidTerms       int                  `json:"paidTerms" bson:"paidTerms"`
	AmountPaid      float64              `json:"amountPaid" bson:"amountPaid"`
	Status          string               `json:"status" bson:"status"`
	NextDueAt       time.Time            `json:"nextDueAt" bson:"nextDueAt"`
	AppliedPayrolls []primitive.ObjectID `json:"appliedPayrolls,omitempty" bson:"appliedPayrolls,omitempty"`
	CreatedBy       primitive.ObjectID   `json:"createdBy" bson:"createdBy"`
	Version         int64                `json:"version" bson:"version"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Remaining is the short not yet collected.
func (s *ShortPayment) Remaining() float64 {
	return s.TotalShort - s.AmountPaid
}

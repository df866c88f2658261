package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TellerReport is a teller's end-of-day cash count.
type TellerReport struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TellerID      primitive.ObjectID  `json:"tellerId" bson:"tellerId"`
	SupervisorID  *primitive.ObjectID `json:"supervisorId,omitempty" bson:"supervisorId,omitempty"`
	Date          string              `json:"date" bson:"date"`
	SystemBalance float64             `json:"systemBalance" bson:"systemBalance"`
	CashOnHand    float64             `json:"cashOnHand" bson:"cashOnHand"`
	Over          float64             `json:"over" bson:"over"`
	Short         float64             `json:"short" bson:"short"`
	Remarks       string              `json:"remarks,omitempty" bson:"remarks,omitempty"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
}

type SubmitTellerReportRequest struct {
	TellerID      string   `json:"tellerId" validate:"required,len=24,hexadecimal"`
	Date          string   `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SystemBalance *float64 `json:"systemBalance" validate:"required,gte=0"`
	CashOnHand    *float64 `json:"cashOnHand" validate:"required,gte=0"`
	Remarks       string   `json:"remarks,omitempty" validate:"max=500"`
}

type TellerReportResult struct {
	Report  *TellerReport `json:"report"`
	Payroll *Payroll      `json:"payroll"`
}

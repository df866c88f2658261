package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CapitalTypeCapital    = "capital"
	CapitalTypeAdditional = "additional"
	CapitalTypeRemittance = "remittance"

	CapitalStatusActive    = "active"
	CapitalStatusCompleted = "completed"
)

// Capital is either a cash float issued to a teller (type capital, carrying
// the running totals) or one ledger entry against it (additional, remittance)
// linked through ParentID.
type Capital struct {
	ID                primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	TellerID          primitive.ObjectID  `json:"tellerId" bson:"tellerId"`
	SupervisorID      primitive.ObjectID  `json:"supervisorId" bson:"supervisorId"`
	ParentID          *primitive.ObjectID `json:"parentId,omitempty" bson:"parentId,omitempty"`
	Amount            float64             `json:"amount" bson:"amount"`
	AdditionalCapital float64             `json:"additionalCapital" bson:"additionalCapital"`
	Type              string              `json:"type" bson:"type"`
	Status            string              `json:"status" bson:"status"`
	TotalRemitted     float64             `json:"totalRemitted" bson:"totalRemitted"`
	Date              string              `json:"date" bson:"date"` // yyyy-MM-dd
	Note              string              `json:"note,omitempty" bson:"note,omitempty"`
	Version           int64               `json:"version" bson:"version"`
	CreatedAt         time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// CapitalActivity summarises which side of capital transactions a user was
// on for one day.
type CapitalActivity struct {
	ReceivedAsTeller bool
	GaveAsSupervisor bool
}

type AddCapitalRequest struct {
	TellerID string  `json:"tellerId" validate:"required,len=24,hexadecimal"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Note     string  `json:"note,omitempty" validate:"max=500"`
}

type CapitalEntryRequest struct {
	TellerID string  `json:"tellerId" validate:"required,len=24,hexadecimal"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Note     string  `json:"note,omitempty" validate:"max=500"`
}

// CapitalSummary is the active float with its derived outstanding balance.
type CapitalSummary struct {
	Capital     *Capital `json:"capital"`
	Outstanding float64  `json:"outstanding"`
}

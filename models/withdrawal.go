package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Withdrawal records a payout of approved payrolls to a user.
type Withdrawal struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID   `bson:"userId" json:"userId"`
	Amount      float64              `bson:"amount" json:"amount"`
	PayrollIDs  []primitive.ObjectID `bson:"payrollIds" json:"payrollIds"`
	Status      string               `bson:"status" json:"status"` // "completed"
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	ProcessedAt *time.Time           `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
	AdminID     *primitive.ObjectID  `bson:"adminId,omitempty" json:"adminId,omitempty"`
}

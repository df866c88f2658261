package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shift is unique per {userId, date}.
type Shift struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId"`
	Date           string             `json:"date" bson:"date"` // yyyy-MM-dd
	AssignedRole   string             `json:"assignedRole" bson:"assignedRole"`
	RoleWorkedAs   string             `json:"roleWorkedAs" bson:"roleWorkedAs"`
	BaseSalaryUsed float64            `json:"baseSalaryUsed" bson:"baseSalaryUsed"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type SetShiftRequest struct {
	UserID       string `json:"userId" validate:"required,len=24,hexadecimal"`
	Date         string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AssignedRole string `json:"assignedRole,omitempty" validate:"omitempty,oneof=admin assistantAdmin supervisor declarator watcher head_watcher sub_watcher teller supervisor_teller"`
	RoleWorkedAs string `json:"roleWorkedAs,omitempty" validate:"omitempty,oneof=admin assistantAdmin supervisor declarator watcher head_watcher sub_watcher teller"`
}

// ShiftResult is the shift and the payroll it produced.
type ShiftResult struct {
	Shift   *Shift   `json:"shift"`
	Payroll *Payroll `json:"payroll"`
}

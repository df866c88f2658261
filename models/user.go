// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is owned by the auth service; this backend reads it and keeps the
// cached baseSalary and supervisor assignment in sync.
type User struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Email        string              `json:"email" bson:"email"`
	FullName     string              `json:"fullName" bson:"fullName"`
	Role         string              `json:"role" bson:"role"`
	BaseSalary   float64             `json:"baseSalary" bson:"baseSalary"`
	SupervisorID *primitive.ObjectID `json:"supervisorId,omitempty" bson:"supervisorId,omitempty"`
	IsActive     bool                `json:"isActive" bson:"isActive"`
	FCMToken     string              `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Response is the envelope every handler answers with.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

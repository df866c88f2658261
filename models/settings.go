package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles that carry a base salary in SystemSettings.
const (
	RoleAdmin          = "admin"
	RoleAssistantAdmin = "assistantAdmin"
	RoleSupervisor     = "supervisor"
	RoleDeclarator     = "declarator"
	RoleWatcher        = "watcher"
	RoleHeadWatcher    = "head_watcher"
	RoleSubWatcher     = "sub_watcher"
	RoleTeller         = "teller"

	// RoleSupervisorTeller works either side of a capital transaction and
	// has no base salary of its own.
	RoleSupervisorTeller = "supervisor_teller"
)

// SalaryRoles lists every key of SystemSettings.BaseSalary.
var SalaryRoles = []string{
	RoleAdmin,
	RoleAssistantAdmin,
	RoleSupervisor,
	RoleDeclarator,
	RoleWatcher,
	RoleHeadWatcher,
	RoleSubWatcher,
	RoleTeller,
}

// SystemSettings is the process-wide singleton document.
type SystemSettings struct {
	ID                             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	BaseSalary                     map[string]float64 `json:"baseSalary" bson:"baseSalary"`
	ShiftStartTime                 string             `json:"shiftStartTime" bson:"shiftStartTime"`
	ResetTime                      string             `json:"resetTime" bson:"resetTime"`
	SupervisorResetTime            string             `json:"supervisorResetTime" bson:"supervisorResetTime"`
	AutoResetSupervisorAssignments bool               `json:"autoResetSupervisorAssignments" bson:"autoResetSupervisorAssignments"`
	Timezone                       string             `json:"timezone" bson:"timezone"`
	CommissionRate                 float64            `json:"commissionRate" bson:"commissionRate"`
	AllowMultipleReportsPerDay     bool               `json:"allowMultipleReportsPerDay" bson:"allowMultipleReportsPerDay"`
	Theme                          string             `json:"theme" bson:"theme"`
	Version                        int64              `json:"version" bson:"version"`
	CreatedAt                      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt                      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DefaultSystemSettings is what a missing settings document is created with.
func DefaultSystemSettings(now time.Time) *SystemSettings {
	return &SystemSettings{
		BaseSalary: map[string]float64{
			RoleAdmin:          1000,
			RoleAssistantAdmin: 800,
			RoleSupervisor:     500,
			RoleDeclarator:     450,
			RoleWatcher:        400,
			RoleHeadWatcher:    500,
			RoleSubWatcher:     350,
			RoleTeller:         450,
		},
		ShiftStartTime:                 "08:00",
		ResetTime:                      "00:00",
		SupervisorResetTime:            "00:00",
		AutoResetSupervisorAssignments: true,
		Timezone:                       "Asia/Manila",
		CommissionRate:                 0,
		AllowMultipleReportsPerDay:     false,
		Theme:                          "light",
		Version:                        1,
		CreatedAt:                      now,
		UpdatedAt:                      now,
	}
}

// Clone returns a deep copy so cached snapshots are never mutated in place.
func (s *SystemSettings) Clone() *SystemSettings {
	if s == nil {
		return nil
	}
	cp := *s
	cp.BaseSalary = make(map[string]float64, len(s.BaseSalary))
	for k, v := range s.BaseSalary {
		cp.BaseSalary[k] = v
	}
	return &cp
}

// SettingsUpdateRequest is a partial update; nil fields are left untouched.
type SettingsUpdateRequest struct {
	BaseSalary                     map[string]float64 `json:"baseSalary,omitempty" validate:"omitempty,dive,keys,oneof=admin assistantAdmin supervisor declarator watcher head_watcher sub_watcher teller,endkeys,gte=0"`
	ShiftStartTime                 *string            `json:"shiftStartTime,omitempty" validate:"omitempty,datetime=15:04"`
	ResetTime                      *string            `json:"resetTime,omitempty" validate:"omitempty,datetime=15:04"`
	SupervisorResetTime            *string            `json:"supervisorResetTime,omitempty" validate:"omitempty,datetime=15:04"`
	AutoResetSupervisorAssignments *bool              `json:"autoResetSupervisorAssignments,omitempty"`
	Timezone                       *string            `json:"timezone,omitempty" validate:"omitempty,timezone"`
	CommissionRate                 *float64           `json:"commissionRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	AllowMultipleReportsPerDay     *bool              `json:"allowMultipleReportsPerDay,omitempty"`
	Theme                          *string            `json:"theme,omitempty" validate:"omitempty,oneof=light dark"`
}

// SupervisorResetRequest updates the scheduler's time and enabled flag.
type SupervisorResetRequest struct {
	SupervisorResetTime            string `json:"supervisorResetTime" validate:"required,datetime=15:04"`
	AutoResetSupervisorAssignments *bool  `json:"autoResetSupervisorAssignments" validate:"required"`
}

package services

import (
	"context"
	"time"

	"github.com/HSouheill/tellerdesk_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The stores below are satisfied by the Mongo repositories; services depend
// on these narrow views so they can be exercised with fakes.

type SettingsStore interface {
	GetOrCreate(ctx context.Context, defaults *models.SystemSettings) (*models.SystemSettings, error)
	Replace(ctx context.Context, s *models.SystemSettings, expected int64) error
}

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateBaseSalaryByRole(ctx context.Context, roles []string, salary float64) (int64, error)
	SetBaseSalary(ctx context.Context, id primitive.ObjectID, salary float64) error
	ClearSupervisorAssignments(ctx context.Context) (int64, error)
}

type PayrollStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error)
	FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) (*models.Payroll, error)
	FindLatestOpen(ctx context.Context, userID primitive.ObjectID) (*models.Payroll, error)
	List(ctx context.Context, f models.PayrollFilter) ([]models.Payroll, error)
	Create(ctx context.Context, p *models.Payroll) error
	Update(ctx context.Context, p *models.Payroll, expected int64) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CapitalStore interface {
	FindActive(ctx context.Context, tellerID primitive.ObjectID) (*models.Capital, error)
	Insert(ctx context.Context, c *models.Capital) error
	Update(ctx context.Context, c *models.Capital, expected int64) error
	DeleteWithEntries(ctx context.Context, id primitive.ObjectID) (int64, error)
	History(ctx context.Context, tellerID primitive.ObjectID, limit int64) ([]models.Capital, error)
	ActivityForDay(ctx context.Context, userID primitive.ObjectID, date string) (models.CapitalActivity, error)
}

type ShiftStore interface {
	FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) (*models.Shift, error)
	Upsert(ctx context.Context, s *models.Shift) (*models.Shift, error)
	History(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Shift, error)
}

type TellerReportStore interface {
	Create(ctx context.Context, report *models.TellerReport) error
	ListForDay(ctx context.Context, tellerID primitive.ObjectID, date string) ([]models.TellerReport, error)
	ListByTeller(ctx context.Context, tellerID primitive.ObjectID, limit int64) ([]models.TellerReport, error)
}

type ShortPaymentStore interface {
	Create(ctx context.Context, plan *models.ShortPayment) error
	Update(ctx context.Context, plan *models.ShortPayment, expected int64) error
	FindDue(ctx context.Context, now time.Time) ([]models.ShortPayment, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ShortPayment, error)
}

type WithdrawalStore interface {
	Create(ctx context.Context, w *models.Withdrawal) error
}

// SettingsProvider hands out the current settings snapshot.
type SettingsProvider interface {
	Get(ctx context.Context) (*models.SystemSettings, error)
}

// EventBroadcaster pushes fire-and-forget refresh events to connected UIs.
type EventBroadcaster interface {
	Broadcast(event string, data interface{})
}

// UserNotifier delivers a per-user notification (in-app record and push).
type UserNotifier interface {
	NotifyUser(ctx context.Context, userID primitive.ObjectID, title, message, notifType string, data interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(string, interface{}) {}

type noopNotifier struct{}

func (noopNotifier) NotifyUser(context.Context, primitive.ObjectID, string, string, string, interface{}) {}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DayPayroll identifies the payroll a shift or report belongs to and the
// base salary it should carry.
type DayPayroll struct {
	UserID       primitive.ObjectID
	Date         string
	Role         string
	RoleWorkedAs string
	BaseSalary   float64
}

type PayrollService struct {
	payrolls    PayrollStore
	withdrawals WithdrawalStore
	plans       *ShortPaymentService
	events      EventBroadcaster
	notifier    UserNotifier
	logger      *logrus.Logger
	now         func() time.Time
}

func NewPayrollService(payrolls PayrollStore, withdrawals WithdrawalStore, plans *ShortPaymentService, events EventBroadcaster, notifier UserNotifier) *PayrollService {
	if events == nil {
		events = noopBroadcaster{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &PayrollService{
		payrolls:    payrolls,
		withdrawals: withdrawals,
		plans:       plans,
		events:      events,
		notifier:    notifier,
		logger:      config.GetLogger(),
		now:         time.Now,
	}
}

func (s *PayrollService) Get(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error) {
	p, err := s.payrolls.FindByID(ctx, id)
	return p, appErr(err)
}

func (s *PayrollService) List(ctx context.Context, f models.PayrollFilter) ([]models.Payroll, error) {
	if (f.From != "" && !ledger.ValidDate(f.From)) || (f.To != "" && !ledger.ValidDate(f.To)) {
		return nil, apperror.Invalid("dates must be yyyy-MM-dd")
	}
	list, err := s.payrolls.List(ctx, f)
	return list, appErr(err)
}

// mutate loads a payroll, applies fn and writes it back under the version
// guard. A concurrent writer makes this fail with ErrVersionConflict.
func (s *PayrollService) mutate(ctx context.Context, id primitive.ObjectID, fn func(p *models.Payroll) error) (*models.Payroll, error) {
	p, err := s.payrolls.FindByID(ctx, id)
	if err != nil {
		return nil, appErr(err)
	}
	expected := p.Version
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.payrolls.Update(ctx, p, expected); err != nil {
		return nil, appErr(err)
	}
	return p, nil
}

// Adjust appends a signed adjustment. With shortPaymentTerms > 1 and a
// short on the payroll, the short is also spread into a weekly plan. A plan
// that cannot be stored is reported to the admin; the adjustment stands.
func (s *PayrollService) Adjust(ctx context.Context, id, adminID primitive.ObjectID, req models.AdjustPayrollRequest) (*models.Payroll, error) {
	var adj models.Adjustment
	p, err := s.mutate(ctx, id, func(p *models.Payroll) error {
		var err error
		adj, err = ledger.ApplyAdjustment(p, ledger.AdjustmentInput{
			Delta:             req.Delta,
			Reason:            req.Reason,
			AdminID:           adminID,
			ShortPaymentTerms: req.ShortPaymentTerms,
		}, s.now())
		if err != nil {
			return err
		}
		if ledger.NeedsShortPlan(p, req.ShortPaymentTerms) {
			_, err = ledger.Installments(p.Short, req.ShortPaymentTerms)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payrollId": p.ID.Hex(),
		"delta":     adj.Delta,
		"adminId":   adminID.Hex(),
		"total":     p.TotalSalary,
	}).Info("Payroll adjusted")

	if ledger.NeedsShortPlan(p, req.ShortPaymentTerms) && s.plans != nil {
		// The adjustment is stored by now and stays stored.
		if _, err := s.plans.CreatePlan(ctx, p, req.ShortPaymentTerms, adminID); err != nil {
			config.LogError(s.logger, "payroll", "Adjust", "create short plan", logrus.Fields{"payrollId": p.ID.Hex()}, err)
			s.notifier.NotifyUser(ctx, adminID, "Short payment plan not created",
				fmt.Sprintf("The adjustment on payroll %s was saved but its %d-week short plan could not be created", p.ID.Hex(), req.ShortPaymentTerms),
				"short_plan_failed", map[string]interface{}{"payrollId": p.ID.Hex()})
		}
	}

	s.events.Broadcast(websocket.EventPayrollAdjusted, p)
	s.notifier.NotifyUser(ctx, p.User, "Payroll adjusted",
		fmt.Sprintf("Your payroll for %s was adjusted by %.2f: %s", p.Date, adj.Delta, adj.Reason),
		"payroll_adjusted", map[string]interface{}{"payrollId": p.ID.Hex()})
	return p, nil
}

// Override is an adjustment whose reason carries the override marker.
func (s *PayrollService) Override(ctx context.Context, id, adminID primitive.ObjectID, req models.AdjustPayrollRequest) (*models.Payroll, error) {
	if req.Reason == "" {
		return nil, apperror.ErrReasonRequired
	}
	req.Reason = ledger.OverrideReason(req.Reason)
	return s.Adjust(ctx, id, adminID, req)
}

func (s *PayrollService) SetBaseSalary(ctx context.Context, id primitive.ObjectID, base float64) (*models.Payroll, error) {
	p, err := s.mutate(ctx, id, func(p *models.Payroll) error {
		_, err := ledger.SetBaseSalary(p, base)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.Broadcast(websocket.EventPayrollUpdated, p)
	return p, nil
}

func (s *PayrollService) Approve(ctx context.Context, id, adminID primitive.ObjectID) (*models.Payroll, error) {
	p, err := s.mutate(ctx, id, func(p *models.Payroll) error {
		return ledger.Approve(p, adminID, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.events.Broadcast(websocket.EventPayrollApproved, p)
	s.notifier.NotifyUser(ctx, p.User, "Payroll approved",
		fmt.Sprintf("Your payroll for %s (%.2f) was approved", p.Date, p.TotalSalary),
		"payroll_approved", map[string]interface{}{"payrollId": p.ID.Hex()})
	return p, nil
}

func (s *PayrollService) Disapprove(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error) {
	return s.transition(ctx, id, ledger.Disapprove)
}

func (s *PayrollService) Lock(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error) {
	return s.transition(ctx, id, func(p *models.Payroll) error {
		return ledger.Lock(p, s.now())
	})
}

func (s *PayrollService) Unlock(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error) {
	return s.transition(ctx, id, ledger.Unlock)
}

func (s *PayrollService) transition(ctx context.Context, id primitive.ObjectID, fn func(p *models.Payroll) error) (*models.Payroll, error) {
	p, err := s.mutate(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	s.events.Broadcast(websocket.EventPayrollUpdated, p)
	return p, nil
}

func (s *PayrollService) AddDeduction(ctx context.Context, id primitive.ObjectID, amount float64) (*models.Payroll, error) {
	return s.transition(ctx, id, func(p *models.Payroll) error {
		return ledger.AddDeduction(p, amount)
	})
}

// CashAdvance records money paid out ahead of payroll.
func (s *PayrollService) CashAdvance(ctx context.Context, id primitive.ObjectID, amount float64) (*models.Payroll, error) {
	return s.transition(ctx, id, func(p *models.Payroll) error {
		return ledger.AddWithdrawal(p, amount)
	})
}

func (s *PayrollService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.payrolls.Delete(ctx, id); err != nil {
		return appErr(err)
	}
	s.events.Broadcast(websocket.EventPayrollUpdated, map[string]string{"id": id.Hex(), "deleted": "true"})
	return nil
}

// AvailableBalance sums approved unwithdrawn payrolls; unapproved ones are
// reported as pending.
func (s *PayrollService) AvailableBalance(ctx context.Context, userID primitive.ObjectID) (*models.PayrollBalance, error) {
	notWithdrawn := false
	list, err := s.payrolls.List(ctx, models.PayrollFilter{UserID: &userID, Withdrawn: &notWithdrawn})
	if err != nil {
		return nil, appErr(err)
	}
	var available, pending []float64
	for i := range list {
		if ledger.Withdrawable(&list[i]) {
			available = append(available, list[i].TotalSalary)
		} else {
			pending = append(pending, list[i].TotalSalary)
		}
	}
	return &models.PayrollBalance{
		UserID:    userID,
		Available: ledger.Sum(available...),
		Pending:   ledger.Sum(pending...),
		Count:     len(available),
	}, nil
}

// Withdraw pays out every approved payroll of the user. Payrolls written
// concurrently are skipped and the error is returned alongside whatever was
// paid out.
func (s *PayrollService) Withdraw(ctx context.Context, userID, adminID primitive.ObjectID) (*models.Withdrawal, error) {
	approved, notWithdrawn := true, false
	list, err := s.payrolls.List(ctx, models.PayrollFilter{UserID: &userID, Approved: &approved, Withdrawn: &notWithdrawn})
	if err != nil {
		return nil, appErr(err)
	}
	if len(list) == 0 {
		return nil, apperror.Invalid("no approved payroll to withdraw")
	}

	now := s.now()
	var ids []primitive.ObjectID
	var amounts []float64
	var failed error
	for i := range list {
		p := &list[i]
		expected := p.Version
		if err := ledger.MarkWithdrawn(p, now); err != nil {
			failed = err
			continue
		}
		if err := s.payrolls.Update(ctx, p, expected); err != nil {
			config.LogError(s.logger, "payroll", "Withdraw", "mark withdrawn", logrus.Fields{"payrollId": p.ID.Hex()}, err)
			failed = appErr(err)
			continue
		}
		ids = append(ids, p.ID)
		amounts = append(amounts, p.TotalSalary)
	}
	if len(ids) == 0 {
		return nil, failed
	}

	w := &models.Withdrawal{
		UserID:      userID,
		Amount:      ledger.Sum(amounts...),
		PayrollIDs:  ids,
		Status:      "completed",
		CreatedAt:   now,
		ProcessedAt: &now,
		AdminID:     &adminID,
	}
	if err := s.withdrawals.Create(ctx, w); err != nil {
		config.LogError(s.logger, "payroll", "Withdraw", "record withdrawal", logrus.Fields{"userId": userID.Hex()}, err)
		return nil, appErr(err)
	}
	s.events.Broadcast(websocket.EventPayrollUpdated, w)
	s.notifier.NotifyUser(ctx, userID, "Payroll withdrawn",
		fmt.Sprintf("%.2f from %d payroll(s) was paid out", w.Amount, len(ids)),
		"payroll_withdrawn", map[string]interface{}{"withdrawalId": w.ID.Hex()})
	return w, failed
}

// EnsureForDay creates the day's payroll or re-bases an existing one to
// d.BaseSalary through a delta. Locked and withdrawn payrolls are returned
// untouched.
func (s *PayrollService) EnsureForDay(ctx context.Context, d DayPayroll) (*models.Payroll, error) {
	p, err := s.payrolls.FindByUserAndDate(ctx, d.UserID, d.Date)
	if errors.Is(err, apperror.ErrPayrollNotFound) {
		p = &models.Payroll{
			User:         d.UserID,
			Date:         d.Date,
			Role:         d.Role,
			RoleWorkedAs: d.RoleWorkedAs,
			BaseSalary:   ledger.Round2(d.BaseSalary),
			TotalSalary:  ledger.Round2(d.BaseSalary),
			DaysPresent:  1,
		}
		err = s.payrolls.Create(ctx, p)
		if err == nil {
			return p, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, appErr(err)
		}
		// Lost the race to another writer; fall through and re-base theirs.
		p, err = s.payrolls.FindByUserAndDate(ctx, d.UserID, d.Date)
	}
	if err != nil {
		return nil, appErr(err)
	}
	if ledger.CheckMutable(p) != nil {
		return p, nil
	}

	expected := p.Version
	if _, err := ledger.SetBaseSalary(p, d.BaseSalary); err != nil {
		return nil, err
	}
	if d.Role != "" {
		p.Role = d.Role
	}
	p.RoleWorkedAs = d.RoleWorkedAs
	if err := s.payrolls.Update(ctx, p, expected); err != nil {
		return nil, appErr(err)
	}
	return p, nil
}

// SyncOverShort sets the payroll's over and short to the day's totals.
func (s *PayrollService) SyncOverShort(ctx context.Context, id primitive.ObjectID, over, short float64) (*models.Payroll, error) {
	return s.transition(ctx, id, func(p *models.Payroll) error {
		_, err := ledger.SetOverShort(p, over, short)
		return err
	})
}

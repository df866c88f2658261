package services

import (
	"context"
	"errors"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const installmentInterval = 7 * 24 * time.Hour

// ShortPaymentService recovers a short in weekly installments, each taken as
// a deduction on the user's newest open payroll.
type ShortPaymentService struct {
	plans    ShortPaymentStore
	payrolls PayrollStore
	events   EventBroadcaster
	logger   *logrus.Logger
	now      func() time.Time
}

func NewShortPaymentService(plans ShortPaymentStore, payrolls PayrollStore, events EventBroadcaster) *ShortPaymentService {
	if events == nil {
		events = noopBroadcaster{}
	}
	return &ShortPaymentService{
		plans:    plans,
		payrolls: payrolls,
		events:   events,
		logger:   config.GetLogger(),
		now:      time.Now,
	}
}

// CreatePlan splits p.Short into terms installments. The first one falls
// due a week from now.
func (s *ShortPaymentService) CreatePlan(ctx context.Context, p *models.Payroll, terms int, adminID primitive.ObjectID) (*models.ShortPayment, error) {
	installments, err := ledger.Installments(p.Short, terms)
	if err != nil {
		return nil, err
	}
	now := s.now()
	plan := &models.ShortPayment{
		UserID:       p.User,
		PayrollID:    p.ID,
		TotalShort:   ledger.Round2(p.Short),
		Terms:        terms,
		Installments: installments,
		Status:       models.ShortPaymentActive,
		NextDueAt:    now.Add(installmentInterval),
		CreatedBy:    adminID,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, appErr(err)
	}
	s.logger.WithFields(logrus.Fields{
		"planId":    plan.ID.Hex(),
		"payrollId": p.ID.Hex(),
		"terms":     terms,
	}).Info("Short payment plan created")
	return plan, nil
}

func (s *ShortPaymentService) List(ctx context.Context, userID primitive.ObjectID) ([]models.ShortPayment, error) {
	plans, err := s.plans.ListByUser(ctx, userID)
	return plans, appErr(err)
}

// CollectDue takes one installment from every plan that is due. Plans whose
// user has no open payroll stay due and are retried on the next run.
func (s *ShortPaymentService) CollectDue(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.plans.FindDue(ctx, now)
	if err != nil {
		return 0, appErr(err)
	}

	collected := 0
	for i := range due {
		plan := &due[i]
		if err := s.collect(ctx, plan, now); err != nil {
			if errors.Is(err, apperror.ErrPayrollNotFound) {
				s.logger.WithField("planId", plan.ID.Hex()).Warn("No open payroll to collect short installment from")
				continue
			}
			config.LogError(s.logger, "shortPayment", "CollectDue", "", logrus.Fields{"planId": plan.ID.Hex()}, err)
			continue
		}
		collected++
	}
	if collected > 0 {
		s.events.Broadcast(websocket.EventPayrollUpdated, map[string]int{"installmentsCollected": collected})
	}
	return collected, nil
}

func (s *ShortPaymentService) collect(ctx context.Context, plan *models.ShortPayment, now time.Time) error {
	if plan.PaidTerms >= len(plan.Installments) {
		return apperror.Invalid("plan has no installments left")
	}
	amount := plan.Installments[plan.PaidTerms]

	p, err := s.payrolls.FindLatestOpen(ctx, plan.UserID)
	if err != nil {
		return err
	}
	expected := p.Version
	if err := ledger.AddDeduction(p, amount); err != nil {
		return err
	}
	if err := s.payrolls.Update(ctx, p, expected); err != nil {
		return err
	}

	planVersion := plan.Version
	plan.PaidTerms++
	plan.AmountPaid = ledger.Sum(plan.AmountPaid, amount)
	plan.AppliedPayrolls = append(plan.AppliedPayrolls, p.ID)
	if plan.PaidTerms >= plan.Terms {
		plan.Status = models.ShortPaymentCompleted
	} else {
		plan.NextDueAt = plan.NextDueAt.Add(installmentInterval)
	}
	return s.plans.Update(ctx, plan, planVersion)
}

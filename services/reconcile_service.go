package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BaseChange is one payroll whose base salary no longer matches settings.
type BaseChange struct {
	PayrollID primitive.ObjectID `json:"payrollId"`
	UserID    primitive.ObjectID `json:"userId"`
	Date      string             `json:"date"`
	Role      string             `json:"role"`
	OldBase   float64            `json:"oldBase"`
	NewBase   float64            `json:"newBase"`
	OldTotal  float64            `json:"oldTotal"`
	NewTotal  float64            `json:"newTotal"`
	Applied   bool               `json:"applied"`
	Skipped   string             `json:"skipped,omitempty"`
}

// PayrollDrift is a payroll whose stored total disagrees with its components.
type PayrollDrift struct {
	PayrollID primitive.ObjectID `json:"payrollId"`
	UserID    primitive.ObjectID `json:"userId"`
	Date      string             `json:"date"`
	Stored    float64            `json:"stored"`
	Expected  float64            `json:"expected"`
	Drift     float64            `json:"drift"`
}

type ReconcileResult struct {
	From    string         `json:"from"`
	To      string         `json:"to"`
	DryRun  bool           `json:"dryRun"`
	Scanned int            `json:"scanned"`
	Rebased int            `json:"rebased"`
	Changes []BaseChange   `json:"changes"`
	Drifts  []PayrollDrift `json:"drifts"`
	Errors  []string       `json:"errors,omitempty"`
}

// Summary renders the result as plain text for email.
func (r *ReconcileResult) Summary() string {
	var b strings.Builder
	mode := "applied"
	if r.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(&b, "Payroll reconciliation %s to %s (%s)\n", r.From, r.To, mode)
	fmt.Fprintf(&b, "Scanned: %d, re-based: %d, base mismatches: %d, drifted totals: %d\n\n",
		r.Scanned, r.Rebased, len(r.Changes), len(r.Drifts))
	for _, c := range r.Changes {
		status := "applied"
		if !c.Applied {
			status = "not applied"
			if c.Skipped != "" {
				status += ": " + c.Skipped
			}
		}
		fmt.Fprintf(&b, "  %s %s %s base %.2f -> %.2f total %.2f -> %.2f (%s)\n",
			c.Date, c.UserID.Hex(), c.Role, c.OldBase, c.NewBase, c.OldTotal, c.NewTotal, status)
	}
	if len(r.Drifts) > 0 {
		b.WriteString("\nDrift (stored minus expected):\n")
		for _, d := range r.Drifts {
			fmt.Fprintf(&b, "  %s %s payroll %s stored %.2f expected %.2f drift %.2f\n",
				d.Date, d.UserID.Hex(), d.PayrollID.Hex(), d.Stored, d.Expected, d.Drift)
		}
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "error: %s\n", e)
	}
	return b.String()
}

// ReconcileService re-bases payrolls to the current settings and reports
// totals that drifted from their components. Running it twice changes
// nothing the second time.
type ReconcileService struct {
	payrolls PayrollStore
	settings SettingsProvider
	events   EventBroadcaster
	logger   *logrus.Logger
}

func NewReconcileService(payrolls PayrollStore, settings SettingsProvider, events EventBroadcaster) *ReconcileService {
	if events == nil {
		events = noopBroadcaster{}
	}
	return &ReconcileService{
		payrolls: payrolls,
		settings: settings,
		events:   events,
		logger:   config.GetLogger(),
	}
}

func (s *ReconcileService) Run(ctx context.Context, req models.ReconcileRequest) (*ReconcileResult, error) {
	if !ledger.ValidDate(req.From) || !ledger.ValidDate(req.To) {
		return nil, apperror.Invalid("from and to must be yyyy-MM-dd")
	}
	if req.From > req.To {
		return nil, apperror.Invalid("from must not be after to")
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, appErr(err)
	}
	list, err := s.payrolls.List(ctx, models.PayrollFilter{From: req.From, To: req.To})
	if err != nil {
		return nil, appErr(err)
	}

	res := &ReconcileResult{From: req.From, To: req.To, DryRun: req.DryRun, Changes: []BaseChange{}, Drifts: []PayrollDrift{}}
	started := time.Now()
	for i := range list {
		p := &list[i]
		res.Scanned++

		if drift := ledger.Drift(p); drift != 0 {
			res.Drifts = append(res.Drifts, PayrollDrift{
				PayrollID: p.ID,
				UserID:    p.User,
				Date:      p.Date,
				Stored:    p.TotalSalary,
				Expected:  ledger.ExpectedTotal(p),
				Drift:     drift,
			})
		}

		role := p.RoleWorkedAs
		if role == "" {
			role = p.Role
		}
		want := ledger.BaseSalaryFor(st, role)
		if want == p.BaseSalary {
			continue
		}

		change := BaseChange{
			PayrollID: p.ID,
			UserID:    p.User,
			Date:      p.Date,
			Role:      role,
			OldBase:   p.BaseSalary,
			NewBase:   want,
			OldTotal:  p.TotalSalary,
		}
		expected := p.Version
		if _, err := ledger.SetBaseSalary(p, want); err != nil {
			change.NewTotal = change.OldTotal
			change.Skipped = err.Error()
			res.Changes = append(res.Changes, change)
			continue
		}
		change.NewTotal = p.TotalSalary

		if !req.DryRun {
			if err := s.payrolls.Update(ctx, p, expected); err != nil {
				change.Skipped = err.Error()
				res.Errors = append(res.Errors, fmt.Sprintf("payroll %s: %v", p.ID.Hex(), err))
			} else {
				change.Applied = true
				res.Rebased++
			}
		}
		res.Changes = append(res.Changes, change)
	}

	s.logger.WithFields(logrus.Fields{
		"from":     req.From,
		"to":       req.To,
		"dryRun":   req.DryRun,
		"scanned":  res.Scanned,
		"rebased":  res.Rebased,
		"drifts":   len(res.Drifts),
		"duration": time.Since(started).String(),
	}).Info("Payroll reconciliation finished")

	if res.Rebased > 0 {
		s.events.Broadcast(websocket.EventPayrollUpdated, map[string]int{"rebased": res.Rebased})
	}
	return res, nil
}

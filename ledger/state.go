package ledger

import (
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payroll status moves pending -> approved -> locked, approved -> pending by
// disapproval, and ends at withdrawn.

func Approve(p *models.Payroll, adminID primitive.ObjectID, now time.Time) error {
	if err := CheckMutable(p); err != nil {
		return err
	}
	if p.Approved {
		return apperror.ErrInvalidTransition
	}
	p.Approved = true
	p.ApprovedBy = &adminID
	p.ApprovedAt = &now
	return nil
}

func Disapprove(p *models.Payroll) error {
	if err := CheckMutable(p); err != nil {
		return err
	}
	if !p.Approved {
		return apperror.ErrInvalidTransition
	}
	p.Approved = false
	p.ApprovedBy = nil
	p.ApprovedAt = nil
	return nil
}

// Lock requires an approved payroll.
func Lock(p *models.Payroll, now time.Time) error {
	if p.Withdrawn {
		return apperror.ErrPayrollWithdrawn
	}
	if p.Locked || !p.Approved {
		return apperror.ErrInvalidTransition
	}
	p.Locked = true
	p.LockedAt = &now
	return nil
}

func Unlock(p *models.Payroll) error {
	if p.Withdrawn {
		return apperror.ErrPayrollWithdrawn
	}
	if !p.Locked {
		return apperror.ErrInvalidTransition
	}
	p.Locked = false
	p.LockedAt = nil
	return nil
}

// MarkWithdrawn is terminal. Only approved payrolls can be paid out; a lock
// does not block payout.
func MarkWithdrawn(p *models.Payroll, now time.Time) error {
	if p.Withdrawn {
		return apperror.ErrPayrollWithdrawn
	}
	if !p.Approved {
		return apperror.ErrInvalidTransition
	}
	p.Withdrawn = true
	p.WithdrawnAt = &now
	return nil
}

// Withdrawable reports whether a payroll counts toward the available balance.
func Withdrawable(p *models.Payroll) bool {
	return p.Approved && !p.Withdrawn
}

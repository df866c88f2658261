package ledger

import (
	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/models"
)

// Issued is base plus additional capital.
func Issued(c *models.Capital) float64 {
	return add(c.Amount, c.AdditionalCapital)
}

// Outstanding is what the teller still holds: base + additional - remitted.
func Outstanding(c *models.Capital) float64 {
	return sub(Issued(c), c.TotalRemitted)
}

// TopUp adds additional capital to an active float.
func TopUp(c *models.Capital, amount float64) error {
	if c.Status != models.CapitalStatusActive {
		return apperror.ErrCapitalNotFound
	}
	if amount <= 0 {
		return apperror.Invalid("amount must be positive")
	}
	c.AdditionalCapital = add(c.AdditionalCapital, amount)
	return nil
}

// Remit records cash returned by the teller. A remittance that would push
// totalRemitted past the issued amount is rejected, not clamped. The float
// completes once everything issued has come back.
func Remit(c *models.Capital, amount float64) error {
	if c.Status != models.CapitalStatusActive {
		return apperror.ErrCapitalNotFound
	}
	if amount <= 0 {
		return apperror.Invalid("amount must be positive")
	}
	remitted := add(c.TotalRemitted, amount)
	if remitted > Issued(c) {
		return apperror.ErrOverRemittance
	}
	c.TotalRemitted = remitted
	if c.TotalRemitted >= Issued(c) {
		c.Status = models.CapitalStatusCompleted
	}
	return nil
}

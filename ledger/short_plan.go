package ledger

import (
	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/shopspring/decimal"
)

// Installments splits short into terms weekly amounts of short/terms,
// rounded to centavos, with the rounding remainder on the last one.
func Installments(short float64, terms int) ([]float64, error) {
	if terms < 1 {
		return nil, apperror.Invalid("terms must be at least 1")
	}
	if short <= 0 {
		return nil, apperror.Invalid("short must be positive")
	}
	total := decimal.NewFromFloat(short).Round(2)
	each := total.Div(decimal.NewFromInt(int64(terms))).RoundDown(2)
	out := make([]float64, terms)
	paid := decimal.Zero
	for i := 0; i < terms-1; i++ {
		out[i], _ = each.Float64()
		paid = paid.Add(each)
	}
	out[terms-1], _ = total.Sub(paid).Float64()
	return out, nil
}

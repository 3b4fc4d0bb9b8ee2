package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/efactura-reconciler/internal/model"
)

// Allowance is a parsed allowance/charge entry. A null Amount is skipped.
type Allowance struct {
	Amount decimal.NullDecimal
	Charge bool
}

// SplitAllowances returns the signed discount total (<= 0) and charge total (>= 0).
// Amounts are taken by magnitude, so both "-5" and "5" allowances count as a 5 discount.
func SplitAllowances(entries []Allowance) (discountTotal, chargeTotal decimal.Decimal) {
	discountTotal = decimal.Zero
	chargeTotal = decimal.Zero
	for _, e := range entries {
		if !e.Amount.Valid {
			continue
		}
		amount := e.Amount.Decimal.Abs()
		if e.Charge {
			chargeTotal = chargeTotal.Add(amount)
		} else {
			discountTotal = discountTotal.Sub(amount)
		}
	}
	return discountTotal, chargeTotal
}

// parseAllowances converts the textual allowance/charge entries of a line or document
func parseAllowances(entries []model.AllowanceCharge) ([]Allowance, error) {
	out := make([]Allowance, 0, len(entries))
	for _, e := range entries {
		a := Allowance{Charge: e.ChargeIndicator}
		if e.Amount != nil {
			v, err := e.Amount.Decimal()
			if err != nil {
				return nil, err
			}
			a.Amount = decimal.NewNullDecimal(v)
		}
		out = append(out, a)
	}
	return out, nil
}

// DocumentAllowances splits the document level allowance/charge list
func DocumentAllowances(doc *model.Document) (discountTotal, chargeTotal decimal.Decimal, err error) {
	entries, err := parseAllowances(doc.AllowanceCharges)
	if err != nil {
		return decimal.Zero, decimal.Zero, model.NewTotalsError(doc.ID, "AllowanceCharge", "document allowance amount is not numeric: "+err.Error())
	}
	discountTotal, chargeTotal = SplitAllowances(entries)
	return discountTotal, chargeTotal, nil
}

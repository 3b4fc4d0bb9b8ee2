package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	moneydec "github.com/rezonia/efactura-reconciler/internal/decimal"
)

// Distribute splits total across lines in proportion to weights.
// Shares are rounded to the cent and the leftover is handed out one cent at a
// time to the heaviest lines (ties in line order), so the shares always sum to
// total exactly. A zero weight sum splits evenly.
func Distribute(total decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	n := len(weights)
	if n == 0 {
		return []decimal.Decimal{}
	}

	w := make([]decimal.Decimal, n)
	copy(w, weights)
	weightSum := moneydec.Sum(w)
	if weightSum.IsZero() {
		for i := range w {
			w[i] = decimal.NewFromInt(1)
		}
		weightSum = decimal.NewFromInt(int64(n))
	}

	shares := make([]decimal.Decimal, n)
	for i := range w {
		shares[i] = moneydec.RoundCents(total.Mul(w[i]).Div(weightSum))
	}

	remainder := total.Sub(moneydec.Sum(shares))
	if remainder.IsZero() {
		return shares
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return w[order[a]].GreaterThan(w[order[b]])
	})

	step := moneydec.Cent
	if remainder.IsNegative() {
		step = step.Neg()
	}
	cents := remainder.Abs().Div(moneydec.Cent).Floor().IntPart()
	for k := int64(0); k < cents; k++ {
		idx := order[k%int64(n)]
		shares[idx] = shares[idx].Add(step)
	}

	// sub-cent residue when total itself is not a whole number of cents
	if residue := total.Sub(moneydec.Sum(shares)); !residue.IsZero() {
		shares[order[0]] = shares[order[0]].Add(residue)
	}

	return shares
}

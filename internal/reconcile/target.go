package reconcile

import (
	"github.com/shopspring/decimal"

	moneydec "github.com/rezonia/efactura-reconciler/internal/decimal"
)

const minAdjustIterations = 128

// AdjustToTarget rounds values to the cent and nudges them one cent at a time
// until they sum to target. Each step goes to the value whose rounding moved it
// furthest from its original in the direction of the residual. If the step cap
// runs out, the last value absorbs what is left.
func AdjustToTarget(values []decimal.Decimal, target decimal.Decimal) []decimal.Decimal {
	n := len(values)
	if n == 0 {
		return []decimal.Decimal{}
	}

	rounded := make([]decimal.Decimal, n)
	for i, v := range values {
		rounded[i] = moneydec.RoundCents(v)
	}

	diff := moneydec.RoundCents(target.Sub(moneydec.Sum(rounded)))
	maxIterations := max(2*n, minAdjustIterations)
	for iter := 0; iter < maxIterations && !diff.IsZero(); iter++ {
		step := moneydec.Cent
		if diff.IsNegative() {
			step = step.Neg()
		}
		idx := pickAdjustment(values, rounded, diff.IsPositive())
		rounded[idx] = rounded[idx].Add(step)
		diff = diff.Sub(step)
	}

	if rest := target.Sub(moneydec.Sum(rounded)); !rest.IsZero() {
		rounded[n-1] = rounded[n-1].Add(rest)
	}

	return rounded
}

// pickAdjustment returns the index to nudge. For an upward step it is the value
// rounded down the most, for a downward step the value rounded up the most;
// ties resolve to the lowest index. Without candidates the largest magnitude wins.
func pickAdjustment(values, rounded []decimal.Decimal, up bool) int {
	best := -1
	var bestGap decimal.Decimal
	for i := range values {
		gap := values[i].Sub(rounded[i])
		if up {
			if !gap.IsPositive() {
				continue
			}
			if best < 0 || gap.GreaterThan(bestGap) {
				best, bestGap = i, gap
			}
		} else {
			if !gap.IsNegative() {
				continue
			}
			if best < 0 || gap.LessThan(bestGap) {
				best, bestGap = i, gap
			}
		}
	}
	if best >= 0 {
		return best
	}

	best = 0
	for i := 1; i < len(values); i++ {
		if values[i].Abs().GreaterThan(values[best].Abs()) {
			best = i
		}
	}
	return best
}

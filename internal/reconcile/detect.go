package reconcile

import (
	"github.com/shopspring/decimal"

	moneydec "github.com/rezonia/efactura-reconciler/internal/decimal"
)

// BaseType is how LineExtensionAmount is interpreted for a whole document
type BaseType string

const (
	// BaseAlreadyNet means LineExtensionAmount already has line discounts applied
	BaseAlreadyNet BaseType = "ALREADY_NET"
	// BaseGrossNeedsDiscount means line discounts still have to be subtracted
	BaseGrossNeedsDiscount BaseType = "GROSS_NEEDS_DISCOUNT"
	// BaseUseDistribution means neither reading matches; a document level residual must be spread
	BaseUseDistribution BaseType = "USE_DISTRIBUTION"
)

func (b BaseType) String() string {
	return string(b)
}

// grossToNet subtracts the line discount in the direction of the amount
func grossToNet(lc LineComputation) decimal.Decimal {
	return lc.LineExtAmount.Sub(lc.LineDiscountAbs.Mul(moneydec.Sign(lc.LineExtAmount)))
}

// DetectBaseType classifies the document by comparing both readings of the line sums with target
func DetectBaseType(lines []LineComputation, target, tolerance decimal.Decimal) BaseType {
	sumAsNet := decimal.Zero
	sumAsGross := decimal.Zero
	for _, lc := range lines {
		sumAsNet = sumAsNet.Add(lc.LineExtAmount)
		sumAsGross = sumAsGross.Add(grossToNet(lc))
	}

	switch {
	case moneydec.WithinTolerance(sumAsNet, target, tolerance):
		return BaseAlreadyNet
	case moneydec.WithinTolerance(sumAsGross, target, tolerance):
		return BaseGrossNeedsDiscount
	default:
		return BaseUseDistribution
	}
}

// ApplyBaseType returns copies of lines with FinalNet initialised for the base type.
// USE_DISTRIBUTION starts from the gross reading; the residual is spread afterwards.
func ApplyBaseType(lines []LineComputation, bt BaseType) []LineComputation {
	out := make([]LineComputation, len(lines))
	for i, lc := range lines {
		if bt == BaseAlreadyNet {
			lc.FinalNet = lc.LineExtAmount
		} else {
			lc.FinalNet = grossToNet(lc)
		}
		out[i] = lc
	}
	return out
}

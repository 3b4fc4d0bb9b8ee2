package efactura

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rezonia/efactura-reconciler/internal/reconcile"
)

// Options configures a Processor
type Options struct {
	// Tolerances
	DetectTolerance    decimal.Decimal // Line sum vs TaxExclusiveAmount when classifying (default: 0.05)
	ReconcileTolerance decimal.Decimal // Base residual left undistributed (default: 0.005)
	PayableTolerance   decimal.Decimal // Accepted gap between rows and PayableAmount (default: 0)

	// DiscountKeywords mark negative-quantity lines folded into the others.
	// Empty disables the absorption.
	DiscountKeywords []string

	// Workers bounds ProcessBatch concurrency (default: 8)
	Workers int

	// Logger receives engine diagnostics (default: disabled)
	Logger zerolog.Logger
}

// DefaultOptions returns default processor options
func DefaultOptions() Options {
	return Options{
		DetectTolerance:    reconcile.DefaultDetectTolerance,
		ReconcileTolerance: reconcile.DefaultReconcileTolerance,
		PayableTolerance:   decimal.Zero,
		DiscountKeywords:   append([]string(nil), reconcile.DefaultDiscountKeywords...),
		Workers:            8,
		Logger:             zerolog.Nop(),
	}
}

func (o Options) reconcileConfig() reconcile.Config {
	cfg := reconcile.Config{
		DetectTolerance:    o.DetectTolerance,
		ReconcileTolerance: o.ReconcileTolerance,
		PayableTolerance:   o.PayableTolerance,
		FakeDiscount:       reconcile.NeverPredicate{},
	}
	if len(o.DiscountKeywords) > 0 {
		cfg.FakeDiscount = reconcile.NewKeywordPredicate(o.DiscountKeywords...)
	}
	return cfg
}

// Result is the reconciliation of one document
type Result struct {
	Document *Document
	BaseType BaseType
	Rows     []ProductSummaryRow
	// Skipped lists lines left out for missing or non-numeric amounts
	Skipped  []*LineError
	Warnings []string
	// Mismatch is set when the rows do not add up to the payable amount
	Mismatch    bool
	PayableDiff decimal.Decimal
}

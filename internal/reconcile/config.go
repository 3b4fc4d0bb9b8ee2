// Package reconcile turns the lines of a UBL invoice or credit note into
// per-line net, VAT, discount and total figures that tie out to the
// document's header totals to the cent.
//
// The stages run strictly in order, each returning new values:
//
//	extract -> detect base type -> reconcile base -> compute VAT ->
//	reconcile net and VAT to targets -> assemble rows -> verify payable
package reconcile

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// DefaultDetectTolerance is the slack allowed when matching line sums against TaxExclusiveAmount
	DefaultDetectTolerance = decimal.RequireFromString("0.05")

	// DefaultReconcileTolerance is the base residual below which no distribution happens
	DefaultReconcileTolerance = decimal.RequireFromString("0.005")
)

// DefaultDiscountKeywords mark synthetic negative-quantity discount lines
var DefaultDiscountKeywords = []string{"discount", "reducere"}

// Config is the immutable configuration of a Reconciler
type Config struct {
	DetectTolerance    decimal.Decimal
	ReconcileTolerance decimal.Decimal
	// PayableTolerance bounds the accepted gap between the summed rows and PayableAmount
	PayableTolerance decimal.Decimal
	// FakeDiscount selects lines that are absorbed into the distribution instead of emitted
	FakeDiscount LinePredicate
}

// DefaultConfig returns the tolerances and keyword policy used in production
func DefaultConfig() Config {
	return Config{
		DetectTolerance:    DefaultDetectTolerance,
		ReconcileTolerance: DefaultReconcileTolerance,
		PayableTolerance:   decimal.Zero,
		FakeDiscount:       NewKeywordPredicate(DefaultDiscountKeywords...),
	}
}

// Reconciler runs the reconciliation stages for one document at a time.
// It holds no per-document state and is safe for concurrent use.
type Reconciler struct {
	cfg Config
	log zerolog.Logger
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithLogger sets the logger used for skipped lines and mismatches
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reconciler) {
		r.log = l
	}
}

// NewReconciler creates a reconciler with the given configuration
func NewReconciler(cfg Config, opts ...Option) *Reconciler {
	if cfg.FakeDiscount == nil {
		cfg.FakeDiscount = NeverPredicate{}
	}
	r := &Reconciler{
		cfg: cfg,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the reconciler's configuration
func (r *Reconciler) Config() Config {
	return r.cfg
}

// Package summary selects documents by number, supplier and issue date and
// reduces them to one row per document.
package summary

import (
	"strings"
	"time"

	"github.com/rezonia/efactura-reconciler/internal/model"
	"github.com/rezonia/efactura-reconciler/internal/textutil"
)

// Date range validation rules
const (
	RuleBothRequired     = "both_required"
	RuleStartAfterEnd    = "start_after_end"
	RuleSelectorRequired = "selector_required"
)

// Filter selects documents. Empty fields match everything; dates are inclusive.
type Filter struct {
	InvoiceNumber string
	Supplier      string
	Start         *time.Time
	End           *time.Time
}

// ValidateDateRange requires both bounds or neither, with start not after end
func ValidateDateRange(start, end *time.Time) error {
	if (start == nil) != (end == nil) {
		return model.NewValidationError("date_range", nil, RuleBothRequired, "start and end dates must be supplied together")
	}
	if start != nil && dateOnly(*start).After(dateOnly(*end)) {
		return model.NewValidationError("date_range", start.Format(time.DateOnly), RuleStartAfterEnd, "start date must be before or equal to end date")
	}
	return nil
}

// Validate checks the date range
func (f Filter) Validate() error {
	return ValidateDateRange(f.Start, f.End)
}

// RequireSelector fails unless an invoice number or supplier is set
func (f Filter) RequireSelector() error {
	if strings.TrimSpace(f.InvoiceNumber) == "" && strings.TrimSpace(f.Supplier) == "" {
		return model.NewValidationError("filter", nil, RuleSelectorRequired, "provide an invoice number or a supplier name")
	}
	return nil
}

// IsEmpty reports whether the filter matches every document
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.InvoiceNumber) == "" && strings.TrimSpace(f.Supplier) == "" && f.Start == nil && f.End == nil
}

// Match reports whether doc satisfies every set criterion.
// The supplier matches on either its trading name or its registration name.
func (f Filter) Match(doc *model.Document) bool {
	issued := dateOnly(doc.IssueDate)
	if f.Start != nil && issued.Before(dateOnly(*f.Start)) {
		return false
	}
	if f.End != nil && issued.After(dateOnly(*f.End)) {
		return false
	}
	if n := strings.TrimSpace(f.InvoiceNumber); n != "" && !strings.Contains(strings.ToLower(doc.ID), strings.ToLower(n)) {
		return false
	}
	if s := strings.TrimSpace(f.Supplier); s != "" {
		return textutil.ContainsFold(doc.Supplier.Name, s) || textutil.ContainsFold(doc.Supplier.RegistrationName, s)
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package reconcile

import (
	"strings"

	"github.com/rezonia/efactura-reconciler/internal/textutil"
)

// LinePredicate decides whether an extracted line is a synthetic discount line
type LinePredicate interface {
	Match(line LineComputation) bool
}

// LinePredicateFunc adapts a function to LinePredicate
type LinePredicateFunc func(line LineComputation) bool

// Match calls f(line)
func (f LinePredicateFunc) Match(line LineComputation) bool {
	return f(line)
}

// NeverPredicate matches nothing, every line is emitted
type NeverPredicate struct{}

// Match always returns false
func (NeverPredicate) Match(LineComputation) bool { return false }

// KeywordPredicate matches negative-quantity lines whose product name contains
// one of its keywords, ignoring case and diacritics.
// Legitimate return lines named like a discount will also match; the keyword
// list is a reviewable policy, not a closed set.
type KeywordPredicate struct {
	keywords []string
}

// NewKeywordPredicate builds a predicate from a keyword list; blank entries are dropped
func NewKeywordPredicate(keywords ...string) KeywordPredicate {
	folded := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = textutil.Fold(k); k != "" {
			folded = append(folded, k)
		}
	}
	return KeywordPredicate{keywords: folded}
}

// Keywords returns the folded keyword list
func (p KeywordPredicate) Keywords() []string {
	return append([]string(nil), p.keywords...)
}

// Match implements LinePredicate
func (p KeywordPredicate) Match(line LineComputation) bool {
	if !line.Quantity.IsNegative() {
		return false
	}
	name := textutil.Fold(line.Product)
	for _, k := range p.keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

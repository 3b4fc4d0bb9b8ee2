// Package textutil holds case and accent insensitive matching for free-text
// fields such as product and supplier names.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips diacritics and case-folds s ("Reducere Comercială" -> "reducere comerciala")
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(strings.TrimSpace(stripped))
}

// ContainsFold reports whether substr occurs in s after folding both
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/efactura-reconciler/internal/reconcile"
)

func TestKeywordPredicate(t *testing.T) {
	p := reconcile.NewKeywordPredicate(reconcile.DefaultDiscountKeywords...)

	tests := []struct {
		product  string
		quantity string
		want     bool
	}{
		{"DISCOUNT 10%", "-1", true},
		{"Reducere comercială", "-1", true},
		{"REDUCERE fidelitate", "-2", true},
		{"Discount", "1", false},
		{"Discount", "0", false},
		{"Retur Paracetamol", "-1", false},
		{"Paracetamol", "10", false},
	}

	for _, tt := range tests {
		t.Run(tt.product+"/"+tt.quantity, func(t *testing.T) {
			lc := reconcile.LineComputation{Product: tt.product, Quantity: d(tt.quantity)}
			assert.Equal(t, tt.want, p.Match(lc))
		})
	}
}

func TestNewKeywordPredicate_Folds(t *testing.T) {
	p := reconcile.NewKeywordPredicate("  Reducére ", "", "Rabatt")
	assert.Equal(t, []string{"reducere", "rabatt"}, p.Keywords())

	assert.True(t, p.Match(reconcile.LineComputation{Product: "rabatt sezon", Quantity: d("-1")}))
}

func TestLinePredicateFunc(t *testing.T) {
	p := reconcile.LinePredicateFunc(func(lc reconcile.LineComputation) bool {
		return lc.LineID == "2"
	})
	assert.True(t, p.Match(reconcile.LineComputation{LineID: "2"}))
	assert.False(t, p.Match(reconcile.LineComputation{LineID: "1"}))
	assert.False(t, reconcile.NeverPredicate{}.Match(reconcile.LineComputation{LineID: "2"}))
}

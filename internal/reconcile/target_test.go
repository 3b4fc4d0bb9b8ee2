package reconcile_test

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	moneydec "github.com/rezonia/efactura-reconciler/internal/decimal"
	"github.com/rezonia/efactura-reconciler/internal/reconcile"
)

func TestAdjustToTarget(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		target string
		want   []string
	}{
		{"already exact", []string{"1.00", "2.00"}, "3.00", []string{"1.00", "2.00"}},
		{"round half away from zero", []string{"0.125", "-0.125"}, "0", []string{"0.13", "-0.13"}},
		{"up to largest gap", []string{"0.333", "0.333", "0.334"}, "1.00", []string{"0.33", "0.33", "0.34"}},
		{"tie goes to lowest index", []string{"1.004", "1.004"}, "2.01", []string{"1.01", "1.00"}},
		{"down to most negative gap", []string{"0.336", "0.336"}, "0.67", []string{"0.33", "0.34"}},
		{"no candidates picks largest magnitude", []string{"1.00", "5.00"}, "6.02", []string{"1.00", "5.02"}},
		{"negative values", []string{"-111.606"}, "-111.61", []string{"-111.61"}},
		{"step cap dumps rest on last", []string{"0", "0"}, "10.00", []string{"1.28", "8.72"}},
		{"sub-cent target absorbed by last", []string{"1.0"}, "1.005", []string{"1.005"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcile.AdjustToTarget(decs(tt.values...), d(tt.target))
			assertDecimals(t, tt.want, got)
			assert.True(t, moneydec.Sum(got).Equal(d(tt.target)))
		})
	}
}

func TestAdjustToTarget_Empty(t *testing.T) {
	got := reconcile.AdjustToTarget(nil, d("1"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAdjustToTarget_ExactAndDeterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(2024, 3))
	for i := 0; i < 500; i++ {
		n := 1 + rng.IntN(15)
		values := make([]decimal.Decimal, n)
		for j := range values {
			values[j] = decimal.New(rng.Int64N(20_000_000)-10_000_000, -4)
		}
		// target near the exact sum, off by a few cents
		target := moneydec.RoundCents(moneydec.Sum(values)).Add(decimal.New(rng.Int64N(21)-10, -2))

		got := reconcile.AdjustToTarget(values, target)
		require.True(t, moneydec.Sum(got).Equal(target), "case %d", i)
		for j := range got {
			require.True(t, got[j].Equal(moneydec.RoundCents(got[j])), "case %d value %d not whole cents: %s", i, j, got[j])
		}

		again := reconcile.AdjustToTarget(values, target)
		for j := range got {
			require.True(t, got[j].Equal(again[j]))
		}
	}
}

func TestAdjustToTarget_DoesNotModifyInput(t *testing.T) {
	values := decs("0.333", "0.667")
	reconcile.AdjustToTarget(values, d("1.01"))
	assert.True(t, values[0].Equal(d("0.333")))
	assert.True(t, values[1].Equal(d("0.667")))
}

func BenchmarkAdjustToTarget(b *testing.B) {
	values := make([]decimal.Decimal, 200)
	for i := range values {
		values[i] = decimal.New(int64(123456+i*991), -4)
	}
	target := moneydec.RoundCents(moneydec.Sum(values)).Add(d("0.50"))
	for i := 0; i < b.N; i++ {
		reconcile.AdjustToTarget(values, target)
	}
}

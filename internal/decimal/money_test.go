package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/efactura-reconciler/internal/decimal"
)

func TestFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"744.96", "744.96"},
		{"  886.50\n", "886.5"},
		{".5", "0.5"},
		{"-.25", "-0.25"},
		{"-82.77", "-82.77"},
		{"+12.5", "12.5"},
		{"10", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := decimal.FromString(tt.input)
			require.NoError(t, err)
			assert.True(t, d.Equal(dec.RequireFromString(tt.expected)), "got %s", d)
		})
	}

}

func TestFromString_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"text", "not-a-number"},
		{"comma separator", "1,00"},
		{"exponent", "1e2"},
		{"huge exponent", "1e20000000"},
		{"upper exponent", "2.5E-3"},
		{"infinity", "Inf"},
		{"double sign", "--1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decimal.FromString(tt.input)
			require.Error(t, err)
		})
	}
}

func TestRoundCents(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"half rounds up", "0.005", "0.01"},
		{"negative half rounds away from zero", "-0.005", "-0.01"},
		{"below half", "141.5424", "141.54"},
		{"already cents", "235.29", "235.29"},
		{"four decimals", "23.52905", "23.53"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := decimal.RoundCents(dec.RequireFromString(tt.input))
			assert.True(t, result.Equal(dec.RequireFromString(tt.expected)),
				"input=%s: got %s, want %s", tt.input, result, tt.expected)
		})
	}
}

func TestPercent(t *testing.T) {
	result := decimal.Percent(dec.RequireFromString("587.40"), dec.NewFromInt(19))
	assert.True(t, result.Equal(dec.RequireFromString("111.606")))

	assert.True(t, decimal.Percent(dec.NewFromInt(100), dec.Zero).IsZero())
}

func TestRatio(t *testing.T) {
	result := decimal.Ratio(dec.RequireFromString("-23.53"), dec.RequireFromString("235.29"))
	assert.True(t, result.Equal(dec.RequireFromString("10")), "got %s", result)

	// Zero denominator yields zero
	assert.True(t, decimal.Ratio(dec.NewFromInt(5), dec.Zero).IsZero())
}

func TestSign(t *testing.T) {
	assert.True(t, decimal.Sign(dec.NewFromInt(-3)).Equal(dec.NewFromInt(-1)))
	assert.True(t, decimal.Sign(dec.Zero).IsZero())
	assert.True(t, decimal.Sign(dec.RequireFromString("0.01")).Equal(dec.NewFromInt(1)))
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		dec.RequireFromString("235.29"),
		dec.RequireFromString("63.03"),
		dec.RequireFromString("126.05"),
		dec.RequireFromString("403.36"),
	}
	result := decimal.Sum(values)
	assert.True(t, result.Equal(dec.RequireFromString("827.73")))
}

func TestSum_Empty(t *testing.T) {
	result := decimal.Sum([]dec.Decimal{})
	assert.True(t, result.IsZero())
}

func TestWithinTolerance(t *testing.T) {
	tol := dec.RequireFromString("0.05")
	assert.True(t, decimal.WithinTolerance(dec.RequireFromString("744.96"), dec.RequireFromString("745.01"), tol))
	assert.False(t, decimal.WithinTolerance(dec.RequireFromString("744.96"), dec.RequireFromString("745.02"), tol))
}

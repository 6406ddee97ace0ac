package money_test

import (
	"math"
	"testing"

	"github.com/amirasaad/paycode/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloat(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		centavos int64
		expected string
	}{
		{"integer", 7, 700, "7.00"},
		{"one decimal", 12.5, 1250, "12.50"},
		{"two decimals", 99.99, 9999, "99.99"},
		{"rounds up", 100.999, 10100, "101.00"},
		{"sub centavo", 0.004, 0, "0.00"},
		{"zero", 0, 0, "0.00"},
		{"negative clamps", -50, 0, "0.00"},
		{"NaN clamps", math.NaN(), 0, "0.00"},
		{"+Inf clamps", math.Inf(1), 0, "0.00"},
		{"-Inf clamps", math.Inf(-1), 0, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := money.FromFloat(tt.amount)
			assert.Equal(t, tt.centavos, a.Centavos())
			assert.Equal(t, tt.expected, a.String())
		})
	}
}

func TestFromFloat_ClampsToMaxSafe(t *testing.T) {
	a := money.FromFloat(1e300)
	assert.Equal(t, money.MaxSafeCentavos, a.Centavos())
}

func TestFromDecimal(t *testing.T) {
	assert.Equal(t, int64(1250), money.FromDecimal(decimal.RequireFromString("12.5")).Centavos())
	assert.Equal(t, int64(1001), money.FromDecimal(decimal.RequireFromString("10.005")).Centavos())
	assert.Equal(t, int64(0), money.FromDecimal(decimal.RequireFromString("-3")).Centavos())
	assert.Equal(t, money.MaxSafeCentavos, money.FromDecimal(decimal.RequireFromString("1e20")).Centavos())
}

func TestFromCentavos(t *testing.T) {
	assert.Equal(t, money.Zero, money.FromCentavos(-1))
	assert.Equal(t, money.Amount(42), money.FromCentavos(42))
	assert.Equal(t, money.Amount(money.MaxSafeCentavos), money.FromCentavos(math.MaxInt64))
}

func TestParse(t *testing.T) {
	a, err := money.Parse("12.50")
	require.NoError(t, err)
	assert.Equal(t, "12.50", a.String())

	a, err = money.Parse(" 12,5 ")
	require.NoError(t, err)
	assert.Equal(t, "12.50", a.String())

	a, err = money.Parse("-1")
	require.NoError(t, err)
	assert.True(t, a.IsZero())

	_, err = money.Parse("twelve")
	require.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestAmount_Conversions(t *testing.T) {
	a := money.FromFloat(500)
	assert.InDelta(t, 500.0, a.Float64(), 0)
	assert.True(t, decimal.NewFromInt(500).Equal(a.Decimal()))
}

func TestCode_IsValid(t *testing.T) {
	assert.True(t, money.BRL.IsValid())
	assert.True(t, money.BTC.IsValid())
	assert.False(t, money.Code("br").IsValid())
	assert.False(t, money.Code("BRLX").IsValid())
	assert.Equal(t, "BRL", money.BRL.String())
}

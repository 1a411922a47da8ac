package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_FivePercentTax(t *testing.T) {
	totals := ComputeTotals(decimal.NewFromInt(50))

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(50)))
	assert.True(t, totals.Tax.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("52.5")))
}

func TestComputeTotals_KeepsFullPrecision(t *testing.T) {
	// 19.99 * 0.05 = 0.9995; presentation rounds, the value does not.
	totals := ComputeTotals(decimal.RequireFromString("19.99"))

	assert.True(t, totals.Tax.Equal(decimal.RequireFromString("0.9995")))
	assert.Equal(t, "1.00", totals.Tax.StringFixed(2))
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("20.9895")))
	assert.Equal(t, "20.99", totals.Total.StringFixed(2))
}

func TestComputeTotals_ZeroSubtotal(t *testing.T) {
	totals := ComputeTotals(decimal.Zero)

	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

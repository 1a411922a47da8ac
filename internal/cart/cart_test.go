package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_storefront/internal/domain"
)

type mapSource map[int64]domain.Product

func (m mapSource) Get(productID int64) (domain.Product, bool) {
	p, ok := m[productID]
	return p, ok
}

func testSource() mapSource {
	return mapSource{
		1: {ID: 1, Name: "Widget", Price: decimal.NewFromInt(10), Stock: 5},
		2: {ID: 2, Name: "Gadget", Price: decimal.RequireFromString("3.99"), Stock: 2},
		3: {ID: 3, Name: "Sold Out", Price: decimal.NewFromInt(1), Stock: 0},
	}
}

func TestAdd_NewLineStartsAtOne(t *testing.T) {
	sut := New()

	err := sut.Add(testSource(), 1)

	require.NoError(t, err)
	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, "Widget", lines[0].Name)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, 5, lines[0].StockCap)
}

func TestAdd_ExistingLineIncrements(t *testing.T) {
	sut := New()
	src := testSource()

	require.NoError(t, sut.Add(src, 1))
	require.NoError(t, sut.Add(src, 1))

	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAdd_StopsAtStockCap(t *testing.T) {
	sut := New()
	src := testSource()

	for i := 0; i < 5; i++ {
		require.NoError(t, sut.Add(src, 1))
	}

	err := sut.Add(src, 1)

	assert.ErrorIs(t, err, ErrStockLimitReached)
	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity, "rejected add must not change the line")
}

func TestAdd_UnknownProduct(t *testing.T) {
	sut := New()

	err := sut.Add(testSource(), 99)

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.True(t, sut.IsEmpty())
}

func TestAdd_ZeroStock(t *testing.T) {
	sut := New()

	err := sut.Add(testSource(), 3)

	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.True(t, sut.IsEmpty())
}

func TestIncrease_StopsAtStockCap(t *testing.T) {
	sut := New()
	src := testSource()
	require.NoError(t, sut.Add(src, 2))
	require.NoError(t, sut.Increase(2))

	err := sut.Increase(2)

	assert.ErrorIs(t, err, ErrStockLimitReached)
	assert.Equal(t, 2, sut.Lines()[0].Quantity)
}

func TestIncrease_MissingLine(t *testing.T) {
	sut := New()

	err := sut.Increase(1)

	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestDecrease_AboveOneDecrements(t *testing.T) {
	sut := New()
	src := testSource()
	require.NoError(t, sut.Add(src, 1))
	require.NoError(t, sut.Add(src, 1))

	require.NoError(t, sut.Decrease(1))

	assert.Equal(t, 1, sut.Lines()[0].Quantity)
}

func TestDecrease_AtOneRemovesLine(t *testing.T) {
	sut := New()
	require.NoError(t, sut.Add(testSource(), 1))

	require.NoError(t, sut.Decrease(1))

	assert.True(t, sut.IsEmpty())
}

func TestRemove_AbsentProductIsNoop(t *testing.T) {
	sut := New()
	require.NoError(t, sut.Add(testSource(), 1))

	sut.Remove(99)

	assert.Equal(t, 1, sut.Len())
}

func TestRemove_DeletesWholeLine(t *testing.T) {
	sut := New()
	src := testSource()
	require.NoError(t, sut.Add(src, 1))
	require.NoError(t, sut.Add(src, 1))
	require.NoError(t, sut.Add(src, 2))

	sut.Remove(1)

	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ProductID)
}

func TestClear(t *testing.T) {
	sut := New()
	require.NoError(t, sut.Add(testSource(), 1))

	assert.True(t, sut.Clear())
	assert.True(t, sut.IsEmpty())
	assert.False(t, sut.Clear(), "clearing an empty cart reports nothing removed")
}

func TestTotals_FiveWidgets(t *testing.T) {
	sut := New()
	src := testSource()
	for i := 0; i < 5; i++ {
		require.NoError(t, sut.Add(src, 1))
	}

	totals := sut.Totals()

	assert.Equal(t, "50.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "2.50", totals.Tax.StringFixed(2))
	assert.Equal(t, "52.50", totals.Total.StringFixed(2))
}

func TestTotals_EmptyCartIsZero(t *testing.T) {
	sut := New()

	totals := sut.Totals()

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestTotals_RecomputedAfterEveryMutation(t *testing.T) {
	sut := New()
	src := testSource()
	require.NoError(t, sut.Add(src, 1))
	require.NoError(t, sut.Add(src, 2))
	first := sut.Totals()

	require.NoError(t, sut.Decrease(2))
	second := sut.Totals()

	assert.True(t, second.Total.LessThan(first.Total))
	expected := decimal.NewFromInt(10).Mul(domain.TaxRate.Add(decimal.NewFromInt(1)))
	assert.True(t, second.Total.Equal(expected))
}

func TestTotals_NoFloatDrift(t *testing.T) {
	sut := New()
	src := mapSource{
		7: {ID: 7, Name: "Odd Price", Price: decimal.RequireFromString("0.10"), Stock: 100},
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, sut.Add(src, 7))
	}

	totals := sut.Totals()

	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("0.30")))
}

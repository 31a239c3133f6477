package discount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPercentage(t *testing.T) {
	d := NewPercentage(decimal.NewFromInt(10))

	got := d.Apply([]Item{
		{ProductID: 1, Price: price("100"), Quantity: 2},
		{ProductID: 2, Price: price("50"), Quantity: 1},
	})

	// 10% of 250.
	assert.Equal(t, "25.00", got.StringFixed(2))
}

func TestPercentage_EmptyCart(t *testing.T) {
	d := NewPercentage(decimal.NewFromInt(10))
	assert.True(t, d.Apply(nil).IsZero())
}

func TestBuyOneGetOne(t *testing.T) {
	const catA, catB = 1, 2
	d := NewBuyOneGetOne(catA)

	got := d.Apply([]Item{
		{ProductID: 1, CategoryID: catA, Price: price("100"), Quantity: 2},
		{ProductID: 2, CategoryID: catA, Price: price("50"), Quantity: 3},
		{ProductID: 3, CategoryID: catB, Price: price("75"), Quantity: 1},
	})

	// One free unit of product 1 (@100) + one of product 2 (@50);
	// product 3 is in an ineligible category.
	assert.Equal(t, "150.00", got.StringFixed(2))
}

func TestBuyOneGetOne_AggregatesAcrossLines(t *testing.T) {
	d := NewBuyOneGetOne(1)

	got := d.Apply([]Item{
		{ProductID: 7, CategoryID: 1, Price: price("40"), Quantity: 1},
		{ProductID: 7, CategoryID: 1, Price: price("60"), Quantity: 1},
	})

	// Aggregated quantity 2 -> one free unit at the first-seen price.
	assert.Equal(t, "40.00", got.StringFixed(2))
}

func TestBuyOneGetOne_NoEligibleCategories(t *testing.T) {
	d := NewBuyOneGetOne()

	got := d.Apply([]Item{
		{ProductID: 1, CategoryID: 1, Price: price("100"), Quantity: 4},
	})

	assert.True(t, got.IsZero())
}

func TestBulk(t *testing.T) {
	d := NewBulk(3, decimal.NewFromInt(15))

	got := d.Apply([]Item{
		{ProductID: 1, Price: price("100"), Quantity: 4},
		{ProductID: 2, Price: price("50"), Quantity: 2},
		{ProductID: 3, Price: price("75"), Quantity: 3},
	})

	// 15% of 400 + 15% of 225; the quantity-2 line is below the threshold.
	assert.Equal(t, "93.75", got.StringFixed(2))
}

func TestBulk_NoAggregationAcrossLines(t *testing.T) {
	d := NewBulk(3, decimal.NewFromInt(10))

	got := d.Apply([]Item{
		{ProductID: 5, Price: price("100"), Quantity: 2},
		{ProductID: 5, Price: price("100"), Quantity: 2},
	})

	// 2+2 would reach the threshold, but the decision is per line.
	assert.True(t, got.IsZero())
}

func TestStrategies_EmptyInput(t *testing.T) {
	strategies := []Strategy{
		NewPercentage(decimal.NewFromInt(50)),
		NewBuyOneGetOne(1, 2, 3),
		NewBulk(1, decimal.NewFromInt(50)),
	}

	for _, s := range strategies {
		assert.True(t, s.Apply([]Item{}).IsZero())
	}
}

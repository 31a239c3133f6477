// Package discount implements cart-wide discount strategies. A Strategy is a
// pure function of the line-item list; construction parameters are the only
// state, and Apply never mutates it.
package discount

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Item represents a cart line for discount calculation purposes.
type Item struct {
	ProductID  int64
	CategoryID int64
	Price      decimal.Decimal
	Quantity   int
}

// Strategy computes a discount amount for a set of cart lines. An empty line
// set always yields zero.
type Strategy interface {
	Apply(items []Item) decimal.Decimal
}

// Percentage discounts the whole subtotal by a fixed percentage.
type Percentage struct {
	percent decimal.Decimal
}

// NewPercentage creates a percentage discount, e.g. 10 for 10% off.
func NewPercentage(percent decimal.Decimal) Percentage {
	return Percentage{percent: percent}
}

func (d Percentage) Apply(items []Item) decimal.Decimal {
	return subtotal(items).Mul(d.percent).Div(hundred).Round(2)
}

// BuyOneGetOne grants one free unit per two purchased units of the same
// product, for products in the eligible categories. Quantities for a product
// are aggregated across lines; when the same product appears on multiple
// lines with differing prices, the first-seen line's unit price is used.
// That tie-break is a convention, not an economic guarantee.
type BuyOneGetOne struct {
	eligible map[int64]struct{}
}

// NewBuyOneGetOne creates a buy-one-get-one discount for the given category IDs.
func NewBuyOneGetOne(categoryIDs ...int64) BuyOneGetOne {
	eligible := make(map[int64]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		eligible[id] = struct{}{}
	}
	return BuyOneGetOne{eligible: eligible}
}

func (d BuyOneGetOne) Apply(items []Item) decimal.Decimal {
	type productTotal struct {
		quantity int
		price    decimal.Decimal
	}

	totals := make(map[int64]*productTotal)
	for _, item := range items {
		if _, ok := d.eligible[item.CategoryID]; !ok {
			continue
		}
		pt, ok := totals[item.ProductID]
		if !ok {
			totals[item.ProductID] = &productTotal{quantity: item.Quantity, price: item.Price}
			continue
		}
		pt.quantity += item.Quantity
	}

	amount := decimal.Zero
	for _, pt := range totals {
		freeUnits := pt.quantity / 2
		amount = amount.Add(pt.price.Mul(decimal.NewFromInt(int64(freeUnits))))
	}
	return amount.Round(2)
}

// Bulk discounts individual lines whose quantity reaches the threshold.
// The decision is per line; quantities are not aggregated across lines.
type Bulk struct {
	threshold int
	percent   decimal.Decimal
}

// NewBulk creates a bulk discount: percent off every line with
// quantity >= threshold.
func NewBulk(threshold int, percent decimal.Decimal) Bulk {
	return Bulk{threshold: threshold, percent: percent}
}

func (d Bulk) Apply(items []Item) decimal.Decimal {
	amount := decimal.Zero
	for _, item := range items {
		if item.Quantity < d.threshold {
			continue
		}
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		amount = amount.Add(line.Mul(d.percent).Div(hundred))
	}
	return amount.Round(2)
}

// subtotal returns the sum of price * quantity across all items.
func subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

package notify

import (
	"context"

	"github.com/go-faster/errors"
)

// StatusConfirmed is the only status on which inventory is adjusted.
const StatusConfirmed = "confirmed"

// OrderLine is the minimal order line shape the inventory observer needs.
type OrderLine struct {
	ProductID int64
	Quantity  int
}

// OrderLinesReader loads the line items of a persisted order.
type OrderLinesReader interface {
	OrderLines(ctx context.Context, orderID int64) ([]OrderLine, error)
}

// StockAdjuster decrements product stock.
type StockAdjuster interface {
	DecrementStock(ctx context.Context, productID int64, quantity int) error
}

// InventoryUpdate decrements each purchased product's stock when an order is
// confirmed. Events with any other status are ignored.
type InventoryUpdate struct {
	orders OrderLinesReader
	stock  StockAdjuster
}

// NewInventoryUpdate creates the inventory observer.
func NewInventoryUpdate(orders OrderLinesReader, stock StockAdjuster) *InventoryUpdate {
	return &InventoryUpdate{orders: orders, stock: stock}
}

func (u *InventoryUpdate) Name() string { return "inventory" }

func (u *InventoryUpdate) Notify(ctx context.Context, e Event) error {
	if e.Status != StatusConfirmed {
		return nil
	}

	lines, err := u.orders.OrderLines(ctx, e.OrderID)
	if err != nil {
		return errors.Wrap(err, "load order lines")
	}

	for _, ln := range lines {
		if err := u.stock.DecrementStock(ctx, ln.ProductID, ln.Quantity); err != nil {
			return errors.Wrapf(err, "decrement stock for product %d", ln.ProductID)
		}
	}
	return nil
}

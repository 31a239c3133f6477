// Package order holds persisted purchase records and the checkout workflow.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is an order's lifecycle state. The set is closed; status updates
// reject values outside it.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusConfirmed  Status = "confirmed"
	StatusPaid       Status = "paid"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s belongs to the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusConfirmed, StatusPaid,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

var (
	// ErrEmptyCart is returned when checkout is attempted with no cart items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotFound is returned when a referenced order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidStatus is returned for a status outside the closed set.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrOrderCreation is returned when the order could not be persisted or
	// no generated id could be retrieved. No partial order is valid.
	ErrOrderCreation = errors.New("order creation failed")
)

// Order is a persisted purchase record. Once created only status and payment
// fields change.
type Order struct {
	ID            int64
	UserID        int64
	TotalAmount   decimal.Decimal
	Status        Status
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Item is a price-snapshotted order line. Price is the unit price at purchase
// time and is never recomputed from the live catalog.
type Item struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

// Repository defines persistence operations for orders.
type Repository interface {
	// GetByID returns an order, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*Order, error)
	// ListByUser returns the user's orders, most recent first.
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	// UpdatePayment overwrites status and payment method together.
	UpdatePayment(ctx context.Context, id int64, status Status, method string) error
	// Delete removes the order's items before the order row itself.
	Delete(ctx context.Context, id int64) error
	Items(ctx context.Context, orderID int64) ([]Item, error)
	// ItemsTotal returns sum(quantity * price), zero for an order without
	// items.
	ItemsTotal(ctx context.Context, orderID int64) (decimal.Decimal, error)
}

// CheckoutStore persists a new order together with its items and clears the
// user's cart, all in a single transaction. It returns the generated order id
// or an error; there is no "inserted but id unknown" state.
type CheckoutStore interface {
	PlaceOrder(ctx context.Context, o *Order, items []Item) (int64, error)
}

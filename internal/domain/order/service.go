package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/furnistore/api/internal/domain/cart"
	"github.com/furnistore/api/internal/notify"
)

// CartReader provides the cart lines checkout consumes.
type CartReader interface {
	Lines(ctx context.Context, userID int64) ([]cart.Line, error)
}

// CheckoutResult is returned to the caller on a successful checkout.
type CheckoutResult struct {
	OrderID int64
	Total   decimal.Decimal
}

// Service orchestrates checkout and order lifecycle changes, broadcasting
// every status transition through the notification hub.
type Service struct {
	carts    CartReader
	orders   Repository
	checkout CheckoutStore
	hub      *notify.Hub
}

// NewService creates an order Service with the required dependencies.
func NewService(carts CartReader, orders Repository, checkout CheckoutStore, hub *notify.Hub) *Service {
	return &Service{
		carts:    carts,
		orders:   orders,
		checkout: checkout,
		hub:      hub,
	}
}

// Checkout turns the user's cart into an order: load lines, compute the
// total, persist the order with its price-snapshotted items and clear the
// cart in one transaction, then notify observers with status "pending".
// An empty cart fails before anything is written.
func (s *Service) Checkout(ctx context.Context, userID int64) (*CheckoutResult, error) {
	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	items := make([]Item, len(lines))
	for i, ln := range lines {
		total = total.Add(ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
		items[i] = Item{
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			Price:     ln.Price,
		}
	}
	total = total.Round(2)

	o := &Order{
		UserID:      userID,
		TotalAmount: total,
		Status:      StatusPending,
	}
	id, err := s.checkout.PlaceOrder(ctx, o, items)
	if err != nil {
		return nil, errors.Wrapf(ErrOrderCreation, "place order: %v", err)
	}
	o.ID = id

	s.hub.Publish(ctx, notify.Event{
		OrderID: id,
		UserID:  userID,
		Total:   total,
		Status:  string(StatusPending),
	})

	return &CheckoutResult{OrderID: id, Total: total}, nil
}

// UpdateStatus persists a new status for an existing order and notifies
// observers. The status must belong to the closed set.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, errors.Wrapf(ErrInvalidStatus, "%q", status)
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, errors.Wrap(err, "update status")
	}
	o.Status = status

	s.hub.Publish(ctx, notify.Event{
		OrderID: orderID,
		UserID:  o.UserID,
		Total:   o.TotalAmount,
		Status:  string(status),
	})
	return o, nil
}

// ProcessPayment marks an order as paid and records the payment method. There
// is no gateway integration: payment is a status transition plus its
// notification side effects.
func (s *Service) ProcessPayment(ctx context.Context, orderID int64, method string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdatePayment(ctx, orderID, StatusPaid, method); err != nil {
		return nil, errors.Wrap(err, "update payment")
	}
	o.Status = StatusPaid
	o.PaymentMethod = method

	s.hub.Publish(ctx, notify.Event{
		OrderID: orderID,
		UserID:  o.UserID,
		Total:   o.TotalAmount,
		Status:  string(StatusPaid),
	})
	return o, nil
}

// Delete removes an order and its items.
func (s *Service) Delete(ctx context.Context, orderID int64) error {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return err
	}
	return s.orders.Delete(ctx, orderID)
}

// Get returns an order by id.
func (s *Service) Get(ctx context.Context, orderID int64) (*Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// ListByUser returns the user's orders, most recent first.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// Items returns the order's line items.
func (s *Service) Items(ctx context.Context, orderID int64) ([]Item, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orders.Items(ctx, orderID)
}

// Package notify fans order-status events out to attached observers. The hub
// is constructed by the application root and injected into services; there is
// no process-global registry.
package notify

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Event is the order-status broadcast shape: the only "event" the system
// exposes. Status is carried as its wire string.
type Event struct {
	OrderID int64
	UserID  int64
	Total   decimal.Decimal
	Status  string
}

// Observer reacts to an order event. Errors are logged by the hub and never
// abort delivery to the remaining observers.
type Observer interface {
	Name() string
	Notify(ctx context.Context, e Event) error
}

// Hub is an ordered observer registry. Attach and Detach may be called from
// any goroutine; Publish delivers synchronously in attachment order.
type Hub struct {
	mu        sync.Mutex
	observers []Observer
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{}
}

// Attach registers an observer. Attaching the same instance twice is a no-op,
// so each observer sees every event exactly once.
func (h *Hub) Attach(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if slices.Contains(h.observers, o) {
		return
	}
	h.observers = append(h.observers, o)
}

// Detach removes an observer; removing an unknown observer is a no-op.
func (h *Hub) Detach(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i := slices.Index(h.observers, o); i >= 0 {
		h.observers = slices.Delete(h.observers, i, i+1)
	}
}

// Publish delivers the event to every attached observer, synchronously and in
// attachment order. Delivery is fire-and-forget: a failing or panicking
// observer is logged and the rest still run.
func (h *Hub) Publish(ctx context.Context, e Event) {
	h.mu.Lock()
	observers := slices.Clone(h.observers)
	h.mu.Unlock()

	lg := zctx.From(ctx)
	for _, o := range observers {
		if err := deliver(ctx, o, e); err != nil {
			lg.Error("Order observer failed",
				zap.String("observer", o.Name()),
				zap.Int64("order_id", e.OrderID),
				zap.String("status", e.Status),
				zap.Error(err),
			)
		}
	}
}

func deliver(ctx context.Context, o Observer, e Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Errorf("panic: %v", rec)
		}
	}()
	return o.Notify(ctx, e)
}

package notify

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
)

// NotificationStore persists user-facing notification records.
type NotificationStore interface {
	Insert(ctx context.Context, userID, orderID int64, message string) error
}

// EmailNotification records an order-status message for the user on every
// event. The persisted record stands in for an outbound email; real delivery
// is out of scope.
type EmailNotification struct {
	store NotificationStore
}

// NewEmailNotification creates the email observer.
func NewEmailNotification(store NotificationStore) *EmailNotification {
	return &EmailNotification{store: store}
}

func (n *EmailNotification) Name() string { return "email" }

func (n *EmailNotification) Notify(ctx context.Context, e Event) error {
	message := fmt.Sprintf("Your order #%d status is now: %s. Total amount: %s",
		e.OrderID, e.Status, e.Total.StringFixed(2))

	if err := n.store.Insert(ctx, e.UserID, e.OrderID, message); err != nil {
		return errors.Wrap(err, "insert notification")
	}
	return nil
}

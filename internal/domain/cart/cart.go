// Package cart holds a user's selected items and the operations that mutate
// them. Every mutation persists immediately through the Repository.
package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/furnistore/api/internal/domain/catalog"
)

var (
	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	// ErrItemNotFound is returned when the referenced cart item is absent.
	ErrItemNotFound = errors.New("cart item not found")
)

// Item is one persisted cart row: one row per (user, product).
type Item struct {
	UserID    int64
	ProductID int64
	Quantity  int
	AddedAt   time.Time
}

// Line is a cart item joined with live product data. Price is the product's
// current catalog price at read time, not a snapshot.
type Line struct {
	ProductID  int64
	Name       string
	Price      decimal.Decimal
	ImageURL   string
	Kind       catalog.Kind
	CategoryID int64
	Quantity   int
}

// Repository defines persistence operations for cart items.
type Repository interface {
	// Get returns the user's cart item for a product, or ErrItemNotFound.
	Get(ctx context.Context, userID, productID int64) (*Item, error)
	Insert(ctx context.Context, item *Item) error
	// UpdateQuantity overwrites an item's quantity; ErrItemNotFound when the
	// item is absent.
	UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error
	// Delete removes an item; ErrItemNotFound when it is absent.
	Delete(ctx context.Context, userID, productID int64) error
	// Clear removes all of the user's items. Idempotent.
	Clear(ctx context.Context, userID int64) error
	// Lines returns the user's items joined with product data.
	Lines(ctx context.Context, userID int64) ([]Line, error)
	Count(ctx context.Context, userID int64) (int, error)
}

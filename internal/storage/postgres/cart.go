package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/furnistore/api/internal/domain/cart"
)

const (
	getCartItemSQL = `SELECT user_id, product_id, quantity, added_at
		FROM cart_items WHERE user_id = $1 AND product_id = $2`

	insertCartItemSQL = `INSERT INTO cart_items (user_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, $4)`

	updateCartQuantitySQL = `UPDATE cart_items SET quantity = $3
		WHERE user_id = $1 AND product_id = $2`

	deleteCartItemSQL = `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`

	clearCartSQL = `DELETE FROM cart_items WHERE user_id = $1`

	cartLinesSQL = `SELECT c.product_id, p.name, p.price, p.image_url, p.kind, p.category_id, c.quantity
		FROM cart_items c
		JOIN products p ON c.product_id = p.id
		WHERE c.user_id = $1
		ORDER BY c.added_at, c.product_id`

	countCartItemsSQL = `SELECT COUNT(*) FROM cart_items WHERE user_id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Get returns the user's cart item for a product.
func (r *CartRepository) Get(ctx context.Context, userID, productID int64) (*cart.Item, error) {
	rows, err := r.pool.Query(ctx, getCartItemSQL, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("getting cart item: %w", err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, scanCartItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrItemNotFound
		}
		return nil, fmt.Errorf("getting cart item: %w", err)
	}
	return &item, nil
}

// Insert adds a new cart row.
func (r *CartRepository) Insert(ctx context.Context, item *cart.Item) error {
	_, err := r.pool.Exec(ctx, insertCartItemSQL,
		item.UserID, item.ProductID, item.Quantity, item.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting cart item: %w", err)
	}
	return nil
}

// UpdateQuantity overwrites an existing item's quantity.
func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	tag, err := r.pool.Exec(ctx, updateCartQuantitySQL, userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("updating cart quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// Delete removes a single product from the user's cart.
func (r *CartRepository) Delete(ctx context.Context, userID, productID int64) error {
	tag, err := r.pool.Exec(ctx, deleteCartItemSQL, userID, productID)
	if err != nil {
		return fmt.Errorf("deleting cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// Clear removes every item in the user's cart.
func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	if _, err := r.pool.Exec(ctx, clearCartSQL, userID); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

// Lines returns the user's cart joined with live product data, in insertion
// order.
func (r *CartRepository) Lines(ctx context.Context, userID int64) ([]cart.Line, error) {
	rows, err := r.pool.Query(ctx, cartLinesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing cart lines: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (cart.Line, error) {
		var ln cart.Line
		err := row.Scan(&ln.ProductID, &ln.Name, &ln.Price, &ln.ImageURL, &ln.Kind, &ln.CategoryID, &ln.Quantity)
		return ln, err
	})
}

// Count returns the number of distinct products in the user's cart.
func (r *CartRepository) Count(ctx context.Context, userID int64) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, countCartItemsSQL, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting cart items: %w", err)
	}
	return count, nil
}

func scanCartItem(row pgx.CollectableRow) (cart.Item, error) {
	var item cart.Item
	err := row.Scan(&item.UserID, &item.ProductID, &item.Quantity, &item.AddedAt)
	return item, err
}

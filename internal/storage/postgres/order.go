package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/furnistore/api/internal/domain/order"
	"github.com/furnistore/api/internal/notify"
)

const (
	insertOrderSQL = `INSERT INTO orders (user_id, total_amount, status)
		VALUES ($1, $2, $3)
		RETURNING id`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)`

	orderColumns = `id, user_id, total_amount, status, payment_method, created_at, updated_at`

	getOrderSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	listOrdersByUserSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	updateOrderStatusSQL = `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`

	updateOrderPaymentSQL = `UPDATE orders
		SET status = $2, payment_method = $3, updated_at = now() WHERE id = $1`

	deleteOrderItemsSQL = `DELETE FROM order_items WHERE order_id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`

	orderItemsSQL = `SELECT id, order_id, product_id, quantity, price
		FROM order_items WHERE order_id = $1 ORDER BY id`

	orderItemsTotalSQL = `SELECT COALESCE(SUM(quantity * price), 0)
		FROM order_items WHERE order_id = $1`

	orderLinesSQL = `SELECT product_id, quantity FROM order_items WHERE order_id = $1 ORDER BY id`
)

var (
	_ order.Repository        = (*OrderRepository)(nil)
	_ order.CheckoutStore     = (*OrderRepository)(nil)
	_ notify.OrderLinesReader = (*OrderRepository)(nil)
)

// OrderRepository implements order persistence backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// PlaceOrder persists the order, its items and the cart clear in a single
// transaction, so a crash can never leave an order without its items or a
// checked-out cart with stale lines.
func (r *OrderRepository) PlaceOrder(ctx context.Context, o *order.Order, items []order.Item) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning checkout transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var id int64
	err = tx.QueryRow(ctx, insertOrderSQL, o.UserID, o.TotalAmount, o.Status).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(insertOrderItemSQL, id, item.ProductID, item.Quantity, item.Price)
	}
	batch.Queue(clearCartSQL, o.UserID)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("inserting order items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing checkout transaction: %w", err)
	}
	return id, nil
}

// GetByID returns an order by id.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	return &o, nil
}

// ListByUser returns the user's orders, most recent first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// UpdateStatus overwrites the status and update timestamp.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("updating status of order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// UpdatePayment overwrites status and payment method together.
func (r *OrderRepository) UpdatePayment(ctx context.Context, id int64, status order.Status, method string) error {
	tag, err := r.pool.Exec(ctx, updateOrderPaymentSQL, id, status, method)
	if err != nil {
		return fmt.Errorf("updating payment of order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes the order's items before the order row, in one transaction.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx, deleteOrderItemsSQL, id); err != nil {
		return fmt.Errorf("deleting items of order %d: %w", id, err)
	}

	tag, err := tx.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing delete transaction: %w", err)
	}
	return nil
}

// Items returns the order's line items.
func (r *OrderRepository) Items(ctx context.Context, orderID int64) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx, orderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing items of order %d: %w", orderID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Item, error) {
		var item order.Item
		err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price)
		return item, err
	})
}

// ItemsTotal returns sum(quantity * price) over the order's items.
func (r *OrderRepository) ItemsTotal(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, orderItemsTotalSQL, orderID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing items of order %d: %w", orderID, err)
	}
	return total, nil
}

// OrderLines satisfies the inventory observer's reader with the minimal
// (product, quantity) projection.
func (r *OrderRepository) OrderLines(ctx context.Context, orderID int64) ([]notify.OrderLine, error) {
	rows, err := r.pool.Query(ctx, orderLinesSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing lines of order %d: %w", orderID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (notify.OrderLine, error) {
		var ln notify.OrderLine
		err := row.Scan(&ln.ProductID, &ln.Quantity)
		return ln, err
	})
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentMethod,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/furnistore/api/internal/notify"
)

const insertNotificationSQL = `INSERT INTO notifications (user_id, order_id, message)
	VALUES ($1, $2, $3)`

var _ notify.NotificationStore = (*NotificationRepository)(nil)

// NotificationRepository records sent notifications in PostgreSQL.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a NotificationRepository using the given pool.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Insert appends one notification row.
func (r *NotificationRepository) Insert(ctx context.Context, userID, orderID int64, message string) error {
	if _, err := r.pool.Exec(ctx, insertNotificationSQL, userID, orderID, message); err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

//go:build integration

// Package integration exercises the storage layer and the checkout flow
// against a disposable PostgreSQL container.
package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/furnistore/api/internal/domain/cart"
	"github.com/furnistore/api/internal/domain/catalog"
	"github.com/furnistore/api/internal/domain/order"
	"github.com/furnistore/api/internal/notify"
	"github.com/furnistore/api/internal/storage/postgres"
)

var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "furni",
				"POSTGRES_PASSWORD": "furni",
				"POSTGRES_DB":       "furni",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("start postgres: %v", err)
	}
	defer func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("terminate postgres: %v", err)
		}
	}()

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		log.Fatalf("mapped port: %v", err)
	}

	databaseURL := fmt.Sprintf("postgres://furni:furni@%s:%s/furni?sslmode=disable", host, port.Port())

	pool, err = postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	return m.Run()
}

type env struct {
	products *postgres.CatalogRepository
	carts    *cart.Service
	orders   *order.Service
	repo     *postgres.OrderRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()

	products := postgres.NewCatalogRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	notifications := postgres.NewNotificationRepository(pool)

	hub := notify.NewHub()
	hub.Attach(notify.NewEmailNotification(notifications))
	hub.Attach(notify.NewInventoryUpdate(orderRepo, products))

	return &env{
		products: products,
		carts:    cart.NewService(cartRepo),
		orders:   order.NewService(cartRepo, orderRepo, orderRepo, hub),
		repo:     orderRepo,
	}
}

func (e *env) seedProduct(t *testing.T, name, price string, stock int) int64 {
	t.Helper()

	f, err := catalog.New("chair", catalog.Furniture{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		CategoryID:    1,
	}, catalog.AttributeBag{"is_adjustable": true})
	require.NoError(t, err)

	id, err := e.products.Create(context.Background(), f)
	require.NoError(t, err)
	return id
}

func notificationCount(t *testing.T, userID int64) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestCatalogRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	id := e.seedProduct(t, "Integration Chair", "129.99", 5)

	f, err := e.products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Integration Chair", f.Name)
	assert.Equal(t, "129.99", f.Price.StringFixed(2))
	assert.Equal(t, catalog.KindChair, f.Kind)
	assert.True(t, f.Attrs.IsAdjustable, "attributes survive the JSONB round trip")
	assert.True(t, f.Attrs.HasArmrests, "chair defaults are persisted")

	f.Price = decimal.RequireFromString("119.99")
	require.NoError(t, e.products.Update(ctx, f))

	f, err = e.products.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "119.99", f.Price.StringFixed(2))

	require.NoError(t, e.products.Delete(ctx, id))
	_, err = e.products.GetByID(ctx, id)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCartMerge(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	const userID = int64(100)

	id := e.seedProduct(t, "Merge Chair", "50.00", 10)

	require.NoError(t, e.carts.Add(ctx, userID, id, 1))
	require.NoError(t, e.carts.Add(ctx, userID, id, 2))

	lines, err := e.carts.Items(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 1, "repeated adds merge into one row")
	assert.Equal(t, 3, lines[0].Quantity)

	total, err := e.carts.Total(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "150.00", total.StringFixed(2))
}

func TestCheckoutFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	const userID = int64(200)

	chairID := e.seedProduct(t, "Checkout Chair", "100.00", 10)
	deskID := e.seedProduct(t, "Checkout Desk", "250.00", 10)

	require.NoError(t, e.carts.Add(ctx, userID, chairID, 2))
	require.NoError(t, e.carts.Add(ctx, userID, deskID, 1))

	result, err := e.orders.Checkout(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "450.00", result.Total.StringFixed(2))

	// The order and its snapshotted items were persisted.
	o, err := e.orders.Get(ctx, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, "450.00", o.TotalAmount.StringFixed(2))

	items, err := e.orders.Items(ctx, result.OrderID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	itemsTotal, err := e.repo.ItemsTotal(ctx, result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "450.00", itemsTotal.StringFixed(2))

	// The cart was cleared in the same transaction.
	lines, err := e.carts.Items(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// The email observer recorded the pending notification.
	assert.Equal(t, 1, notificationCount(t, userID))

	// Confirmation decrements stock through the inventory observer.
	_, err = e.orders.UpdateStatus(ctx, result.OrderID, order.StatusConfirmed)
	require.NoError(t, err)

	chair, err := e.products.GetByID(ctx, chairID)
	require.NoError(t, err)
	assert.Equal(t, 8, chair.StockQuantity)

	desk, err := e.products.GetByID(ctx, deskID)
	require.NoError(t, err)
	assert.Equal(t, 9, desk.StockQuantity)

	assert.Equal(t, 2, notificationCount(t, userID))

	// Payment records the method and notifies again.
	o, err = e.orders.ProcessPayment(ctx, result.OrderID, "credit_card")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, o.Status)
	assert.Equal(t, "credit_card", o.PaymentMethod)
	assert.Equal(t, 3, notificationCount(t, userID))
}

func TestCheckoutEmptyCart(t *testing.T) {
	e := newEnv(t)

	_, err := e.orders.Checkout(context.Background(), 300)
	assert.ErrorIs(t, err, order.ErrEmptyCart)
}

func TestOrderDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	const userID = int64(400)

	id := e.seedProduct(t, "Delete Chair", "75.00", 5)
	require.NoError(t, e.carts.Add(ctx, userID, id, 1))

	result, err := e.orders.Checkout(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, e.orders.Delete(ctx, result.OrderID))

	_, err = e.orders.Get(ctx, result.OrderID)
	assert.ErrorIs(t, err, order.ErrNotFound)

	items, err := e.repo.Items(ctx, result.OrderID)
	require.NoError(t, err)
	assert.Empty(t, items, "order items are removed with the order")
}

func TestListByUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	const userID = int64(500)

	id := e.seedProduct(t, "List Chair", "60.00", 20)

	for range 2 {
		require.NoError(t, e.carts.Add(ctx, userID, id, 1))
		_, err := e.orders.Checkout(ctx, userID)
		require.NoError(t, err)
	}

	orders, err := e.orders.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.GreaterOrEqual(t, orders[0].ID, orders[1].ID, "most recent first")
}

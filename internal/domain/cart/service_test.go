package cart

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnistore/api/internal/domain/discount"
)

// mockRepo is an in-memory cart.Repository keyed by product ID for a single
// user.
type mockRepo struct {
	items map[int64]*Item
	lines []Line

	getErr    error
	insertErr error
	updates   []int // quantities passed to UpdateQuantity
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[int64]*Item)}
}

func (m *mockRepo) Get(_ context.Context, _, productID int64) (*Item, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	item, ok := m.items[productID]
	if !ok {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (m *mockRepo) Insert(_ context.Context, item *Item) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.items[item.ProductID] = item
	return nil
}

func (m *mockRepo) UpdateQuantity(_ context.Context, _, productID int64, quantity int) error {
	item, ok := m.items[productID]
	if !ok {
		return ErrItemNotFound
	}
	item.Quantity = quantity
	m.updates = append(m.updates, quantity)
	return nil
}

func (m *mockRepo) Delete(_ context.Context, _, productID int64) error {
	if _, ok := m.items[productID]; !ok {
		return ErrItemNotFound
	}
	delete(m.items, productID)
	return nil
}

func (m *mockRepo) Clear(_ context.Context, _ int64) error {
	m.items = make(map[int64]*Item)
	return nil
}

func (m *mockRepo) Lines(_ context.Context, _ int64) ([]Line, error) {
	return m.lines, nil
}

func (m *mockRepo) Count(_ context.Context, _ int64) (int, error) {
	return len(m.items), nil
}

func TestAdd_NewItem(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	require.NoError(t, svc.Add(context.Background(), 1, 42, 3))

	require.Contains(t, repo.items, int64(42))
	assert.Equal(t, 3, repo.items[42].Quantity)
	assert.False(t, repo.items[42].AddedAt.IsZero())
}

func TestAdd_MergesExistingQuantity(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, 1, 42, 2))
	require.NoError(t, svc.Add(ctx, 1, 42, 5))

	// One row, merged quantity, via UpdateQuantity.
	assert.Len(t, repo.items, 1)
	assert.Equal(t, 7, repo.items[42].Quantity)
	assert.Equal(t, []int{7}, repo.updates)
}

func TestAdd_InvalidQuantity(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	for _, q := range []int{0, -1} {
		err := svc.Add(context.Background(), 1, 42, q)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Empty(t, repo.items)
}

func TestAdd_RepoError(t *testing.T) {
	repo := newMockRepo()
	repo.getErr = errors.New("db down")
	svc := NewService(repo)

	err := svc.Add(context.Background(), 1, 42, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get cart item")
}

func TestUpdate_InvalidQuantity(t *testing.T) {
	repo := newMockRepo()
	repo.items[42] = &Item{UserID: 1, ProductID: 42, Quantity: 2}
	svc := NewService(repo)

	for _, q := range []int{0, -1} {
		require.ErrorIs(t, svc.Update(context.Background(), 1, 42, q), ErrInvalidQuantity)
	}
	// Cart state unchanged.
	assert.Equal(t, 2, repo.items[42].Quantity)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.Update(context.Background(), 1, 99, 1)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemove_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.Remove(context.Background(), 1, 99)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestClear_Idempotent(t *testing.T) {
	repo := newMockRepo()
	repo.items[42] = &Item{ProductID: 42, Quantity: 1}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Clear(ctx, 1))
	require.NoError(t, svc.Clear(ctx, 1))
	assert.Empty(t, repo.items)
}

func TestItems_EmptyCartReturnsEmptySlice(t *testing.T) {
	svc := NewService(newMockRepo())

	lines, err := svc.Items(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestTotal(t *testing.T) {
	repo := newMockRepo()
	repo.lines = []Line{
		{ProductID: 1, Price: decimal.NewFromInt(100), Quantity: 2},
		{ProductID: 2, Price: decimal.NewFromInt(50), Quantity: 1},
	}
	svc := NewService(repo)

	total, err := svc.Total(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "250.00", total.StringFixed(2))
}

func TestTotal_EmptyCart(t *testing.T) {
	svc := NewService(newMockRepo())

	total, err := svc.Total(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestApplyDiscount(t *testing.T) {
	repo := newMockRepo()
	repo.lines = []Line{
		{ProductID: 1, CategoryID: 9, Price: decimal.NewFromInt(100), Quantity: 2},
		{ProductID: 2, CategoryID: 9, Price: decimal.NewFromInt(50), Quantity: 1},
	}
	svc := NewService(repo)

	amount, err := svc.ApplyDiscount(context.Background(), 1, discount.NewPercentage(decimal.NewFromInt(10)))
	require.NoError(t, err)
	assert.Equal(t, "25.00", amount.StringFixed(2))
}

func TestApplyDiscount_EmptyCart(t *testing.T) {
	svc := NewService(newMockRepo())

	amount, err := svc.ApplyDiscount(context.Background(), 1, discount.NewPercentage(decimal.NewFromInt(50)))
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

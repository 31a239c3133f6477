package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/furnistore/api/internal/domain/discount"
)

// Service encapsulates cart business logic on top of a Repository.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a cart Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Add puts quantity units of a product into the user's cart. When the product
// is already present the quantities are merged into the existing row.
func (s *Service) Add(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	existing, err := s.repo.Get(ctx, userID, productID)
	switch {
	case err == nil:
		return s.repo.UpdateQuantity(ctx, userID, productID, existing.Quantity+quantity)
	case errors.Is(err, ErrItemNotFound):
		return s.repo.Insert(ctx, &Item{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   s.now(),
		})
	default:
		return errors.Wrap(err, "get cart item")
	}
}

// Update overwrites the quantity of an existing cart item.
func (s *Service) Update(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return s.repo.UpdateQuantity(ctx, userID, productID, quantity)
}

// Remove deletes a product from the user's cart.
func (s *Service) Remove(ctx context.Context, userID, productID int64) error {
	return s.repo.Delete(ctx, userID, productID)
}

// Clear empties the user's cart. It succeeds even when the cart is already
// empty.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.repo.Clear(ctx, userID)
}

// Items returns the user's cart lines joined with live product data. The
// result is never nil.
func (s *Service) Items(ctx context.Context, userID int64) ([]Line, error) {
	lines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list cart items")
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

// Total returns the sum of live price * quantity over the user's cart lines.
func (s *Service) Total(ctx context.Context, userID int64) (decimal.Decimal, error) {
	lines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "list cart items")
	}

	total := decimal.Zero
	for _, ln := range lines {
		total = total.Add(ln.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	return total, nil
}

// Count returns the number of distinct products in the user's cart.
func (s *Service) Count(ctx context.Context, userID int64) (int, error) {
	return s.repo.Count(ctx, userID)
}

// ApplyDiscount evaluates a discount strategy against the user's current cart
// lines and returns the discount amount. An empty cart yields zero.
func (s *Service) ApplyDiscount(ctx context.Context, userID int64, strategy discount.Strategy) (decimal.Decimal, error) {
	lines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "list cart items")
	}
	if len(lines) == 0 {
		return decimal.Zero, nil
	}

	items := make([]discount.Item, len(lines))
	for i, ln := range lines {
		items[i] = discount.Item{
			ProductID:  ln.ProductID,
			CategoryID: ln.CategoryID,
			Price:      ln.Price,
			Quantity:   ln.Quantity,
		}
	}
	return strategy.Apply(items), nil
}

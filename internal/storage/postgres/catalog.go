package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/furnistore/api/internal/domain/catalog"
)

const (
	productColumns = `id, name, description, price, dimensions, stock_quantity,
		category_id, image_url, kind, attributes, created_at, updated_at`

	insertProductSQL = `INSERT INTO products
		(name, description, price, dimensions, stock_quantity, category_id, image_url, kind, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	updateProductSQL = `UPDATE products SET
		name = $2, description = $3, price = $4, dimensions = $5, stock_quantity = $6,
		category_id = $7, image_url = $8, kind = $9, attributes = $10, updated_at = now()
		WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	getProductSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY id`

	decrementStockSQL = `UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE id = $1`
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL. The
// kind-specific attribute payload lives in the JSONB attributes column.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// Create persists a new product and returns its generated id.
func (r *CatalogRepository) Create(ctx context.Context, f *catalog.Furniture) (int64, error) {
	attrs, err := json.Marshal(f.Attrs)
	if err != nil {
		return 0, fmt.Errorf("marshaling attributes: %w", err)
	}

	var id int64
	err = r.pool.QueryRow(ctx, insertProductSQL,
		f.Name, f.Description, f.Price, f.Dimensions, f.StockQuantity,
		f.CategoryID, f.ImageURL, f.Kind, attrs,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating product %q: %w", f.Name, err)
	}
	return id, nil
}

// Update overwrites all mutable product fields.
func (r *CatalogRepository) Update(ctx context.Context, f *catalog.Furniture) error {
	attrs, err := json.Marshal(f.Attrs)
	if err != nil {
		return fmt.Errorf("marshaling attributes: %w", err)
	}

	tag, err := r.pool.Exec(ctx, updateProductSQL,
		f.ID, f.Name, f.Description, f.Price, f.Dimensions, f.StockQuantity,
		f.CategoryID, f.ImageURL, f.Kind, attrs,
	)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", f.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Delete removes a product.
func (r *CatalogRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// GetByID returns a single product with its kind-specific attributes.
func (r *CatalogRepository) GetByID(ctx context.Context, id int64) (*catalog.Furniture, error) {
	rows, err := r.pool.Query(ctx, getProductSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	f, err := pgx.CollectExactlyOneRow(rows, scanFurniture)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &f, nil
}

// List returns all products ordered by id.
func (r *CatalogRepository) List(ctx context.Context) ([]catalog.Furniture, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanFurniture)
}

// DecrementStock reduces a product's stock by the purchased quantity.
func (r *CatalogRepository) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	tag, err := r.pool.Exec(ctx, decrementStockSQL, productID, quantity)
	if err != nil {
		return fmt.Errorf("decrementing stock for product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func scanFurniture(row pgx.CollectableRow) (catalog.Furniture, error) {
	var (
		f     catalog.Furniture
		attrs []byte
	)
	err := row.Scan(
		&f.ID, &f.Name, &f.Description, &f.Price, &f.Dimensions, &f.StockQuantity,
		&f.CategoryID, &f.ImageURL, &f.Kind, &attrs, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return f, err
	}
	if err := json.Unmarshal(attrs, &f.Attrs); err != nil {
		return f, fmt.Errorf("unmarshaling attributes for product %d: %w", f.ID, err)
	}
	return f, nil
}

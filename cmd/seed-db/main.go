// Command seed-db inserts a small demo furniture catalog.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/furnistore/api/internal/domain/catalog"
	"github.com/furnistore/api/internal/storage/postgres"
)

type demoProduct struct {
	name       string
	price      string
	categoryID int64
	kind       string
	attributes catalog.AttributeBag
}

var demoProducts = []demoProduct{
	{name: "Aria Office Chair", price: "149.99", categoryID: 1, kind: "chair",
		attributes: catalog.AttributeBag{"is_adjustable": true}},
	{name: "Nordfjell Dining Table", price: "499.00", categoryID: 2, kind: "table",
		attributes: catalog.AttributeBag{"shape": "oval", "is_extendable": true}},
	{name: "Lund Corner Sofa", price: "899.50", categoryID: 3, kind: "sofa",
		attributes: catalog.AttributeBag{"seats": 5, "is_convertible": true}},
	{name: "Hemnes Storage Bed", price: "649.00", categoryID: 4, kind: "bed",
		attributes: catalog.AttributeBag{"size": "king", "has_storage": true}},
	{name: "Brimnes Filing Cabinet", price: "219.00", categoryID: 5, kind: "cabinet",
		attributes: catalog.AttributeBag{"num_drawers": 4, "has_lock": true}},
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewCatalogRepository(pool)

	slog.Info("seeding demo catalog", slog.Int("count", len(demoProducts)))

	for _, p := range demoProducts {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return errors.Wrapf(err, "parse price for %q", p.name)
		}

		f, err := catalog.New(p.kind, catalog.Furniture{
			Name:          p.name,
			Price:         price,
			StockQuantity: 25,
			CategoryID:    p.categoryID,
		}, p.attributes)
		if err != nil {
			return errors.Wrapf(err, "build product %q", p.name)
		}

		id, err := repo.Create(ctx, f)
		if err != nil {
			return errors.Wrapf(err, "insert product %q", p.name)
		}

		slog.Info("inserted product",
			slog.Int64("id", id),
			slog.String("name", p.name),
			slog.String("kind", p.kind),
		)
	}

	return nil
}

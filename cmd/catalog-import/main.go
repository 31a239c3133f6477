// Command catalog-import loads gzipped product feed files into the catalog.
//
// Feed files are JSON lines named productfeedN.json.gz. Files are parsed
// concurrently; products are deduplicated across files by kind and name with
// a bloom filter before insertion.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/furnistore/api/internal/domain/catalog"
	"github.com/furnistore/api/internal/storage/postgres"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

// feedProduct is one line of a product feed file.
type feedProduct struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Price         decimal.Decimal      `json:"price"`
	Dimensions    string               `json:"dimensions"`
	StockQuantity int                  `json:"stock_quantity"`
	CategoryID    int64                `json:"category_id"`
	ImageURL      string               `json:"image_url"`
	Kind          string               `json:"kind"`
	Attributes    catalog.AttributeBag `json:"attributes"`
}

func main() {
	var (
		dataDir     string
		numFiles    int
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing productfeedN.json.gz files")
	flag.IntVar(&numFiles, "files", 1, "number of feed files to load")
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

	if err := run(ctx, dataDir, numFiles, databaseURL); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, dataDir string, numFiles int, databaseURL string) error {
	files := make([]string, numFiles)
	for i := range numFiles {
		files[i] = filepath.Join(dataDir, fmt.Sprintf("productfeed%d.json.gz", i+1))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	// Parse all feed files concurrently.
	parsed := make([][]feedProduct, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(parseFeedFile(gctx, i, f, parsed))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Deduplicate across files. A bloom filter keeps the seen set small; the
	// false positive rate means a rare legitimate product may be skipped,
	// which is acceptable for a feed import.
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	var unique []feedProduct
	for _, products := range parsed {
		for _, p := range products {
			key := p.Kind + "/" + p.Name
			if seen.TestString(key) {
				continue
			}
			seen.AddString(key)
			unique = append(unique, p)
		}
	}

	slog.Info("feed parsed",
		slog.Int("files", len(files)),
		slog.Int("unique_products", len(unique)),
	)
	if len(unique) == 0 {
		slog.Info("nothing to import")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	return insertProducts(ctx, postgres.NewCatalogRepository(pool), unique)
}

// parseFeedFile streams one gzipped feed file and collects its products.
func parseFeedFile(ctx context.Context, idx int, path string, out [][]feedProduct) func() error {
	return func() error {
		var (
			products []feedProduct
			count    uint64
		)

		if err := streamGzFile(ctx, path, func(line []byte) error {
			var p feedProduct
			if err := json.Unmarshal(line, &p); err != nil {
				return errors.Wrap(err, "parse feed line")
			}
			products = append(products, p)

			count++
			if count%progressEvery == 0 {
				slog.Info("parse progress",
					slog.Int("file", idx+1),
					slog.Uint64("lines", count),
				)
			}
			return nil
		}); err != nil {
			return errors.Wrapf(err, "parse file %d", idx+1)
		}

		slog.Info("parse complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_lines", count),
		)

		out[idx] = products
		return nil
	}
}

// streamGzFile opens a gzip-compressed file and calls fn for each non-empty
// line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// insertProducts runs each feed product through the kind factory and persists
// it. Unknown kinds are skipped with a warning instead of aborting the whole
// import.
func insertProducts(ctx context.Context, repo *postgres.CatalogRepository, products []feedProduct) error {
	slog.Info("inserting products", slog.Int("count", len(products)))

	var inserted, skipped int
	for _, p := range products {
		f, err := catalog.New(p.Kind, catalog.Furniture{
			Name:          p.Name,
			Description:   p.Description,
			Price:         p.Price,
			Dimensions:    p.Dimensions,
			StockQuantity: p.StockQuantity,
			CategoryID:    p.CategoryID,
			ImageURL:      p.ImageURL,
		}, p.Attributes)
		if err != nil {
			slog.Warn("skipping product",
				slog.String("name", p.Name),
				slog.String("error", err.Error()),
			)
			skipped++
			continue
		}

		if _, err := repo.Create(ctx, f); err != nil {
			return errors.Wrapf(err, "insert product %q", p.Name)
		}
		inserted++
	}

	slog.Info("insert complete", slog.Int("inserted", inserted), slog.Int("skipped", skipped))
	return nil
}

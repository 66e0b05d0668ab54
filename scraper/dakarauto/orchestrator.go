package dakarauto

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dakar-auto-scraper/config"
	"dakar-auto-scraper/models"

	"golang.org/x/sync/errgroup"
)

var ErrInvalidPageLimit = errors.New("page limit must be at least 1")

// persistTimeout bounds writing the tables once scraping has ended.
const persistTimeout = 2 * time.Minute

// Sink persists scraped tables. The combined table replaces whatever the
// previous run left behind.
type Sink interface {
	WriteCategory(ctx context.Context, table models.CategoryTable) error
	WriteCombined(ctx context.Context, table models.CombinedTable) error
}

type Orchestrator struct {
	scraper  *Scraper
	registry *models.Registry
	sink     Sink
	workers  int
	logger   *slog.Logger
}

func NewOrchestrator(scraper *Scraper, registry *models.Registry, sink Sink, cfg *config.Config, logger *slog.Logger) *Orchestrator {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		scraper:  scraper,
		registry: registry,
		sink:     sink,
		workers:  workers,
		logger:   logger.With("component", "orchestrator"),
	}
}

// Run scrapes the selected categories, persists each table and then the
// combined table. Unknown names are skipped. Only a failure to persist the
// combined table is returned as an error. Tables are persisted even when ctx
// is cancelled mid-scrape.
func (o *Orchestrator) Run(ctx context.Context, selected []string, pageLimit int) (models.CombinedTable, error) {
	if pageLimit < 1 {
		return models.CombinedTable{}, fmt.Errorf("%w, got %d", ErrInvalidPageLimit, pageLimit)
	}

	schemas := o.resolve(selected)
	o.logger.Info("scrape starting", "categories", len(schemas), "page_limit", pageLimit, "workers", o.workers)

	// Each worker writes only its own slot; tables are merged after Wait.
	tables := make([]models.CategoryTable, len(schemas))
	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, schema := range schemas {
		g.Go(func() error {
			tables[i] = o.scraper.ScrapeCategory(ctx, schema, pageLimit)
			return nil
		})
	}
	// Workers always return nil; the group only bounds concurrency.
	_ = g.Wait()

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	for _, table := range tables {
		if err := o.sink.WriteCategory(persistCtx, table); err != nil {
			o.logger.Error("failed to persist category", "category", table.Category, "err", err)
		}
	}

	combined := models.Combine(tables...)
	if err := o.sink.WriteCombined(persistCtx, combined); err != nil {
		return combined, fmt.Errorf("persist combined table: %w", err)
	}

	o.logger.Info("scrape complete", "rows", len(combined.Rows), "categories", combined.Categories)
	return combined, nil
}

func (o *Orchestrator) resolve(selected []string) []models.CategorySchema {
	seen := make(map[string]bool, len(selected))
	schemas := make([]models.CategorySchema, 0, len(selected))
	for _, name := range selected {
		if seen[name] {
			continue
		}
		seen[name] = true

		schema, err := o.registry.Lookup(name)
		if err != nil {
			o.logger.Warn("skipping category", "category", name, "err", err)
			continue
		}
		schemas = append(schemas, schema)
	}
	return schemas
}

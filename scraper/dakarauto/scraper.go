package dakarauto

import (
	"context"
	"log/slog"
	"time"

	"dakar-auto-scraper/config"
	"dakar-auto-scraper/models"
	"dakar-auto-scraper/utils"
)

type PageFetcher interface {
	Fetch(ctx context.Context, schema models.CategorySchema, page int) Page
}

// Scraper walks one category page by page, waiting PageDelay between pages.
type Scraper struct {
	fetcher PageFetcher
	delay   time.Duration
	logger  *slog.Logger
}

func NewScraper(fetcher PageFetcher, cfg *config.Config, logger *slog.Logger) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		delay:   cfg.PageDelay,
		logger:  logger.With("component", "scraper"),
	}
}

// ScrapeCategory fetches pages 1..pageLimit and stops early on the first
// empty or failed page. The table is returned even when it has no rows.
func (s *Scraper) ScrapeCategory(ctx context.Context, schema models.CategorySchema, pageLimit int) models.CategoryTable {
	table := models.CategoryTable{
		Category: schema.Name,
		Columns:  append([]models.Field(nil), schema.Columns...),
		Rows:     []models.Record{},
	}
	stats := &table.Stats
	stats.Termination = models.TerminationPageLimit
	log := s.logger.With("category", schema.Name)

	log.Info("scraping category", "page_limit", pageLimit)

	for number := 1; number <= pageLimit; number++ {
		page := s.fetcher.Fetch(ctx, schema, number)

		if page.Outcome == OutcomeFailed {
			stats.LastStatus = page.StatusCode
			if ctx.Err() != nil {
				stats.Termination = models.TerminationCancelled
				log.Warn("scrape cancelled", "page", number)
			} else {
				stats.Termination = models.TerminationTransportError
				log.Warn("page request failed, ending pagination",
					"page", number, "status", page.StatusCode, "outcome", page.Outcome.String(), "err", page.Err)
			}
			break
		}
		if page.Outcome == OutcomeEmpty {
			stats.LastStatus = page.StatusCode
			stats.Termination = models.TerminationNoListings
			log.Info("no listings on page, ending pagination", "page", number, "outcome", page.Outcome.String())
			break
		}

		stats.Pages++
		added := s.collect(&table, schema, page, log)
		log.Info("page done", "page", number, "listings", len(page.Listings), "rows", added)

		if number == pageLimit {
			break
		}
		if err := utils.Sleep(ctx, s.delay); err != nil {
			stats.Termination = models.TerminationCancelled
			log.Warn("scrape cancelled between pages", "page", number)
			break
		}
	}

	log.Info("category finished",
		"rows", len(table.Rows), "pages", stats.Pages, "skipped", stats.Skipped,
		"discarded", stats.Discarded, "termination", stats.Termination)
	return table
}

func (s *Scraper) collect(table *models.CategoryTable, schema models.CategorySchema, page Page, log *slog.Logger) int {
	added := 0
	for i, card := range page.Listings {
		table.Stats.Listings++

		listing, err := Extract(card)
		if err != nil {
			table.Stats.Skipped++
			log.Warn("skipping listing", "page", page.Number, "index", i, "err", err)
			continue
		}

		row, err := schema.Assemble(listing)
		if err != nil {
			table.Stats.Discarded++
			log.Warn("discarding row", "page", page.Number, "index", i, "err", err)
			continue
		}

		table.Rows = append(table.Rows, row)
		added++
	}
	return added
}

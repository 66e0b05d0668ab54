package dakarauto

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"dakar-auto-scraper/config"
	"dakar-auto-scraper/models"
	"dakar-auto-scraper/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// Outcome classifies a fetched page.
type Outcome int

const (
	OutcomeListings Outcome = iota
	// OutcomeEmpty is a successful response without listing cards.
	OutcomeEmpty
	// OutcomeFailed covers transport errors and non-success statuses.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeListings:
		return "listings"
	case OutcomeEmpty:
		return "no_listings"
	case OutcomeFailed:
		return "transport_error"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

type Page struct {
	Number     int
	URL        string
	Outcome    Outcome
	StatusCode int
	Err        error
	Listings   []*goquery.Selection
}

// Fetcher issues one GET per page. It never retries: a failed page ends
// the category.
type Fetcher struct {
	collector *colly.Collector
	logger    *slog.Logger
}

func NewFetcher(cfg *config.Config, logger *slog.Logger) *Fetcher {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.UserAgent(utils.RandomUserAgent()),
	)
	c.SetRequestTimeout(cfg.RequestTimeout)

	return &Fetcher{
		collector: c,
		logger:    logger.With("component", "fetcher"),
	}
}

func (f *Fetcher) Fetch(ctx context.Context, schema models.CategorySchema, number int) Page {
	page := Page{Number: number, URL: schema.PageURL(number)}
	if err := ctx.Err(); err != nil {
		page.Outcome = OutcomeFailed
		page.Err = err
		return page
	}

	// The clone shares transport and limits but gets its own callbacks.
	collector := f.collector.Clone()
	collector.Context = ctx
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", utils.RandomUserAgent())
		// Paging is reached from the previous results page, as in a browser.
		if number > 1 {
			r.Headers.Set("Referer", schema.PageURL(number-1))
		}
		f.logger.Debug("requesting page", "category", schema.Name, "page", number, "url", r.URL.String())
	})

	collector.OnResponse(func(r *colly.Response) {
		page.StatusCode = r.StatusCode
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			responseErr = fmt.Errorf("parse page %d: %w", number, err)
			return
		}
		doc.Find(listingSelector).Each(func(_ int, card *goquery.Selection) {
			page.Listings = append(page.Listings, card)
		})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			page.StatusCode = r.StatusCode
		}
		responseErr = err
	})

	if err := collector.Visit(page.URL); err != nil && responseErr == nil {
		responseErr = err
	}
	collector.Wait()

	switch {
	case responseErr != nil:
		page.Outcome = OutcomeFailed
		page.Err = fmt.Errorf("GET %s (status %d): %w", page.URL, page.StatusCode, responseErr)
		page.Listings = nil
	case len(page.Listings) == 0:
		page.Outcome = OutcomeEmpty
	default:
		page.Outcome = OutcomeListings
	}
	return page
}

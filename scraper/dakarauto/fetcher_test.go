package dakarauto

import (
	"context"
	"net/http"
	"testing"

	"dakar-auto-scraper/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	site := newListingSite(t, map[string]map[int]stubPage{
		"cars": {
			1: okPage(fullCar(), fullCar()),
			2: okPage(),
			3: {status: http.StatusInternalServerError, body: "boom"},
			4: {status: http.StatusNotFound, body: pageHTML(fullCar())},
		},
	})
	fetcher := NewFetcher(testConfig(), utils.Discard())
	schema := site.schema("cars")

	t.Run("listings found", func(t *testing.T) {
		page := fetcher.Fetch(context.Background(), schema, 1)
		require.Equal(t, OutcomeListings, page.Outcome)
		assert.NoError(t, page.Err)
		assert.Equal(t, http.StatusOK, page.StatusCode)
		assert.Len(t, page.Listings, 2)
		assert.Equal(t, site.URL+"/cars?page=1", page.URL)
	})

	t.Run("empty page", func(t *testing.T) {
		page := fetcher.Fetch(context.Background(), schema, 2)
		assert.Equal(t, OutcomeEmpty, page.Outcome)
		assert.Empty(t, page.Listings)
	})

	t.Run("server error", func(t *testing.T) {
		page := fetcher.Fetch(context.Background(), schema, 3)
		assert.Equal(t, OutcomeFailed, page.Outcome)
		assert.Equal(t, http.StatusInternalServerError, page.StatusCode)
		assert.Error(t, page.Err)
	})

	t.Run("error status ignores body", func(t *testing.T) {
		page := fetcher.Fetch(context.Background(), schema, 4)
		assert.Equal(t, OutcomeFailed, page.Outcome)
		assert.Empty(t, page.Listings)
	})

	t.Run("connection refused", func(t *testing.T) {
		down := newListingSite(t, nil)
		downSchema := down.schema("cars")
		down.Close()

		page := fetcher.Fetch(context.Background(), downSchema, 1)
		assert.Equal(t, OutcomeFailed, page.Outcome)
		assert.Error(t, page.Err)
	})

	t.Run("cancelled context sends nothing", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		before := len(site.requested("cars"))
		page := fetcher.Fetch(ctx, schema, 1)
		assert.Equal(t, OutcomeFailed, page.Outcome)
		assert.ErrorIs(t, page.Err, context.Canceled)
		assert.Len(t, site.requested("cars"), before)
	})

	t.Run("sends a browser user agent", func(t *testing.T) {
		fetcher.Fetch(context.Background(), schema, 1)

		site.mu.Lock()
		defer site.mu.Unlock()
		require.NotEmpty(t, site.userAgents)
		for _, ua := range site.userAgents {
			assert.True(t, utils.IsBrowserUserAgent(ua), ua)
		}
	})

	t.Run("refers later pages to the previous page", func(t *testing.T) {
		site.mu.Lock()
		site.referers = nil
		site.mu.Unlock()

		fetcher.Fetch(context.Background(), schema, 1)
		fetcher.Fetch(context.Background(), schema, 2)

		site.mu.Lock()
		defer site.mu.Unlock()
		require.Len(t, site.referers, 2)
		assert.Empty(t, site.referers[0])
		assert.Equal(t, schema.PageURL(1), site.referers[1])
	})
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "listings", OutcomeListings.String())
	assert.Equal(t, "no_listings", OutcomeEmpty.String())
	assert.Equal(t, "transport_error", OutcomeFailed.String())
}

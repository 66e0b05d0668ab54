package dakarauto

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"dakar-auto-scraper/config"
	"dakar-auto-scraper/models"
	"dakar-auto-scraper/utils"
)

type stubPage struct {
	status int
	body   string
}

// listingSite serves /{category}?page=N from a fixed map and records every
// request it sees.
type listingSite struct {
	*httptest.Server

	mu         sync.Mutex
	pages      map[string]map[int]stubPage
	requests   map[string][]int
	userAgents []string
	referers   []string
}

func newListingSite(t *testing.T, pages map[string]map[int]stubPage) *listingSite {
	t.Helper()
	site := &listingSite{pages: pages, requests: make(map[string][]int)}
	site.Server = httptest.NewServer(http.HandlerFunc(site.serve))
	t.Cleanup(site.Close)
	return site
}

func (s *listingSite) serve(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Path[1:]
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	s.mu.Lock()
	s.requests[category] = append(s.requests[category], page)
	s.userAgents = append(s.userAgents, r.UserAgent())
	s.referers = append(s.referers, r.Referer())
	stub, ok := s.pages[category][page]
	s.mu.Unlock()

	if !ok {
		stub = stubPage{status: http.StatusOK, body: pageHTML()}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(stub.status)
	_, _ = w.Write([]byte(stub.body))
}

func (s *listingSite) requested(category string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.requests[category]...)
}

func (s *listingSite) schema(name string, optional ...models.Field) models.CategorySchema {
	return models.NewCategorySchema(name, s.URL+"/"+name+"?page="+models.PagePlaceholder, optional...)
}

func (s *listingSite) registry() *models.Registry {
	r, err := models.NewRegistry(
		s.schema("cars", models.FieldMileage, models.FieldTransmission, models.FieldFuel),
		s.schema("motorcycles", models.FieldMileage),
		s.schema("rentals"),
	)
	if err != nil {
		panic(err)
	}
	return r
}

func okPage(cards ...card) stubPage {
	return stubPage{status: http.StatusOK, body: pageHTML(cards...)}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.PageDelay = 0
	cfg.RequestTimeout = 5 * time.Second
	return cfg
}

func newTestScraper(cfg *config.Config) *Scraper {
	logger := utils.Discard()
	return NewScraper(NewFetcher(cfg, logger), cfg, logger)
}

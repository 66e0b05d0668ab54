package services

import (
	"io"
	"math"
	"strconv"

	"dakar-auto-scraper/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

type CategorySummary struct {
	Category   string
	Rows       int
	Stats      models.ScrapeStats
	PricedRows int
	AvgPrice   float64
	MinPrice   float64
	MaxPrice   float64
}

type Report struct {
	TotalRows  int
	Categories []CategorySummary
}

// GenerateReport counts rows per category and computes price statistics
// over the rows whose price parses as a number.
func GenerateReport(combined models.CombinedTable) Report {
	report := Report{TotalRows: len(combined.Rows)}
	priceCol := combined.Column(models.FieldPrice)

	byCategory := make(map[string]*CategorySummary, len(combined.Categories))
	for _, name := range combined.Categories {
		report.Categories = append(report.Categories, CategorySummary{
			Category: name,
			Stats:    combined.Stats[name],
			MinPrice: math.MaxFloat64,
		})
	}
	for i := range report.Categories {
		byCategory[report.Categories[i].Category] = &report.Categories[i]
	}

	sums := make(map[string]float64)
	for _, row := range combined.Rows {
		summary, ok := byCategory[row.Category]
		if !ok {
			continue
		}
		summary.Rows++

		price, ok := parsePrice(row.Values, priceCol)
		if !ok {
			continue
		}
		summary.PricedRows++
		sums[row.Category] += price
		summary.MinPrice = math.Min(summary.MinPrice, price)
		summary.MaxPrice = math.Max(summary.MaxPrice, price)
	}

	for i := range report.Categories {
		s := &report.Categories[i]
		if s.PricedRows == 0 {
			s.MinPrice = 0
			continue
		}
		s.AvgPrice = sums[s.Category] / float64(s.PricedRows)
	}
	return report
}

func parsePrice(values models.Record, col int) (float64, bool) {
	if col < 0 || col >= len(values) || values[col] == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(*values[col], 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func PrintReport(w io.Writer, report Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Scrape summary")
	t.AppendHeader(table.Row{"Category", "Rows", "Pages", "Skipped", "Discarded", "Stopped by", "Avg price", "Min price", "Max price"})

	for _, s := range report.Categories {
		t.AppendRow(table.Row{
			s.Category,
			s.Rows,
			s.Stats.Pages,
			s.Stats.Skipped,
			s.Stats.Discarded,
			string(s.Stats.Termination),
			formatPrice(s.AvgPrice, s.PricedRows),
			formatPrice(s.MinPrice, s.PricedRows),
			formatPrice(s.MaxPrice, s.PricedRows),
		})
	}
	t.AppendFooter(table.Row{"Total", report.TotalRows})

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatPrice(v float64, n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}

package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dakar-auto-scraper/models"
)

// CategoryFileSuffix is appended to the category name for per-category files.
const CategoryFileSuffix = "_scraped.csv"

// CSVWriter saves tables as CSV files under dir. Null values become empty
// cells. Existing files are overwritten.
type CSVWriter struct {
	dir          string
	combinedName string
	logger       *slog.Logger
}

func NewCSVWriter(dir, combinedName string, logger *slog.Logger) *CSVWriter {
	return &CSVWriter{
		dir:          dir,
		combinedName: combinedName,
		logger:       logger.With("component", "csv_writer"),
	}
}

func (w *CSVWriter) CategoryPath(category string) string {
	return filepath.Join(w.dir, category+CategoryFileSuffix)
}

func (w *CSVWriter) CombinedPath() string {
	return filepath.Join(w.dir, w.combinedName)
}

func (w *CSVWriter) WriteCategory(_ context.Context, table models.CategoryTable) error {
	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = string(c)
	}

	rows := make([][]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		rows = append(rows, cells(r))
	}

	path := w.CategoryPath(table.Category)
	if err := writeCSV(path, header, rows); err != nil {
		return err
	}
	w.logger.Info("saved category", "category", table.Category, "rows", len(rows), "path", path)
	return nil
}

// WriteCombined writes the category column first, then the union columns.
func (w *CSVWriter) WriteCombined(_ context.Context, table models.CombinedTable) error {
	header := []string{"category"}
	for _, c := range table.Columns {
		header = append(header, string(c))
	}

	rows := make([][]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		rows = append(rows, append([]string{r.Category}, cells(r.Values)...))
	}

	path := w.CombinedPath()
	if err := writeCSV(path, header, rows); err != nil {
		return err
	}
	w.logger.Info("saved combined table", "rows", len(rows), "path", path)
	return nil
}

func cells(r models.Record) []string {
	out := make([]string, len(r))
	for i := range r {
		out[i] = r.String(i)
	}
	return out
}

const artifactMode os.FileMode = 0644

// writeCSV writes to a temp file in the same directory and renames it into
// place, so readers never see a half-written artifact.
func writeCSV(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	file, err := os.CreateTemp(dir, ".tmp-*.csv")
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	tmp := file.Name()
	defer os.Remove(tmp)

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return fmt.Errorf("csv write error: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		file.Close()
		return fmt.Errorf("csv write error: %w", err)
	}
	// CreateTemp opens with 0600; published artifacts are world-readable.
	if err := file.Chmod(artifactMode); err != nil {
		file.Close()
		return fmt.Errorf("could not set mode on %s: %w", tmp, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("could not close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not replace %s: %w", path, err)
	}
	return nil
}

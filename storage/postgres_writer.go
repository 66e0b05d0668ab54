package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dakar-auto-scraper/models"
	"dakar-auto-scraper/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS vehicle_listings (
	id BIGSERIAL PRIMARY KEY,
	category TEXT NOT NULL,
	brand TEXT,
	year TEXT,
	price TEXT,
	address TEXT,
	mileage TEXT,
	transmission TEXT,
	fuel TEXT,
	owner TEXT,
	scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_vehicle_listings_category ON vehicle_listings(category);
`

// clearSQL empties the whole table: the stored rows always mirror the latest
// combined table, so categories absent from a run are removed.
const clearSQL = `DELETE FROM vehicle_listings`

const insertSQL = `
INSERT INTO vehicle_listings (category, brand, year, price, address, mileage, transmission, fuel, owner)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

// txBeginner is satisfied by *pgxpool.Pool.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresWriter mirrors the combined table into vehicle_listings. Each run
// replaces the table contents, matching the combined CSV.
type PostgresWriter struct {
	pool    *pgxpool.Pool
	db      txBeginner
	retries int
	logger  *slog.Logger
}

func NewPostgresWriter(ctx context.Context, dsn string, retries int, logger *slog.Logger) (*PostgresWriter, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresWriter{
		pool:    pool,
		db:      pool,
		retries: retries,
		logger:  logger.With("component", "postgres_writer"),
	}, nil
}

func (w *PostgresWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

func (w *PostgresWriter) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if _, err := w.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// WriteCategory is a no-op; rows are written once, with the combined table.
func (w *PostgresWriter) WriteCategory(context.Context, models.CategoryTable) error {
	return nil
}

func (w *PostgresWriter) WriteCombined(ctx context.Context, table models.CombinedTable) error {
	rows := insertArgs(table)
	err := utils.Retry(ctx, w.logger, w.retries, time.Second, func(ctx context.Context) error {
		return w.replace(ctx, rows)
	})
	if err != nil {
		return err
	}
	w.logger.Info("saved combined table", "rows", len(rows))
	return nil
}

func (w *PostgresWriter) replace(ctx context.Context, rows [][]any) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := w.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, clearSQL); err != nil {
		return fmt.Errorf("clear previous rows: %w", err)
	}

	if len(rows) > 0 {
		batch := &pgx.Batch{}
		for _, args := range rows {
			batch.Queue(insertSQL, args...)
		}

		results := tx.SendBatch(ctx, batch)
		for i := range rows {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("batch insert failed at row %d: %w", i, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("close batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// insertArgs lays each combined row out in insertSQL parameter order.
// Columns the combined table lacks are inserted as NULL.
func insertArgs(table models.CombinedTable) [][]any {
	fields := models.UniversalFields
	positions := make([]int, len(fields))
	for i, f := range fields {
		positions[i] = table.Column(f)
	}

	out := make([][]any, 0, len(table.Rows))
	for _, row := range table.Rows {
		args := make([]any, 0, len(fields)+1)
		args = append(args, row.Category)
		for _, pos := range positions {
			if pos < 0 || pos >= len(row.Values) {
				args = append(args, (*string)(nil))
				continue
			}
			args = append(args, row.Values[pos])
		}
		out = append(out, args)
	}
	return out
}

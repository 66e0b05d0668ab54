package storage

import (
	"context"
	"errors"

	"dakar-auto-scraper/models"
)

type Sink interface {
	WriteCategory(ctx context.Context, table models.CategoryTable) error
	WriteCombined(ctx context.Context, table models.CombinedTable) error
}

// Multi fans writes out to every sink and joins their errors.
type Multi []Sink

func (m Multi) WriteCategory(ctx context.Context, table models.CategoryTable) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.WriteCategory(ctx, table))
	}
	return errors.Join(errs...)
}

func (m Multi) WriteCombined(ctx context.Context, table models.CombinedTable) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.WriteCombined(ctx, table))
	}
	return errors.Join(errs...)
}

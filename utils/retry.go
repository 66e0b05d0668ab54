package utils

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Retry runs fn up to attempts times, doubling the wait after each failure
// (base, 2*base, 4*base, ...). It returns the last error once attempts are
// exhausted or ctx is done.
//
// Page fetches are never retried; an HTTP failure ends a category. Retry
// is for the database sink, where a dropped connection mid-run would
// otherwise lose a whole scrape.
func Retry(ctx context.Context, logger *slog.Logger, attempts int, base time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		wait := base << uint(attempt-1)
		logger.Warn("attempt failed, retrying",
			"attempt", attempt, "of", attempts, "wait", wait, "err", lastErr)
		if err := Sleep(ctx, wait); err != nil {
			return fmt.Errorf("retry interrupted after %d attempts: %w", attempt, lastErr)
		}
	}

	return fmt.Errorf("all %d attempts failed, last error: %w", attempts, lastErr)
}

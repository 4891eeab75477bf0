package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryPolicy retries an operation a bounded number of times with a fixed
// backoff between attempts. The YDB client this store replaced retried
// transparently inside its session pool; here the policy is explicit and
// configurable.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// Do runs fn until it succeeds, the attempts are exhausted, or the context
// is cancelled.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		slog.Warn("store operation failed (retrying...)",
			"op", op, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Backoff):
		}
	}
	return fmt.Errorf("%s: %w (after %d attempts)", op, err, attempts)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Retrier re-runs failed catalog queries with exponential backoff. Context
// cancellation and genuine no-row results are never retried.
type Retrier struct {
	Attempts int
	Backoff  time.Duration
}

// NewRetrier builds a retrier; non-positive arguments fall back to a single
// attempt with no delay.
func NewRetrier(attempts int, backoff time.Duration) Retrier {
	if attempts < 1 {
		attempts = 1
	}
	if backoff < 0 {
		backoff = 0
	}
	return Retrier{Attempts: attempts, Backoff: backoff}
}

// Do runs fn until it succeeds or attempts are exhausted.
func (r Retrier) Do(ctx context.Context, fn func(context.Context) error) error {
	delay := r.Backoff
	var err error
	for attempt := 0; attempt < r.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}
	return err
}

package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RetryPolicy bounds retries of rate-limited upstream calls.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
	}
}

// Delay returns the wait before retry number attempt (0-based). A positive
// hint from the upstream wins over the exponential schedule.
func (p RetryPolicy) Delay(attempt int, hint time.Duration) time.Duration {
	backoff := hint
	if backoff <= 0 {
		backoff = p.BaseDelay
		for i := 0; i < attempt; i++ {
			backoff *= 2
		}
	}
	if p.MaxDelay > 0 && backoff > p.MaxDelay {
		backoff = p.MaxDelay
	}
	return backoff
}

// Retry calls fn, retrying only when it fails with a *RateLimitError. It gives
// up without waiting when the backoff would outlast the context deadline, so
// the caller still has time to fall back.
func Retry(ctx context.Context, p RetryPolicy, logger *slog.Logger, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		var rle *RateLimitError
		if !errors.As(err, &rle) {
			return err
		}
		if attempt >= p.MaxRetries {
			return fmt.Errorf("after %d retries: %w", attempt, err)
		}

		backoff := p.Delay(attempt, rle.RetryAfter)
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= backoff {
			return fmt.Errorf("backoff %s exceeds deadline: %w", backoff, err)
		}
		logger.Warn("rate limited, retrying",
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

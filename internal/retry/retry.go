package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/amishk599/jobcast/internal/model"
)

// Backoff describes how long to wait between attempts.
type Backoff struct {
	MaxRetries int
	BaseDelay  time.Duration
	// Jitter is the fraction of the computed delay added or removed at random.
	Jitter float64
}

// Delay returns the wait before retry number attempt (1-based). A Retry-After
// carried by an HTTPError replaces the exponential delay.
func (b Backoff) Delay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := b.BaseDelay << (attempt - 1)
	if b.Jitter > 0 {
		spread := float64(delay) * b.Jitter
		delay += time.Duration((rand.Float64()*2 - 1) * spread)
	}
	return delay
}

// Do runs op until it succeeds, returns a permanent error, or the retries run out.
// The last error is returned unchanged so callers can inspect it with errors.As.
func Do(ctx context.Context, b Backoff, logger *slog.Logger, op func(context.Context) error) error {
	err := op(ctx)
	for attempt := 1; err != nil && Retryable(err) && attempt <= b.MaxRetries; attempt++ {
		delay := b.Delay(attempt, err)
		logger.Warn("retrying after transient error",
			"attempt", attempt,
			"max_retries", b.MaxRetries,
			"delay", delay,
			"error", err,
		)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-t.C:
		}
		err = op(ctx)
	}
	return err
}

// Retryable reports whether err is a transient failure. Network errors,
// 408, 429 and 5xx responses are transient; other statuses and context
// errors are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusTooManyRequests,
			httpErr.StatusCode == http.StatusRequestTimeout,
			httpErr.StatusCode >= 500:
			return true
		default:
			return false
		}
	}
	return true
}

// RetryFetcher is a PageFetcher decorator that retries transient failures
// with exponential backoff.
type RetryFetcher struct {
	inner   model.PageFetcher
	backoff Backoff
	logger  *slog.Logger
}

var _ model.PageFetcher = (*RetryFetcher)(nil)

// NewRetryFetcher wraps inner. maxRetries counts attempts after the first;
// baseDelay doubles on every retry and gets ±30% jitter.
func NewRetryFetcher(inner model.PageFetcher, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryFetcher {
	return &RetryFetcher{
		inner:   inner,
		backoff: Backoff{MaxRetries: maxRetries, BaseDelay: baseDelay, Jitter: 0.3},
		logger:  logger,
	}
}

// Fetch returns the body of url, retrying transient errors.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := Do(ctx, f.backoff, f.logger.With("url", url), func(ctx context.Context) error {
		b, err := f.inner.Fetch(ctx, url)
		body = b
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

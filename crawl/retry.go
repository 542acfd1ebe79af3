package crawl

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/chrisboden/ccdocs"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// Retrier runs a fetch with exponential backoff.
//
// Transport failures are retried up to MaxAttempts times in total, waiting
// min(BaseDelay*2^n, MaxDelay) scaled by Jitter between attempts. A
// *ccdocs.RateLimitError makes the retrier wait the server's Retry-After and
// try again without using up an attempt or growing the backoff; at most
// MaxRateLimitWaits such waits are made. EINVALID errors are returned
// immediately.
type Retrier struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	MaxRateLimitWaits int

	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// Jitter returns the factor applied to each backoff delay.
	// Defaults to a uniform value in [0.5, 1.0].
	Jitter func() float64

	Logger *slog.Logger
}

// NewRetrier returns a Retrier using the retry settings of cfg.
func NewRetrier(cfg *ccdocs.Config, logger *slog.Logger) *Retrier {
	return &Retrier{
		MaxAttempts:       cfg.MaxAttempts,
		BaseDelay:         cfg.BaseDelay,
		MaxDelay:          cfg.MaxDelay,
		MaxRateLimitWaits: cfg.MaxRateLimitWaits,
		Logger:            logger,
	}
}

// Backoff returns the delay before the retry following the given 0-based
// failed attempt, before jitter.
func (r *Retrier) Backoff(attempt int) time.Duration {
	d := r.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if r.MaxDelay > 0 && d >= r.MaxDelay {
			return r.MaxDelay
		}
	}
	if r.MaxDelay > 0 && d > r.MaxDelay {
		return r.MaxDelay
	}
	return d
}

// Do calls fetch until it succeeds, fails permanently, or the attempt
// budget runs out. The terminal error wraps the last failure.
func (r *Retrier) Do(ctx context.Context, url string, fetch FetchFunc) (string, error) {
	maxAttempts := max(r.MaxAttempts, 1)

	var lastErr error
	waits := 0
	for attempt := 0; attempt < maxAttempts; {
		body, err := fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		var rle *ccdocs.RateLimitError
		if errors.As(err, &rle) {
			if waits >= r.MaxRateLimitWaits {
				return "", ccdocs.WrapErrorf(err, ccdocs.ERATELIMIT, "still rate limited after %d waits", waits)
			}
			waits++
			r.logger().Warn("rate limited", "url", url, "wait", rle.RetryAfter)
			if err := r.sleep(ctx, rle.RetryAfter); err != nil {
				return "", err
			}
			continue
		}

		if !ccdocs.IsRetryable(err) {
			return "", err
		}

		lastErr = err
		attempt++
		r.logger().Warn("fetch attempt failed",
			"url", url,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"err", err,
		)
		if attempt >= maxAttempts {
			break
		}

		delay := time.Duration(float64(r.Backoff(attempt-1)) * r.jitter())
		if err := r.sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", ccdocs.WrapErrorf(lastErr, ccdocs.EUNAVAILABLE, "failed to fetch %s after %d attempts", url, maxAttempts)
}

func (r *Retrier) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func (r *Retrier) jitter() float64 {
	if r.Jitter != nil {
		return r.Jitter()
	}
	return 0.5 + rand.Float64()*0.5
}

func (r *Retrier) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

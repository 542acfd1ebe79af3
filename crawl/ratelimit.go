package crawl

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer inserts a fixed pause between page requests. Every Wait blocks for
// the full delay measured from the call, however long ago the previous
// request finished.
type Pacer struct {
	delay time.Duration
}

// NewPacer creates a Pacer. A delay of zero or less never waits.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait blocks for the pacer's delay.
// Returns an error if the context is canceled before the wait completes.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	limiter := rate.NewLimiter(rate.Every(p.delay), 1)
	limiter.Allow() // the window opens now
	return limiter.Wait(ctx)
}

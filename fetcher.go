package ccdocs

import "context"

// Fetcher retrieves the raw body of a URL in a single attempt.
// Implementations return a *RateLimitError for HTTP 429 and an
// EUNAVAILABLE error for other transport failures.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body string, err error)
}

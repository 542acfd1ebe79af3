// Package http provides net/http implementations of ccdocs.Fetcher and
// ccdocs.SitemapService.
package http

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/chrisboden/ccdocs"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultRetryAfter is used when a 429 response carries no usable Retry-After.
const DefaultRetryAfter = 60 * time.Second

// Ensure Fetcher implements ccdocs.Fetcher at compile time.
var _ ccdocs.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves content from URLs using single HTTP GET requests.
// Retrying is left to the caller.
type Fetcher struct {
	client     *http.Client
	timeout    time.Duration
	userAgent  string
	retryAfter time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout of the client NewFetcher creates.
// Defaults to DefaultFetchTimeout (30s) if not specified. It has no effect
// together with WithClient.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithDefaultRetryAfter sets the wait reported for 429 responses without a
// usable Retry-After header.
func WithDefaultRetryAfter(d time.Duration) Option {
	return func(f *Fetcher) {
		f.retryAfter = d
	}
}

// WithClient uses client instead of a new http.Client. The client is used
// as given; its own Timeout applies.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:    DefaultFetchTimeout,
		retryAfter: DefaultRetryAfter,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}

	return f
}

// Fetch retrieves the body of the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := newRequest(ctx, url, f.userAgent)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", ccdocs.WrapErrorf(err, ccdocs.EUNAVAILABLE, "fetching %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &ccdocs.RateLimitError{
			URL:        url,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), f.retryAfter),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", ccdocs.Errorf(ccdocs.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ccdocs.WrapErrorf(err, ccdocs.EUNAVAILABLE, "reading %s", url)
	}

	return string(body), nil
}

// newRequest builds a GET request carrying the user agent and
// cache-busting headers.
func newRequest(ctx context.Context, url, userAgent string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ccdocs.WrapErrorf(err, ccdocs.EINVALID, "creating request for %q", url)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")
	return req, nil
}

// parseRetryAfter reads a Retry-After value given in seconds or as an HTTP
// date. Anything else yields def.
func parseRetryAfter(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
		return 0
	}
	return def
}

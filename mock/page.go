package mock

import (
	"context"

	"github.com/chrisboden/ccdocs"
)

// Compile-time interface verification.
var (
	_ ccdocs.PageSource  = (*PageSource)(nil)
	_ ccdocs.PageFetcher = (*PageFetcher)(nil)
)

// PageSource is a mock implementation of ccdocs.PageSource.
type PageSource struct {
	DiscoverFn func(ctx context.Context) ccdocs.PageSet
}

func (s *PageSource) Discover(ctx context.Context) ccdocs.PageSet {
	return s.DiscoverFn(ctx)
}

// PageFetcher is a mock implementation of ccdocs.PageFetcher.
type PageFetcher struct {
	FetchPageFn      func(ctx context.Context, baseURL, path string) (*ccdocs.FetchedFile, error)
	FetchChangelogFn func(ctx context.Context) (*ccdocs.FetchedFile, error)
}

func (f *PageFetcher) FetchPage(ctx context.Context, baseURL, path string) (*ccdocs.FetchedFile, error) {
	return f.FetchPageFn(ctx, baseURL, path)
}

func (f *PageFetcher) FetchChangelog(ctx context.Context) (*ccdocs.FetchedFile, error) {
	return f.FetchChangelogFn(ctx)
}

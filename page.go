package ccdocs

import "context"

// PageOrigin tells where a PageSet came from.
type PageOrigin int

const (
	// OriginSitemap means the paths were enumerated from a live sitemap.
	OriginSitemap PageOrigin = iota
	// OriginFallback means the fixed fallback list was used.
	OriginFallback
)

func (o PageOrigin) String() string {
	if o == OriginSitemap {
		return "sitemap"
	}
	return "fallback"
}

// PageSet is the outcome of page discovery.
type PageSet struct {
	Origin PageOrigin

	// SitemapURL is empty when no sitemap could be located.
	SitemapURL string
	BaseURL    string
	Paths      []string

	// Reason explains why the fallback list was used.
	Reason error
}

// FetchedFile pairs a references filename with its content.
type FetchedFile struct {
	Filename string
	URL      string // where the content was fetched from
	Content  string
}

// PageFetcher retrieves and validates documentation content.
// Implementations hide retry logic and content validation.
type PageFetcher interface {
	// FetchPage fetches the markdown variant of a page path below baseURL.
	FetchPage(ctx context.Context, baseURL, path string) (*FetchedFile, error)

	// FetchChangelog fetches the changelog with its attribution header.
	FetchChangelog(ctx context.Context) (*FetchedFile, error)
}

// PageSource decides which pages a run fetches.
// Implementations hide sitemap discovery and the fallback list; Discover
// never fails, it reports a fallback through PageSet.Origin instead.
type PageSource interface {
	Discover(ctx context.Context) PageSet
}

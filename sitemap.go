package ccdocs

import (
	"context"
	"net/url"
	"sort"
	"strings"
)

// SitemapNamespace is the XML namespace of sitemap documents.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Sitemap identifies a reachable sitemap and the site it describes.
type Sitemap struct {
	URL     string
	BaseURL string // scheme://host of the first listed page
}

// SitemapService locates and reads website sitemaps.
type SitemapService interface {
	// Locate returns the first candidate that serves a parseable sitemap
	// with at least one location. Returns ENOTFOUND if none does.
	Locate(ctx context.Context, candidates []string) (*Sitemap, error)

	// URLs returns every location listed by the sitemap. Sitemap indexes
	// are resolved recursively.
	URLs(ctx context.Context, sitemapURL string) ([]string, error)

	// RobotsSitemaps returns the Sitemap: directives of a site's robots.txt.
	RobotsSitemaps(ctx context.Context, siteURL string) ([]string, error)
}

// URLFilter selects documentation pages from sitemap URLs.
type URLFilter struct {
	// Include markers - a URL must contain at least one.
	// If empty, all URLs are included. A nil filter admits every URL.
	Include []string

	// Exclude fragments - a normalized path containing any is dropped.
	// Exclude is applied after Include.
	Exclude []string
}

// NewURLFilter returns the filter described by cfg.
func NewURLFilter(cfg *Config) *URLFilter {
	return &URLFilter{Include: cfg.IncludeMarkers, Exclude: cfg.ExcludeFragments}
}

// Paths filters urls down to sorted, unique, normalized page paths.
func (f *URLFilter) Paths(urls []string) []string {
	seen := make(map[string]bool)
	paths := []string{}
	for _, u := range urls {
		p, ok := f.path(u)
		if !ok || p == "" || seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (f *URLFilter) path(rawURL string) (string, bool) {
	if f != nil && len(f.Include) > 0 && !containsAny(rawURL, f.Include) {
		return "", false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	p := NormalizePath(parsed.Path)
	if f != nil && containsAny(p, f.Exclude) {
		return "", false
	}
	return p, true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

package crawl

import (
	"context"
	"log/slog"

	"github.com/chrisboden/ccdocs"
)

// Ensure Discoverer implements ccdocs.PageSource at compile time.
var _ ccdocs.PageSource = (*Discoverer)(nil)

// Discoverer enumerates documentation pages from the first working sitemap,
// falling back to the configured page list when the sitemap is unusable.
type Discoverer struct {
	sitemaps ccdocs.SitemapService
	config   *ccdocs.Config
	filter   *ccdocs.URLFilter
	logger   *slog.Logger
}

// NewDiscoverer creates a Discoverer.
func NewDiscoverer(sitemaps ccdocs.SitemapService, cfg *ccdocs.Config, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Discoverer{
		sitemaps: sitemaps,
		config:   cfg,
		filter:   ccdocs.NewURLFilter(cfg),
		logger:   logger,
	}
}

// Discover implements ccdocs.PageSource.
func (d *Discoverer) Discover(ctx context.Context) ccdocs.PageSet {
	sm, err := d.sitemaps.Locate(ctx, d.candidates(ctx))
	if err != nil {
		d.logger.Error("failed to discover sitemap", "err", err)
		return d.fallback(ccdocs.PageSet{BaseURL: d.config.FallbackBaseURL, Reason: err})
	}
	d.logger.Info("found sitemap", "sitemap", sm.URL, "base_url", sm.BaseURL)

	set := ccdocs.PageSet{SitemapURL: sm.URL, BaseURL: sm.BaseURL}

	urls, err := d.sitemaps.URLs(ctx, sm.URL)
	if err != nil {
		d.logger.Error("failed to discover pages from sitemap", "sitemap", sm.URL, "err", err)
		set.Reason = err
		return d.fallback(set)
	}

	paths := d.filter.Paths(urls)
	d.logger.Info("discovered documentation pages", "urls", len(urls), "pages", len(paths))
	if len(paths) == 0 {
		set.Reason = ccdocs.Errorf(ccdocs.ENOTFOUND, "sitemap %s lists no documentation pages", sm.URL)
		return d.fallback(set)
	}

	set.Origin = ccdocs.OriginSitemap
	set.Paths = paths
	return set
}

// candidates returns the configured sitemap URLs followed by any declared
// in the fallback site's robots.txt, without duplicates.
func (d *Discoverer) candidates(ctx context.Context) []string {
	candidates := append([]string(nil), d.config.SitemapURLs...)
	if !d.config.UseRobots {
		return candidates
	}

	extra, err := d.sitemaps.RobotsSitemaps(ctx, d.config.FallbackBaseURL)
	if err != nil {
		d.logger.Warn("failed to read robots.txt", "site", d.config.FallbackBaseURL, "err", err)
		return candidates
	}

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		seen[c] = true
	}
	for _, c := range extra {
		if !seen[c] {
			seen[c] = true
			candidates = append(candidates, c)
		}
	}
	return candidates
}

func (d *Discoverer) fallback(set ccdocs.PageSet) ccdocs.PageSet {
	set.Origin = ccdocs.OriginFallback
	set.Paths = append([]string(nil), d.config.FallbackPages...)
	return set
}

package mock

import (
	"context"

	"github.com/chrisboden/ccdocs"
)

var _ ccdocs.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of ccdocs.SitemapService.
type SitemapService struct {
	LocateFn         func(ctx context.Context, candidates []string) (*ccdocs.Sitemap, error)
	URLsFn           func(ctx context.Context, sitemapURL string) ([]string, error)
	RobotsSitemapsFn func(ctx context.Context, siteURL string) ([]string, error)
}

func (s *SitemapService) Locate(ctx context.Context, candidates []string) (*ccdocs.Sitemap, error) {
	return s.LocateFn(ctx, candidates)
}

func (s *SitemapService) URLs(ctx context.Context, sitemapURL string) ([]string, error) {
	return s.URLsFn(ctx, sitemapURL)
}

func (s *SitemapService) RobotsSitemaps(ctx context.Context, siteURL string) ([]string, error) {
	return s.RobotsSitemapsFn(ctx, siteURL)
}

package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/chrisboden/ccdocs"
)

// Ensure LoggingSitemapService implements ccdocs.SitemapService.
var _ ccdocs.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   ccdocs.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next ccdocs.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// Locate delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) Locate(ctx context.Context, candidates []string) (sm *ccdocs.Sitemap, err error) {
	defer func(begin time.Time) {
		var sitemapURL, baseURL string
		if sm != nil {
			sitemapURL, baseURL = sm.URL, sm.BaseURL
		}
		s.logger.Info("sitemap locate",
			"candidates", len(candidates),
			"sitemap", sitemapURL,
			"base_url", baseURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Locate(ctx, candidates)
}

// URLs delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) URLs(ctx context.Context, sitemapURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap urls",
			"url", sitemapURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.URLs(ctx, sitemapURL)
}

// RobotsSitemaps delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) RobotsSitemaps(ctx context.Context, siteURL string) (sitemaps []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("robots sitemaps",
			"url", siteURL,
			"count", len(sitemaps),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.RobotsSitemaps(ctx, siteURL)
}

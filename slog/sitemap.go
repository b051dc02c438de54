package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagescout/pagescout"
)

// Ensure LoggingSitemapService implements pagescout.SitemapService.
var _ pagescout.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with discovery logging.
type LoggingSitemapService struct {
	next   pagescout.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next pagescout.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs logs the discovered URL count and duration, and
// delegates to the wrapped service.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap discovery",
			"url", baseURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL)
}

package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagescout/pagescout"
)

// Ensure LoggingCrawlService implements pagescout.CrawlService.
var _ pagescout.CrawlService = (*LoggingCrawlService)(nil)

// LoggingCrawlService wraps a CrawlService with session and search
// logging.
type LoggingCrawlService struct {
	next   pagescout.CrawlService
	logger *slog.Logger
}

// NewLoggingCrawlService creates a new LoggingCrawlService.
func NewLoggingCrawlService(next pagescout.CrawlService, logger *slog.Logger) *LoggingCrawlService {
	return &LoggingCrawlService{next: next, logger: logger}
}

// Start logs the start outcome and delegates to the wrapped service.
func (c *LoggingCrawlService) Start(ctx context.Context, startURL string) (outcome *pagescout.StartOutcome, err error) {
	defer func() {
		started, running := false, false
		if outcome != nil {
			started, running = outcome.Started, outcome.Running
		}
		c.logger.Info("crawl start",
			"url", startURL,
			"started", started,
			"running", running,
			"err", err,
		)
	}()
	return c.next.Start(ctx, startURL)
}

// Crawl logs the indexed page count and duration, and delegates to the
// wrapped service.
func (c *LoggingCrawlService) Crawl(ctx context.Context, startURL string) (count int, err error) {
	defer func(begin time.Time) {
		c.logger.Info("crawl",
			"url", startURL,
			"pages", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Crawl(ctx, startURL)
}

// Status delegates to the wrapped service.
func (c *LoggingCrawlService) Status(scopeKey string) *pagescout.CrawlStatus {
	return c.next.Status(scopeKey)
}

// Search logs the query and hit count, and delegates to the wrapped
// service.
func (c *LoggingCrawlService) Search(query, scopeKey string) []pagescout.SiteResult {
	begin := time.Now()
	results := c.next.Search(query, scopeKey)
	c.logger.Debug("crawl search",
		"query", query,
		"scope", scopeKey,
		"hits", len(results),
		"duration", time.Since(begin),
	)
	return results
}

package mock

import (
	"context"

	"github.com/pagescout/pagescout"
)

var _ pagescout.CrawlService = (*CrawlService)(nil)

// CrawlService is a mock implementation of pagescout.CrawlService.
type CrawlService struct {
	StartFn  func(ctx context.Context, startURL string) (*pagescout.StartOutcome, error)
	CrawlFn  func(ctx context.Context, startURL string) (int, error)
	StatusFn func(scopeKey string) *pagescout.CrawlStatus
	SearchFn func(query, scopeKey string) []pagescout.SiteResult
}

func (c *CrawlService) Start(ctx context.Context, startURL string) (*pagescout.StartOutcome, error) {
	return c.StartFn(ctx, startURL)
}

func (c *CrawlService) Crawl(ctx context.Context, startURL string) (int, error) {
	return c.CrawlFn(ctx, startURL)
}

func (c *CrawlService) Status(scopeKey string) *pagescout.CrawlStatus {
	return c.StatusFn(scopeKey)
}

func (c *CrawlService) Search(query, scopeKey string) []pagescout.SiteResult {
	return c.SearchFn(query, scopeKey)
}

package pagescout

import "context"

// CrawlService runs bounded breadth-first crawls and searches the
// per-scope page indexes they accumulate. At most one session runs per
// scope key at a time.
type CrawlService interface {
	// Start derives the scope of startURL and begins a crawl session
	// for it in the background. Starting a scope that is already
	// running is a no-op reporting Running.
	Start(ctx context.Context, startURL string) (*StartOutcome, error)

	// Crawl is the synchronous form of Start: it runs the session to
	// completion and returns the scope's cumulative page count.
	Crawl(ctx context.Context, startURL string) (int, error)

	// Status reports the page count and session state for a scope key.
	Status(scopeKey string) *CrawlStatus

	// Search scores the scope's pages against the query. An empty
	// query or unknown scope returns no results.
	Search(query, scopeKey string) []SiteResult
}

package crawl_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pagescout/pagescout"
	"github.com/pagescout/pagescout/crawl"
	"github.com/pagescout/pagescout/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage is one canned page a fake site serves.
type fakePage struct {
	title string
	text  string
	links []string
}

// fakeSite wires mocks so the service crawls an in-memory link graph.
// Page bodies are "title\ntext" strings; the mock extractors split them
// back apart.
func fakeSite(pages map[string]fakePage, fetches *atomic.Int64) (*mock.Fetcher, *mock.ContentExtractor, *mock.LinkExtractor) {
	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*pagescout.FetchResult, error) {
			if fetches != nil {
				fetches.Add(1)
			}
			page, ok := pages[url]
			if !ok {
				return &pagescout.FetchResult{StatusCode: 404, ContentType: "text/html", Body: "<html>missing</html>"}, nil
			}
			return &pagescout.FetchResult{
				StatusCode:  200,
				ContentType: "text/html",
				Body:        page.title + "\n" + page.text,
			}, nil
		},
	}
	content := &mock.ContentExtractor{
		ExtractFn: func(html string) (*pagescout.PageContent, error) {
			title, text, _ := strings.Cut(html, "\n")
			return &pagescout.PageContent{Title: title, Text: text}, nil
		},
	}
	links := &mock.LinkExtractor{
		ExtractLinksFn: func(html string, baseURL string) ([]string, error) {
			return pages[baseURL].links, nil
		},
	}
	return fetcher, content, links
}

func TestService_Crawl_stays_within_scope(t *testing.T) {
	t.Parallel()

	pages := map[string]fakePage{
		"https://a.com/docs/": {title: "Docs home", text: "welcome", links: []string{
			"https://a.com/docs/install",
			"https://a.com/docs/usage",
			"https://a.com/blog/post",    // different first path segment
			"https://other.com/docs/ref", // different host
		}},
		"https://a.com/docs/install": {title: "Install", text: "install steps"},
		"https://a.com/docs/usage":   {title: "Usage", text: "usage notes"},
		"https://a.com/blog/post":    {title: "Blog", text: "out of scope"},
		"https://other.com/docs/ref": {title: "Other", text: "out of scope"},
	}
	fetcher, content, links := fakeSite(pages, nil)
	svc := crawl.NewService(fetcher, content, links)

	count, err := svc.Crawl(context.Background(), "https://a.com/docs/")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	scope, err := pagescout.ScopeFromURL("https://a.com/docs/")
	require.NoError(t, err)
	status := svc.Status(scope.Key())
	assert.Equal(t, 3, status.Pages)
	assert.False(t, status.Running)
}

func TestService_Crawl_respects_page_cap(t *testing.T) {
	t.Parallel()

	// A chain long enough to exceed the cap.
	pages := map[string]fakePage{}
	urls := []string{
		"https://a.com/d/1", "https://a.com/d/2", "https://a.com/d/3",
		"https://a.com/d/4", "https://a.com/d/5",
	}
	for i, u := range urls {
		page := fakePage{title: u, text: "body text"}
		if i+1 < len(urls) {
			page.links = []string{urls[i+1]}
		}
		pages[u] = page
	}
	fetcher, content, links := fakeSite(pages, nil)
	svc := crawl.NewService(fetcher, content, links, crawl.WithMaxPages(2), crawl.WithWorkers(1))

	count, err := svc.Crawl(context.Background(), urls[0])
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestService_Crawl_skips_failed_fetches_without_aborting(t *testing.T) {
	t.Parallel()

	pages := map[string]fakePage{
		"https://a.com/docs/": {title: "Home", text: "welcome", links: []string{
			"https://a.com/docs/missing", // 404
			"https://a.com/docs/binary",  // wrong content type
			"https://a.com/docs/good",
		}},
		"https://a.com/docs/good": {title: "Good", text: "indexed fine"},
	}
	fetcher, content, links := fakeSite(pages, nil)
	fetchFn := fetcher.FetchFn
	fetcher.FetchFn = func(ctx context.Context, url string) (*pagescout.FetchResult, error) {
		if url == "https://a.com/docs/binary" {
			return &pagescout.FetchResult{StatusCode: 200, ContentType: "application/pdf", Body: "%PDF-1.4"}, nil
		}
		return fetchFn(ctx, url)
	}
	svc := crawl.NewService(fetcher, content, links)

	count, err := svc.Crawl(context.Background(), "https://a.com/docs/")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "only the home page and the good page index")
}

func TestService_Crawl_accepts_sniffed_html_without_content_type(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*pagescout.FetchResult, error) {
			return &pagescout.FetchResult{
				StatusCode:  200,
				ContentType: "application/octet-stream",
				Body:        "<html><title>Sniffed</title></html>",
			}, nil
		},
	}
	content := &mock.ContentExtractor{
		ExtractFn: func(html string) (*pagescout.PageContent, error) {
			return &pagescout.PageContent{Title: "Sniffed", Text: "body"}, nil
		},
	}
	links := &mock.LinkExtractor{
		ExtractLinksFn: func(html, baseURL string) ([]string, error) { return nil, nil },
	}
	svc := crawl.NewService(fetcher, content, links)

	count, err := svc.Crawl(context.Background(), "https://a.com/docs/")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_second_session_keeps_cumulative_count(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int64
	pages := map[string]fakePage{
		"https://a.com/docs/":     {title: "Home", text: "welcome", links: []string{"https://a.com/docs/page"}},
		"https://a.com/docs/page": {title: "Page", text: "content"},
	}
	fetcher, content, links := fakeSite(pages, &fetches)
	svc := crawl.NewService(fetcher, content, links)

	count, err := svc.Crawl(context.Background(), "https://a.com/docs/")
	require.NoError(t, err)
	require.Equal(t, 2, count)
	firstFetches := fetches.Load()

	// Already-indexed pages are not re-fetched; the session resolves
	// with the cumulative count.
	count, err = svc.Crawl(context.Background(), "https://a.com/docs/")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, firstFetches, fetches.Load())
}

func TestService_Start_is_noop_for_running_scope(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*pagescout.FetchResult, error) {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return &pagescout.FetchResult{StatusCode: 200, ContentType: "text/html", Body: "<html></html>"}, nil
		},
	}
	content := &mock.ContentExtractor{
		ExtractFn: func(html string) (*pagescout.PageContent, error) {
			return &pagescout.PageContent{Title: "T", Text: "b"}, nil
		},
	}
	links := &mock.LinkExtractor{
		ExtractLinksFn: func(html, baseURL string) ([]string, error) { return nil, nil },
	}
	svc := crawl.NewService(fetcher, content, links)

	first, err := svc.Start(context.Background(), "https://a.com/docs/")
	require.NoError(t, err)
	assert.True(t, first.Started)

	second, err := svc.Start(context.Background(), "https://a.com/docs/")
	require.NoError(t, err)
	assert.True(t, second.Running, "a start for a running scope is a no-op")
	assert.False(t, second.Started)

	// Synchronous crawls respect the same guard.
	_, err = svc.Crawl(context.Background(), "https://a.com/docs/")
	require.Error(t, err)
	assert.Equal(t, pagescout.ECONFLICT, pagescout.ErrorCode(err))

	close(gate)
	require.Eventually(t, func() bool {
		return !svc.Status(first.ScopeKey).Running
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, svc.Status(first.ScopeKey).Pages)
}

func TestService_independent_scopes_run_independently(t *testing.T) {
	t.Parallel()

	pages := map[string]fakePage{
		"https://a.com/docs/": {title: "Docs", text: "docs"},
		"https://a.com/blog/": {title: "Blog", text: "blog"},
	}
	fetcher, content, links := fakeSite(pages, nil)
	svc := crawl.NewService(fetcher, content, links)

	_, err := svc.Crawl(context.Background(), "https://a.com/docs/")
	require.NoError(t, err)
	_, err = svc.Crawl(context.Background(), "https://a.com/blog/")
	require.NoError(t, err)

	docs, _ := pagescout.ScopeFromURL("https://a.com/docs/")
	blog, _ := pagescout.ScopeFromURL("https://a.com/blog/")
	assert.Equal(t, 1, svc.Status(docs.Key()).Pages)
	assert.Equal(t, 1, svc.Status(blog.Key()).Pages)
}

func TestService_Crawl_times_out_slow_fetches(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (*pagescout.FetchResult, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return &pagescout.FetchResult{StatusCode: 200, ContentType: "text/html", Body: "<html></html>"}, nil
			}
		},
	}
	content := &mock.ContentExtractor{
		ExtractFn: func(html string) (*pagescout.PageContent, error) {
			return &pagescout.PageContent{}, nil
		},
	}
	links := &mock.LinkExtractor{
		ExtractLinksFn: func(html, baseURL string) ([]string, error) { return nil, nil },
	}
	svc := crawl.NewService(fetcher, content, links, crawl.WithFetchTimeout(20*time.Millisecond))

	count, err := svc.Crawl(context.Background(), "https://a.com/docs/")
	require.NoError(t, err, "a timed-out fetch is a skipped page, not a fatal error")
	assert.Equal(t, 0, count)
}

func TestService_sitemap_urls_seed_the_frontier(t *testing.T) {
	t.Parallel()

	pages := map[string]fakePage{
		"https://a.com/docs/":         {title: "Home", text: "welcome"},
		"https://a.com/docs/orphan":   {title: "Orphan", text: "not linked from anywhere"},
		"https://a.com/blog/offscope": {title: "Blog", text: "different scope"},
	}
	fetcher, content, links := fakeSite(pages, nil)
	sitemaps := &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
			return []string{
				"https://a.com/docs/orphan",
				"https://a.com/blog/offscope",
			}, nil
		},
	}
	svc := crawl.NewService(fetcher, content, links, crawl.WithSitemaps(sitemaps))

	count, err := svc.Crawl(context.Background(), "https://a.com/docs/")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "the orphan page is reachable via the sitemap; the off-scope one is not")
}

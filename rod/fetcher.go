package rod

import (
	"context"
	"net/http"

	"github.com/go-rod/rod/lib/proto"
	"github.com/pagescout/pagescout"
)

var _ pagescout.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation. The
// returned body is the post-render DOM, so single-page applications and
// JavaScript-hydrated docs sites index correctly.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
}

// NewFetcher launches a headless Chrome browser. Close must be called
// when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...ManagerOption) (*Fetcher, error) {
	manager, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, err
	}
	return &Fetcher{manager: manager}, nil
}

// Fetch navigates to the URL and returns the rendered HTML. A page that
// navigates and loads reports status 200; navigation failures surface
// as EUNAVAILABLE errors. The content type is always text/html since
// the body is a serialized DOM.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*pagescout.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, pagescout.Errorf(pagescout.EUNAVAILABLE, "creating page: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, pagescout.Errorf(pagescout.EUNAVAILABLE, "navigate %s: %v", url, err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, pagescout.Errorf(pagescout.EUNAVAILABLE, "waiting for load of %s: %v", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, pagescout.Errorf(pagescout.EUNAVAILABLE, "reading HTML of %s: %v", url, err)
	}

	f.manager.IncrementPageCount()

	return &pagescout.FetchResult{
		StatusCode:  http.StatusOK,
		ContentType: "text/html",
		Body:        html,
	}, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

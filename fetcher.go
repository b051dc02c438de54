package pagescout

import (
	"context"
	"strings"
)

// FetchResult is one HTTP response body with enough metadata for the
// crawler's acceptance check.
type FetchResult struct {
	StatusCode  int
	ContentType string
	Body        string
}

// OK reports whether the response succeeded (2xx).
func (r *FetchResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTMLShaped reports whether the response looks like an HTML document:
// a declared HTML content type, or, as a fallback for misconfigured
// servers, a raw <html tag near the start of the body.
func (r *FetchResult) HTMLShaped() bool {
	ct := strings.ToLower(r.ContentType)
	if strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml") {
		return true
	}
	head := r.Body
	if len(head) > 1024 {
		head = head[:1024]
	}
	return strings.Contains(strings.ToLower(head), "<html")
}

// Fetcher retrieves documents from URLs. Implementations follow
// redirects and send ambient credentials (cookies) with each request.
type Fetcher interface {
	// Fetch retrieves the document at the URL. The context controls
	// timeout and cancellation. Network failures return an error;
	// non-2xx responses are returned for the caller to reject.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases fetcher resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

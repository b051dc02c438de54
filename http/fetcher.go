// Package http provides the HTTP implementations of pagescout's fetch,
// sitemap, and server interfaces.
package http

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/pagescout/pagescout"
)

// DefaultFetchTimeout bounds a single request when the caller's context
// carries no deadline of its own.
const DefaultFetchTimeout = 12 * time.Second

// maxBodyBytes caps how much of a response body a fetch will read.
const maxBodyBytes = 4 << 20

var _ pagescout.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages over plain HTTP. It carries a cookie jar so
// that sites behind cookie-based auth walls serve the same content they
// would to a browser session, and it follows redirects. It does not
// execute JavaScript; use rod.Fetcher for sites that require rendering.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout. Defaults to
// DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates an HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	// cookiejar.New only errors on bad options; we pass none.
	jar, _ := cookiejar.New(nil)
	f.client = &http.Client{
		Timeout: f.timeout,
		Jar:     jar,
	}

	return f
}

// Fetch retrieves the page at url. Non-2xx responses are returned as
// results, not errors, so the caller can distinguish a dead page from a
// dead network.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*pagescout.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pagescout.Errorf(pagescout.EINVALID, "invalid URL %q: %v", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pagescout.Errorf(pagescout.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, pagescout.Errorf(pagescout.EUNAVAILABLE, "read %s: %v", url, err)
	}

	return &pagescout.FetchResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        string(body),
	}, nil
}

// Close releases resources. A no-op for the plain HTTP fetcher.
func (f *Fetcher) Close() error {
	return nil
}

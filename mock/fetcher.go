package mock

import (
	"context"

	"github.com/pagescout/pagescout"
)

var _ pagescout.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pagescout.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*pagescout.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*pagescout.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

package mock

import (
	"context"

	"github.com/pagescout/pagescout"
)

var _ pagescout.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of pagescout.URLFrontier.
type URLFrontier struct {
	PushFn func(url string) bool
	PopFn  func() (string, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *URLFrontier) Push(url string) bool {
	return f.PushFn(url)
}

func (f *URLFrontier) Pop() (string, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}

var _ pagescout.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of pagescout.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}

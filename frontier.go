package pagescout

import "context"

// URLFrontier manages a crawl session's work queue with deduplication.
// The seen-set doubles as the session's visited-set: a popped URL stays
// seen, so it can never be re-queued within the session.
type URLFrontier interface {
	// Push adds a URL to the queue.
	// Returns false if the URL has already been seen this session.
	Push(url string) bool

	// Pop returns the next URL in FIFO order.
	// Returns false if the queue is empty.
	Pop() (string, bool)

	// Len returns the number of URLs waiting in the queue.
	Len() int

	// Seen returns true if the URL has been queued or processed.
	Seen(url string) bool
}

// HostLimiter provides per-host rate limiting.
type HostLimiter interface {
	// Wait blocks until the rate limit allows a request to the host.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}

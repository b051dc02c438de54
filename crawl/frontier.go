package crawl

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/pagescout/pagescout"
)

// Compile-time interface verification.
var _ pagescout.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue with Bloom filter
// deduplication. The filter doubles as the session's visited-set: once a
// URL is pushed it can never re-enter the queue, so each URL is fetched
// at most once per session. It is safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.BloomFilter
	queue []string
}

// NewFrontier creates a Frontier sized for n expected URLs with the
// given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{seen: bloom.NewWithEstimates(n, fpRate)}
}

// Push adds a URL to the queue. Returns false if the URL has already
// been seen this session. URL fragments are stripped first, so URLs
// differing only by fragment are duplicates.
func (f *Frontier) Push(url string) bool {
	url = stripFragment(url)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen.TestString(url) {
		return false
	}
	f.seen.AddString(url)
	f.queue = append(f.queue, url)
	return true
}

// Pop returns the next URL in breadth-first order.
// The bool result is false if the queue is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue = f.queue[1:]
	return url, true
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued or processed this
// session. Fragments are stripped before checking.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.TestString(stripFragment(url))
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}

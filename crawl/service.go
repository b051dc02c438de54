// Package crawl implements the scope crawler: bounded breadth-first
// fetch-and-extract sessions restricted to a (host, first-path-segment)
// scope, feeding per-scope in-memory page indexes that answer searches.
package crawl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pagescout/pagescout"
)

// Compile-time interface verification.
var _ pagescout.CrawlService = (*Service)(nil)

// Crawl limits.
const (
	// DefaultMaxPages caps how many pages one session may index.
	DefaultMaxPages = 60

	// DefaultWorkers is the number of concurrent fetch workers.
	DefaultWorkers = 4

	// DefaultFetchTimeout bounds a single page fetch.
	DefaultFetchTimeout = 12 * time.Second

	// dispatchBuffer bounds how many URLs sit between the coordinator
	// and the workers.
	dispatchBuffer = 6

	// MaxSearchResults caps one search response.
	MaxSearchResults = 20

	// Frontier sizing for Bloom filter deduplication.
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01

	// maxSitemapSeeds bounds how many sitemap URLs seed a session.
	maxSitemapSeeds = 200
)

// scopeIndex is one scope's page map. Append/overwrite only: records
// are superseded by re-fetches, never mutated in place.
type scopeIndex struct {
	mu    sync.RWMutex
	pages map[string]*pagescout.PageRecord
}

func newScopeIndex() *scopeIndex {
	return &scopeIndex{pages: make(map[string]*pagescout.PageRecord)}
}

func (idx *scopeIndex) add(rec *pagescout.PageRecord) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.pages[rec.URL] = rec
}

func (idx *scopeIndex) has(url string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.pages[url]
	return ok
}

func (idx *scopeIndex) count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.pages)
}

func (idx *scopeIndex) records() []*pagescout.PageRecord {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	recs := make([]*pagescout.PageRecord, 0, len(idx.pages))
	for _, rec := range idx.pages {
		recs = append(recs, rec)
	}
	return recs
}

// Service owns the per-scope page indexes and the session table. It
// lives for the host process's lifetime; handlers receive the instance
// rather than reaching for ambient globals.
type Service struct {
	fetcher  pagescout.Fetcher
	content  pagescout.ContentExtractor
	links    pagescout.LinkExtractor
	limiter  pagescout.HostLimiter
	sitemaps pagescout.SitemapService
	logger   *slog.Logger

	maxPages     int
	workers      int
	fetchTimeout time.Duration

	mu      sync.Mutex
	scopes  map[string]*scopeIndex
	running map[string]*session
}

// Option configures a Service.
type Option func(*Service)

// WithHostLimiter sets a per-host politeness rate limiter.
func WithHostLimiter(l pagescout.HostLimiter) Option {
	return func(s *Service) { s.limiter = l }
}

// WithSitemaps enables sitemap seeding of session frontiers.
func WithSitemaps(sm pagescout.SitemapService) Option {
	return func(s *Service) { s.sitemaps = sm }
}

// WithLogger sets the service logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMaxPages overrides the per-session page cap.
func WithMaxPages(n int) Option {
	return func(s *Service) { s.maxPages = n }
}

// WithWorkers overrides the fetch worker count.
func WithWorkers(n int) Option {
	return func(s *Service) { s.workers = n }
}

// WithFetchTimeout overrides the per-fetch timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) { s.fetchTimeout = d }
}

// NewService creates a crawl service.
func NewService(fetcher pagescout.Fetcher, content pagescout.ContentExtractor, links pagescout.LinkExtractor, opts ...Option) *Service {
	s := &Service{
		fetcher:      fetcher,
		content:      content,
		links:        links,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxPages:     DefaultMaxPages,
		workers:      DefaultWorkers,
		fetchTimeout: DefaultFetchTimeout,
		scopes:       make(map[string]*scopeIndex),
		running:      make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a background crawl session for the scope of startURL.
// The session table is mutex-guarded, so two near-simultaneous starts
// for the same scope cannot race into a double session: the second one
// reports Running.
func (s *Service) Start(ctx context.Context, startURL string) (*pagescout.StartOutcome, error) {
	sess, err := s.begin(startURL)
	if err != nil {
		if pagescout.ErrorCode(err) == pagescout.ECONFLICT {
			scope, _ := pagescout.ScopeFromURL(startURL)
			return &pagescout.StartOutcome{ScopeKey: scope.Key(), Running: true}, nil
		}
		return nil, err
	}

	// The session outlives the start request.
	bctx := context.WithoutCancel(ctx)
	go func() {
		count := sess.run(bctx)
		s.end(sess)
		s.logger.Info("crawl session finished",
			"session", sess.id,
			"scope", sess.scope.Key(),
			"pages", count,
		)
	}()

	return &pagescout.StartOutcome{ScopeKey: sess.scope.Key(), Started: true}, nil
}

// Crawl runs a session to completion and returns the scope's cumulative
// page count. Returns ECONFLICT if the scope already has an active
// session.
func (s *Service) Crawl(ctx context.Context, startURL string) (int, error) {
	sess, err := s.begin(startURL)
	if err != nil {
		return 0, err
	}
	defer s.end(sess)
	return sess.run(ctx), nil
}

// begin registers a new session for the scope of startURL, enforcing
// one active session per scope key.
func (s *Service) begin(startURL string) (*session, error) {
	scope, err := pagescout.ScopeFromURL(startURL)
	if err != nil {
		return nil, err
	}
	key := scope.Key()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.running[key]; ok {
		return nil, pagescout.Errorf(pagescout.ECONFLICT, "crawl already running for scope %s", key)
	}
	if _, ok := s.scopes[key]; !ok {
		s.scopes[key] = newScopeIndex()
	}
	sess := newSession(s, scope, startURL)
	s.running[key] = sess
	return sess, nil
}

func (s *Service) end(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Only remove our own handle; a superseded session must not evict
	// its successor.
	if cur, ok := s.running[sess.scope.Key()]; ok && cur == sess {
		delete(s.running, sess.scope.Key())
	}
}

// Status reports the page count and session state for a scope key.
func (s *Service) Status(scopeKey string) *pagescout.CrawlStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := &pagescout.CrawlStatus{ScopeKey: scopeKey}
	if idx, ok := s.scopes[scopeKey]; ok {
		status.Pages = idx.count()
	}
	_, status.Running = s.running[scopeKey]
	return status
}

func (s *Service) scopeFor(key string) *scopeIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scopes[key]
}

package crawl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pagescout/pagescout"
	"golang.org/x/sync/errgroup"
)

// session is one bounded breadth-first crawl run for a scope. Its
// frontier and visited-set start empty even when the scope already has
// indexed pages from a prior session; those pages are kept but never
// re-queued.
type session struct {
	id       string
	svc      *Service
	scope    pagescout.Scope
	startURL string
	frontier *Frontier
	indexed  int
}

func newSession(svc *Service, scope pagescout.Scope, startURL string) *session {
	return &session{
		id:       uuid.NewString(),
		svc:      svc,
		scope:    scope,
		startURL: startURL,
		frontier: NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate),
	}
}

// outcome is the result of fetching and extracting one URL.
type outcome struct {
	url    string
	record *pagescout.PageRecord
	links  []string
	err    error
}

// run executes the session and returns the scope's cumulative page
// count. It terminates when the queue empties with no active workers or
// when the per-session page cap is reached, whichever comes first.
func (s *session) run(ctx context.Context) int {
	s.seed(ctx)

	idx := s.svc.scopeFor(s.scope.Key())

	workCh := make(chan string, dispatchBuffer)
	resultCh := make(chan outcome)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < s.svc.workers; i++ {
		g.Go(func() error {
			for u := range workCh {
				out := s.svc.process(gctx, u)
				select {
				case resultCh <- out:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(resultCh)
	}()

	pending := 0
	next, hasNext := s.nextURL(idx)

dispatch:
	for {
		if ctx.Err() != nil {
			break
		}
		if s.indexed >= s.svc.maxPages {
			hasNext = false
		}
		if !hasNext && pending == 0 {
			break
		}

		if hasNext {
			select {
			case workCh <- next:
				pending++
				hasNext = false
			case out, ok := <-resultCh:
				if !ok {
					break dispatch
				}
				pending--
				s.handle(idx, out)
			case <-ctx.Done():
			}
		} else {
			select {
			case out, ok := <-resultCh:
				if !ok {
					break dispatch
				}
				pending--
				s.handle(idx, out)
			case <-ctx.Done():
			}
		}

		if !hasNext && s.indexed < s.svc.maxPages {
			next, hasNext = s.nextURL(idx)
		}
	}

	close(workCh)
	for out := range resultCh {
		s.handle(idx, out)
	}

	return idx.count()
}

// seed pushes the start URL and, when sitemap discovery is configured,
// a bounded number of in-scope sitemap URLs.
func (s *session) seed(ctx context.Context) {
	s.frontier.Push(s.startURL)

	if s.svc.sitemaps == nil {
		return
	}
	urls, err := s.svc.sitemaps.DiscoverURLs(ctx, s.startURL)
	if err != nil {
		s.svc.logger.Debug("sitemap discovery failed",
			"session", s.id, "url", s.startURL, "err", err)
		return
	}
	seeded := 0
	for _, u := range urls {
		if seeded >= maxSitemapSeeds {
			break
		}
		if s.scope.Contains(u) && s.frontier.Push(u) {
			seeded++
		}
	}
}

// nextURL pops frontier URLs, skipping any already present in the
// scope's page map.
func (s *session) nextURL(idx *scopeIndex) (string, bool) {
	for {
		u, ok := s.frontier.Pop()
		if !ok {
			return "", false
		}
		if idx.has(u) {
			continue
		}
		return u, true
	}
}

// handle records an accepted page and enqueues its in-scope links.
// Fetch failures are non-fatal: the URL is simply not indexed.
func (s *session) handle(idx *scopeIndex, out outcome) {
	if out.err != nil {
		s.svc.logger.Debug("page skipped",
			"session", s.id, "url", out.url, "err", out.err)
		return
	}
	if s.indexed >= s.svc.maxPages {
		return
	}

	idx.add(out.record)
	s.indexed++

	for _, link := range out.links {
		if !s.scope.Contains(link) {
			continue
		}
		if idx.has(link) {
			continue
		}
		s.frontier.Push(link)
	}
}

// process fetches one URL and extracts its content and links.
func (s *Service) process(ctx context.Context, rawURL string) outcome {
	out := outcome{url: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil {
		out.err = pagescout.Errorf(pagescout.EINVALID, "invalid URL %q: %v", rawURL, err)
		return out
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, u.Host); err != nil {
			out.err = err
			return out
		}
	}

	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	res, err := s.fetcher.Fetch(fctx, rawURL)
	if err != nil {
		out.err = err
		return out
	}
	if !res.OK() {
		out.err = pagescout.Errorf(pagescout.EUNAVAILABLE, "HTTP %d for %s", res.StatusCode, rawURL)
		return out
	}
	if !res.HTMLShaped() {
		out.err = pagescout.Errorf(pagescout.EINVALID, "non-HTML response for %s", rawURL)
		return out
	}

	content, err := s.content.Extract(res.Body)
	if err != nil {
		out.err = err
		return out
	}

	text := pagescout.TruncatePageText(content.Text)
	out.record = &pagescout.PageRecord{
		URL:         rawURL,
		Title:       content.Title,
		Text:        text,
		ContentHash: fmt.Sprintf("%x", xxhash.Sum64String(text)),
		FetchedAt:   time.Now(),
	}

	if links, err := s.links.ExtractLinks(res.Body, rawURL); err == nil {
		out.links = links
	}
	return out
}

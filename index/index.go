// Package index implements the in-page indexer: it walks a parsed
// document tree, extracts a flat list of indexable sections, and answers
// ranked suggestion queries against an in-memory index that is rebuilt
// lazily after invalidation.
package index

import (
	"sort"
	"strings"
	"sync"

	"github.com/pagescout/pagescout"
	"golang.org/x/net/html"
)

// Compile-time interface verification.
var _ pagescout.Indexer = (*Service)(nil)

// document holds one frame's tree and its (possibly stale) index.
type document struct {
	frameHref string
	root      *html.Node
	stale     bool
	entries   []pagescout.Entry
	byID      map[string]*html.Node
}

// Service indexes one document tree per frame, keyed by frame href.
// It is safe for concurrent use by multiple goroutines.
type Service struct {
	mu     sync.Mutex
	frames map[string]*document
}

// NewService creates an empty indexer service.
func NewService() *Service {
	return &Service{frames: make(map[string]*document)}
}

// SetDocument registers or wholesale-replaces a frame's document. The
// index is not built here; the next query builds it lazily.
func (s *Service) SetDocument(frameHref, rawHTML string) error {
	if frameHref == "" {
		return pagescout.Errorf(pagescout.EINVALID, "frame href required")
	}
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return pagescout.Errorf(pagescout.EINVALID, "parsing document for %q: %v", frameHref, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames[frameHref] = &document{
		frameHref: frameHref,
		root:      root,
		stale:     true,
	}
	return nil
}

// Invalidate marks a frame's index stale. Rebuild storms during bursty
// mutation are avoided because no work happens until the next query.
func (s *Service) Invalidate(frameHref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.frames[frameHref]
	if !ok {
		return false
	}
	doc.stale = true
	return true
}

// Frames returns the registered frame hrefs in sorted order.
func (s *Service) Frames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedFrames()
}

func (s *Service) sortedFrames() []string {
	hrefs := make([]string, 0, len(s.frames))
	for href := range s.frames {
		hrefs = append(hrefs, href)
	}
	sort.Strings(hrefs)
	return hrefs
}

// ensureBuilt rebuilds a stale frame index. Callers must hold s.mu.
func (s *Service) ensureBuilt(doc *document) {
	if !doc.stale && doc.entries != nil {
		return
	}
	doc.entries, doc.byID = Build(doc.frameHref, doc.root)
	doc.stale = false
}

// scored pairs an entry with its match score and global document order
// for stable ranking.
type scored struct {
	entry *pagescout.Entry
	score int
	order int
}

// Suggest returns ranked suggestions across all registered frames.
// Given a fixed document set and query, consecutive calls return
// identical ordered results: the sort is stable and ties keep document
// order.
func (s *Service) Suggest(query string, limit int) ([]pagescout.Suggestion, error) {
	q := pagescout.NormalizeQuery(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []scored
	order := 0
	for _, href := range s.sortedFrames() {
		doc := s.frames[href]
		s.ensureBuilt(doc)
		for i := range doc.entries {
			e := &doc.entries[i]
			if sc := Score(e, q); sc >= 0 {
				matches = append(matches, scored{entry: e, score: sc, order: order})
			}
			order++
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	suggestions := make([]pagescout.Suggestion, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, pagescout.Suggestion{
			ID:        pagescout.QualifyID(m.entry.FrameHref, m.entry.RawID),
			RawID:     m.entry.RawID,
			FrameHref: m.entry.FrameHref,
			Title:     m.entry.DisplayTitle(),
			Level:     m.entry.Level,
		})
	}
	return suggestions, nil
}

// ScrollTo resolves an identifier to its element. A frame-qualified
// identifier is routed to its frame; a raw identifier is looked up in
// every frame. On a miss the frame index is rebuilt once and the lookup
// retried; a miss after that is reported as false, never an error.
func (s *Service) ScrollTo(id string) (bool, error) {
	frameHref, rawID := pagescout.SplitID(id)
	if rawID == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if frameHref != "" {
		doc, ok := s.frames[frameHref]
		if !ok {
			return false, nil
		}
		return s.resolve(doc, rawID), nil
	}

	for _, href := range s.sortedFrames() {
		if s.resolve(s.frames[href], rawID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) resolve(doc *document, rawID string) bool {
	s.ensureBuilt(doc)
	if _, ok := doc.byID[rawID]; ok {
		return true
	}
	// The DOM may have changed since the index was built. Force one
	// rebuild and retry; a miss after that is a hard failure.
	doc.stale = true
	s.ensureBuilt(doc)
	_, ok := doc.byID[rawID]
	return ok
}

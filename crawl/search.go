package crawl

import (
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pagescout/pagescout"
)

// Text fragment window around the first query occurrence.
const (
	fragmentBefore = 20
	fragmentAfter  = 80
)

// Search scores a scope's pages against the query. An empty query or
// unknown scope returns no results; pages scoring zero are excluded.
func (s *Service) Search(query, scopeKey string) []pagescout.SiteResult {
	q := pagescout.NormalizeQuery(query)
	if q == "" {
		return nil
	}
	idx := s.scopeFor(scopeKey)
	if idx == nil {
		return nil
	}

	type hit struct {
		rec      *pagescout.PageRecord
		body     string
		score    int
		matchIdx int
	}

	var hits []hit
	for _, rec := range idx.records() {
		body := strings.ToLower(rec.Text)
		score, matchIdx := scorePage(rec, body, q)
		if score <= 0 {
			continue
		}
		hits = append(hits, hit{rec: rec, body: body, score: score, matchIdx: matchIdx})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].rec.URL < hits[j].rec.URL
	})
	if len(hits) > MaxSearchResults {
		hits = hits[:MaxSearchResults]
	}

	results := make([]pagescout.SiteResult, 0, len(hits))
	for _, h := range hits {
		title := h.rec.Title + " — " + h.rec.URL
		if h.rec.Title == "" {
			title = h.rec.URL
		}
		fragment := ""
		if h.matchIdx >= 0 {
			// The window is cut from the same case-folded text the
			// match index was computed on; folding can change byte
			// offsets, and fragment matching is case-insensitive on
			// navigation anyway.
			fragment = textFragment(h.body, h.matchIdx, len(q))
		}
		results = append(results, pagescout.SiteResult{
			ID:       "crawl:" + h.rec.URL,
			Level:    pagescout.LevelSite,
			Title:    title,
			URL:      h.rec.URL,
			Fragment: fragment,
		})
	}
	return results
}

// scorePage rates one page against a normalized query: title prefix and
// containment score additively, and a body match adds a position-decayed
// bonus. body is the case-folded page text; matchIdx is the first body
// occurrence within it, or -1.
func scorePage(rec *pagescout.PageRecord, body, q string) (score, matchIdx int) {
	title := strings.ToLower(rec.Title)
	if strings.HasPrefix(title, q) {
		score += 30
	}
	if strings.Contains(title, q) {
		score += 20
	}

	matchIdx = strings.Index(body, q)
	if matchIdx >= 0 {
		bonus := 20 - matchIdx/50
		if bonus < 0 {
			bonus = 0
		}
		score += 10 + bonus
	}
	return score, matchIdx
}

// textFragment builds a text-fragment URL suffix from a window around
// the matched text, for deep-linking into the page on navigation.
func textFragment(text string, idx, matchLen int) string {
	start := idx - fragmentBefore
	if start < 0 {
		start = 0
	}
	end := idx + matchLen + fragmentAfter
	if end > len(text) {
		end = len(text)
	}
	// Keep the window on rune boundaries.
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	snippet := pagescout.NormalizeText(text[start:end])
	if snippet == "" {
		return ""
	}
	return "#:~:text=" + fragmentEscape(snippet)
}

// fragmentEscape percent-encodes a snippet for use in a text fragment.
// Dashes are encoded too because they delimit fragment ranges.
func fragmentEscape(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	escaped = strings.ReplaceAll(escaped, "-", "%2D")
	return escaped
}

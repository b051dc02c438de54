package pagescout

import (
	"time"
	"unicode/utf8"
)

// MaxPageTextLen bounds the extracted text stored per crawled page.
const MaxPageTextLen = 20000

// PageRecord is one crawled page in a scope's index. Records are never
// mutated after insertion; a re-fetch supersedes the old record wholesale.
type PageRecord struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// PageContent holds the title and readable text extracted from HTML.
type PageContent struct {
	Title string
	Text  string
}

// SiteResult is one crawl-search hit crossing the crawler boundary.
// Fragment, when non-empty, is a text-fragment URL suffix (including the
// leading "#") that deep-links into the matched text on navigation.
type SiteResult struct {
	ID       string `json:"id"`
	Level    Level  `json:"level"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Fragment string `json:"fragment"`
}

// CrawlStatus reports the state of a scope's index.
type CrawlStatus struct {
	ScopeKey string `json:"scopeKey"`
	Pages    int    `json:"pages"`
	Running  bool   `json:"running"`
}

// StartOutcome reports the result of a crawl start request. Exactly one
// of Started and Running is true: a start for a scope that already has an
// active session is a no-op.
type StartOutcome struct {
	ScopeKey string `json:"scopeKey"`
	Started  bool   `json:"started"`
	Running  bool   `json:"running"`
}

// TruncatePageText bounds page text to at most MaxPageTextLen bytes,
// backing up so the cut never splits a multi-byte rune.
func TruncatePageText(s string) string {
	if len(s) <= MaxPageTextLen {
		return s
	}
	cut := MaxPageTextLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

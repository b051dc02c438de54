package pagescout

import (
	"fmt"
	"strings"
)

// Entry classification constants. Headings carry their rank in the level
// string ("heading-1" through "heading-6").
const (
	LevelParagraph    Level = "paragraph"
	LevelLink         Level = "link"
	LevelEmbed        Level = "embed"
	LevelPDFTextLayer Level = "pdf-text-layer"

	// LevelSite marks results that come from the scope crawler rather
	// than the current page.
	LevelSite Level = "site"
)

// MinEntryTextLen is the minimum normalized text length for a paragraph
// or PDF text layer to be indexed. Shorter fragments are noise.
const MinEntryTextLen = 20

// TitleTruncateLen caps the entry-text portion of a display title.
const TitleTruncateLen = 120

// Level tags an index entry with the kind of element it came from.
type Level string

// HeadingLevel returns the level for a heading of the given rank (1-6).
func HeadingLevel(rank int) Level {
	return Level(fmt.Sprintf("heading-%d", rank))
}

// IsHeading reports whether the level is a heading rank.
func (l Level) IsHeading() bool {
	return strings.HasPrefix(string(l), "heading-")
}

// Entry is one indexed unit of page content. Entries are produced in
// document order; ParentTitle always names the most recently visited
// heading, never a later one.
type Entry struct {
	// RawID is the per-element identifier assigned at build time. It is
	// not stable across rebuilds: a full rebuild resets the counter, so
	// callers must re-resolve identifiers after any invalidation.
	RawID string

	// FrameHref is the location of the frame the entry belongs to.
	FrameHref string

	Level       Level
	Title       string
	ParentTitle string
}

// SearchText is the string matched against queries. Every non-heading
// entry has a non-empty search text.
func (e *Entry) SearchText() string {
	return e.ParentTitle + e.Title
}

// DisplayTitle composes the title shown in the popup. Headings show their
// own text; everything else is prefixed with its section heading.
func (e *Entry) DisplayTitle() string {
	if e.Level.IsHeading() {
		return e.Title
	}
	return e.ParentTitle + " — " + TruncateTitle(e.Title, TitleTruncateLen)
}

// Suggestion is one ranked result crossing the page-indexer boundary.
// ID is frame-qualified (frameHref::rawId) so a caller aggregating across
// embedded frames can disambiguate; RawID and FrameHref route a follow-up
// scroll request.
type Suggestion struct {
	ID        string `json:"id"`
	RawID     string `json:"rawId"`
	FrameHref string `json:"frameHref"`
	Title     string `json:"title"`
	Level     Level  `json:"level"`
}

// QualifyID builds a frame-qualified identifier.
func QualifyID(frameHref, rawID string) string {
	return frameHref + "::" + rawID
}

// SplitID strips the frame qualifier from an identifier, if present.
// Raw identifiers pass through with an empty frame href.
func SplitID(id string) (frameHref, rawID string) {
	if idx := strings.LastIndex(id, "::"); idx != -1 {
		return id[:idx], id[idx+2:]
	}
	return "", id
}

// TruncateTitle shortens s to max runes, appending an ellipsis when
// anything was cut.
func TruncateTitle(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// NormalizeText collapses runs of whitespace to single spaces and trims.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeQuery prepares a user query for matching.
func NormalizeQuery(q string) string {
	return strings.ToLower(NormalizeText(q))
}

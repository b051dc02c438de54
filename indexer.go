package pagescout

import "time"

// HighlightDuration is how long the collaborator should keep the
// highlight class on a scrolled-to element.
const HighlightDuration = 2 * time.Second

// Indexer answers ranked suggestion queries against per-frame document
// indexes, rebuilding lazily after invalidation.
type Indexer interface {
	// SetDocument registers or wholesale-replaces a frame's document.
	// Replacement recreates every element, so identifiers handed out
	// for the previous document become unresolvable.
	SetDocument(frameHref, html string) error

	// Invalidate marks a frame's index stale after a document mutation.
	// No work happens until the next query. Returns false if the frame
	// is unknown.
	Invalidate(frameHref string) bool

	// Suggest returns ranked suggestions across all registered frames.
	// A limit <= 0 returns all matches. Unknown state degrades to an
	// empty result set rather than an error.
	Suggest(query string, limit int) ([]Suggestion, error)

	// ScrollTo resolves a frame-qualified or raw identifier to its
	// element, forcing one rebuild on a lookup miss. Returns false if
	// no element was found; misses are never errors.
	ScrollTo(id string) (bool, error)
}

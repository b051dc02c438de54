package index

import (
	"strings"

	"github.com/pagescout/pagescout"
)

// structuralBase is a slight bias toward headings and PDF text layers so
// section anchors surface above body matches of equal quality.
const structuralBase = 5

// Match quality constants. Exact always outranks prefix, prefix outranks
// any interior substring, and an interior substring outranks a scattered
// subsequence. Later substring positions score lower, flooring at 50.
const (
	scoreExact        = 100
	scorePrefix       = 80
	scoreSubstring    = 60
	scoreSubsequence  = 30
	maxSubstringSlide = 50
)

// Score rates an entry against a normalized (lowercased, collapsed)
// query. Negative means no match; an empty query gives every entry a
// near-neutral score so ordering stays stable.
func Score(e *pagescout.Entry, query string) int {
	base := 0
	if e.Level.IsHeading() || e.Level == pagescout.LevelPDFTextLayer {
		base = structuralBase
	}

	if query == "" {
		return 1 + base
	}

	text := strings.ToLower(e.SearchText())
	if text == query {
		return scoreExact + base
	}
	if strings.HasPrefix(text, query) {
		return scorePrefix + base
	}
	if idx := strings.Index(text, query); idx >= 0 {
		if idx > maxSubstringSlide {
			idx = maxSubstringSlide
		}
		return scoreSubstring - idx + base
	}
	if isSubsequence(text, query) {
		return scoreSubsequence + base
	}
	return -1
}

// isSubsequence reports whether every rune of needle appears in order
// (not necessarily contiguously) in haystack.
func isSubsequence(haystack, needle string) bool {
	runes := []rune(needle)
	i := 0
	for _, r := range haystack {
		if i == len(runes) {
			return true
		}
		if r == runes[i] {
			i++
		}
	}
	return i == len(runes)
}

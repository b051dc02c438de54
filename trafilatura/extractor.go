// Package trafilatura implements a pagescout.ContentExtractor backed by
// go-trafilatura's readability heuristics. It is the slowest of the
// extractors but the best at separating article text from boilerplate.
package trafilatura

import (
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/pagescout/pagescout"
)

var _ pagescout.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and the main content text, with
// whitespace collapsed and the text bounded to pagescout.MaxPageTextLen.
func (e *Extractor) Extract(rawHTML string) (*pagescout.PageContent, error) {
	if rawHTML == "" {
		return nil, pagescout.Errorf(pagescout.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, pagescout.Errorf(pagescout.EINTERNAL, "content extraction failed: %v", err)
	}

	text := pagescout.TruncatePageText(pagescout.NormalizeText(result.ContentText))

	return &pagescout.PageContent{
		Title: pagescout.NormalizeText(result.Metadata.Title),
		Text:  text,
	}, nil
}

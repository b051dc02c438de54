// Package readability implements a pagescout.ContentExtractor backed by
// go-readability's article extraction.
package readability

import (
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/pagescout/pagescout"
)

var _ pagescout.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and text, with whitespace collapsed
// and the text bounded to pagescout.MaxPageTextLen.
func (e *Extractor) Extract(rawHTML string) (*pagescout.PageContent, error) {
	if rawHTML == "" {
		return nil, pagescout.Errorf(pagescout.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, pagescout.Errorf(pagescout.EINTERNAL, "content extraction failed: %v", err)
	}

	return &pagescout.PageContent{
		Title: pagescout.NormalizeText(article.Title),
		Text:  pagescout.TruncatePageText(pagescout.NormalizeText(article.TextContent)),
	}, nil
}

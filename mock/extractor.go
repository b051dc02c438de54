package mock

import "github.com/pagescout/pagescout"

var _ pagescout.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of pagescout.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*pagescout.PageContent, error)
}

func (e *ContentExtractor) Extract(html string) (*pagescout.PageContent, error) {
	return e.ExtractFn(html)
}

var _ pagescout.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of pagescout.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}

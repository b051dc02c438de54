package mock

import "github.com/pagescout/pagescout"

var _ pagescout.Indexer = (*Indexer)(nil)

// Indexer is a mock implementation of pagescout.Indexer.
type Indexer struct {
	SetDocumentFn func(frameHref, html string) error
	InvalidateFn  func(frameHref string) bool
	SuggestFn     func(query string, limit int) ([]pagescout.Suggestion, error)
	ScrollToFn    func(id string) (bool, error)
}

func (i *Indexer) SetDocument(frameHref, html string) error {
	return i.SetDocumentFn(frameHref, html)
}

func (i *Indexer) Invalidate(frameHref string) bool {
	return i.InvalidateFn(frameHref)
}

func (i *Indexer) Suggest(query string, limit int) ([]pagescout.Suggestion, error) {
	return i.SuggestFn(query, limit)
}

func (i *Indexer) ScrollTo(id string) (bool, error) {
	return i.ScrollToFn(id)
}

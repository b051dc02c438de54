package pagescout

// ContentExtractor extracts the title and readable text from HTML.
// The crawler runs without a live document, so the default
// implementation is a small regex-based extractor; stricter parsers can
// be substituted without touching crawl orchestration.
type ContentExtractor interface {
	// Extract returns the page title and visible text, with whitespace
	// collapsed and the text bounded to MaxPageTextLen.
	Extract(html string) (*PageContent, error)
}

// LinkExtractor extracts outbound link URLs from HTML.
type LinkExtractor interface {
	// ExtractLinks returns absolute URLs for the anchors in html,
	// resolved against baseURL, with fragments stripped and non-HTTP
	// schemes (javascript:, mailto:, tel:, data:) skipped.
	ExtractLinks(html string, baseURL string) ([]string, error)
}

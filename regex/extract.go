// Package regex implements pagescout extractors with regular
// expressions. It trades parsing rigor for zero DOM overhead, which is
// what the crawler wants when indexing dozens of pages per session.
// Stricter implementations live in the goquery and trafilatura
// packages.
package regex

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/pagescout/pagescout"
)

var _ pagescout.ContentExtractor = (*ContentExtractor)(nil)

var (
	titleRe   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	dropRe    = regexp.MustCompile(`(?is)<(script|style|noscript|template)[^>]*>.*?</\w+>`)
	tagRe     = regexp.MustCompile(`(?s)<[^>]+>`)
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	anchorRe  = regexp.MustCompile(`(?is)<a\s[^>]*href\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// ContentExtractor extracts the title and visible text from HTML by
// stripping markup.
type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Extract returns the document title and the tag-stripped body text,
// whitespace-collapsed and bounded to pagescout.MaxPageTextLen.
func (e *ContentExtractor) Extract(rawHTML string) (*pagescout.PageContent, error) {
	var title string
	if m := titleRe.FindStringSubmatch(rawHTML); m != nil {
		title = pagescout.NormalizeText(html.UnescapeString(m[1]))
	}

	text := commentRe.ReplaceAllString(rawHTML, " ")
	text = dropRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = pagescout.NormalizeText(html.UnescapeString(text))
	text = pagescout.TruncatePageText(text)

	return &pagescout.PageContent{Title: title, Text: text}, nil
}

var _ pagescout.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor pulls anchor hrefs out of HTML without building a DOM.
type LinkExtractor struct{}

func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns absolute URLs for the anchors in rawHTML,
// resolved against baseURL. Fragments are stripped and non-HTTP
// schemes are skipped. Order follows document order with duplicates
// removed.
func (e *LinkExtractor) ExtractLinks(rawHTML string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, pagescout.Errorf(pagescout.EINVALID, "invalid base URL: %v", err)
	}

	seen := make(map[string]struct{})
	var links []string

	for _, m := range anchorRe.FindAllStringSubmatch(rawHTML, -1) {
		href := m[1]
		if href == "" {
			href = m[2]
		}
		href = html.UnescapeString(strings.TrimSpace(href))
		if href == "" || isNonHTTPLink(href) {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			continue
		}
		resolved.Fragment = ""

		u := resolved.String()
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		links = append(links, u)
	}

	return links, nil
}

func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

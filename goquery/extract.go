// Package goquery implements pagescout extractors on top of a real DOM.
// Compared to the regex package it handles malformed markup and can
// prefer the main content container over boilerplate.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pagescout/pagescout"
	"golang.org/x/net/html"
)

// contentSelectors are tried in order; the first non-empty match wins.
// They cover the containers common documentation generators emit.
var contentSelectors = []string{
	"main",
	"article",
	"[role='main']",
	"#content",
	".content",
}

var _ pagescout.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor extracts the title and visible text from parsed HTML.
type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Extract returns the document title and the text of the main content
// container, falling back to the whole body. Script and style text is
// excluded by removal before text extraction.
func (e *ContentExtractor) Extract(rawHTML string) (*pagescout.PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, pagescout.Errorf(pagescout.EINVALID, "failed to parse HTML: %v", err)
	}

	title := pagescout.NormalizeText(doc.Find("title").First().Text())

	doc.Find("script, style, noscript, template").Remove()

	var container *goquery.Selection
	for _, sel := range contentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 && strings.TrimSpace(s.Text()) != "" {
			container = s
			break
		}
	}
	if container == nil {
		container = doc.Find("body")
	}

	text := pagescout.TruncatePageText(pagescout.NormalizeText(selectionText(container)))

	return &pagescout.PageContent{Title: title, Text: text}, nil
}

// selectionText gathers the text nodes under a selection with a space
// between adjacent nodes, so text from sibling elements does not run
// together the way Selection.Text concatenates it.
func selectionText(sel *goquery.Selection) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for _, n := range sel.Nodes {
		visit(n)
	}
	return sb.String()
}

var _ pagescout.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor collects anchor hrefs in document order.
type LinkExtractor struct{}

func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns absolute URLs for the anchors in rawHTML,
// resolved against baseURL, with fragments stripped, non-HTTP schemes
// skipped, and duplicates removed.
func (e *LinkExtractor) ExtractLinks(rawHTML string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, pagescout.Errorf(pagescout.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, pagescout.Errorf(pagescout.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isNonHTTPLink(href) {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		resolved.Fragment = ""

		u := resolved.String()
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		links = append(links, u)
	})

	return links, nil
}

func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

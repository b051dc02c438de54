package index

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/pagescout/pagescout"
	"golang.org/x/net/html"
)

// MarkerAttr is the attribute that carries an element's identifier.
// Scroll targets are resolved by this marker, not by object identity.
const MarkerAttr = "data-ps-id"

// pdfTextLayerClass marks rendered-PDF text layers (pdf.js convention).
const pdfTextLayerClass = "textLayer"

// pdfPageAttr marks a rendered-PDF page container with its page number.
const pdfPageAttr = "data-page-number"

// pdfFallbackLabel is the section label for PDF text with no page marker
// and no preceding heading.
const pdfFallbackLabel = "PDF document"

// kind is the classification a node receives during traversal.
type kind int

const (
	kindSkip kind = iota
	kindPrune
	kindHeading
	kindParagraph
	kindLink
	kindEmbed
	kindPDFLayer
)

// classify maps a node to one of the fixed entry kinds. It is the only
// place that knows which elements are indexable, so the traversal
// generalizes to any tree-shaped document model.
func classify(n *html.Node) kind {
	if n.Type != html.ElementNode {
		return kindSkip
	}
	switch n.Data {
	case "script", "style", "noscript", "template":
		return kindPrune
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return kindHeading
	case "p":
		return kindParagraph
	case "a":
		return kindLink
	case "embed", "iframe", "object":
		return kindEmbed
	}
	if hasClass(n, pdfTextLayerClass) {
		return kindPDFLayer
	}
	return kindSkip
}

// Build walks the tree in document order and produces the frame's
// entries plus the marker-to-node lookup table. Identifiers are
// positional and monotonically increasing per rebuild; a rebuild resets
// the counter, so they are not stable across rebuilds.
func Build(frameHref string, root *html.Node) ([]pagescout.Entry, map[string]*html.Node) {
	var entries []pagescout.Entry
	byID := make(map[string]*html.Node)
	section := ""
	nextID := 0

	record := func(n *html.Node, level pagescout.Level, title, parent string) {
		id := "ps-" + strconv.Itoa(nextID)
		nextID++
		setAttr(n, MarkerAttr, id)
		byID[id] = n
		entries = append(entries, pagescout.Entry{
			RawID:       id,
			FrameHref:   frameHref,
			Level:       level,
			Title:       title,
			ParentTitle: parent,
		})
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		descend := true
		switch classify(n) {
		case kindPrune:
			return
		case kindHeading:
			rank := int(n.Data[1] - '0')
			title := pagescout.NormalizeText(nodeText(n))
			record(n, pagescout.HeadingLevel(rank), title, "")
			section = title
		case kindParagraph:
			text := pagescout.NormalizeText(nodeText(n))
			if section != "" && len([]rune(text)) >= pagescout.MinEntryTextLen {
				record(n, pagescout.LevelParagraph, text, section)
			}
		case kindLink:
			if text := compositeText(n, attrValue(n, "href")); section != "" && text != "" {
				record(n, pagescout.LevelLink, text, section)
			}
		case kindEmbed:
			descend = false
			src := attrValue(n, "src")
			if src == "" {
				src = attrValue(n, "data")
			}
			if text := compositeText(n, src); section != "" && text != "" {
				record(n, pagescout.LevelEmbed, text, section)
			}
		case kindPDFLayer:
			descend = false
			text := pagescout.NormalizeText(nodeText(n))
			if len([]rune(text)) >= pagescout.MinEntryTextLen {
				parent := pdfPageLabel(n)
				if parent == "" {
					parent = section
				}
				if parent == "" {
					parent = pdfFallbackLabel
				}
				record(n, pagescout.LevelPDFTextLayer, text, parent)
			}
		}
		if !descend {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return entries, byID
}

// compositeText builds the searchable text for a link or embedded
// object: visible text, aria-label, title attribute, alt text of nested
// images, and the filename from the URL's final path segment, with and
// without its extension.
func compositeText(n *html.Node, rawURL string) string {
	var parts []string
	add := func(s string) {
		if s = pagescout.NormalizeText(s); s != "" {
			parts = append(parts, s)
		}
	}

	add(nodeText(n))
	add(attrValue(n, "aria-label"))
	add(attrValue(n, "title"))
	for _, img := range findElements(n, "img") {
		add(attrValue(img, "alt"))
	}
	if name := urlFilename(rawURL); name != "" {
		add(name)
		if ext := path.Ext(name); ext != "" {
			add(strings.TrimSuffix(name, ext))
		}
	}

	return strings.Join(parts, " ")
}

// urlFilename returns the final path segment of a URL, or "".
func urlFilename(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// pdfPageLabel derives a section label from the nearest enclosing page
// container, or "" if the layer is not inside one.
func pdfPageLabel(n *html.Node) string {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			if num := attrValue(p, pdfPageAttr); num != "" {
				return "Page " + num
			}
		}
	}
	return ""
}

// nodeText concatenates the text nodes under n, skipping script-like
// subtrees.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

// findElements returns the elements with the given tag under n.
func findElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return out
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

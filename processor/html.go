package processor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	arbtrans "github.com/SauravKhanalgit/arb-translator-sub001"
)

// HTMLProcessor extracts and applies translations to HTML content. It is
// used both for standalone HTML documents and for rich-text ARB values
// that embed markup.
type HTMLProcessor struct {
	ignoredTags map[string]bool
}

// NewHTMLProcessor creates a new HTML processor with default ignored tags.
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{
		ignoredTags: arbtrans.IgnoredTags,
	}
}

// NewHTMLProcessorWithIgnoredTags creates a new HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLProcessor{
		ignoredTags: ignored,
	}
}

// parsedHTML holds the parsed document between Extract and Apply.
type parsedHTML struct {
	doc *goquery.Document
}

// walkTextNodes visits every translatable text node in the document,
// skipping ignored tags and elements marked data-no-translate.
func (p *HTMLProcessor) walkTextNodes(doc *goquery.Document, visit func(n *html.Node, trimmed string)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if p.ignoredTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "data-no-translate" {
					return
				}
			}
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				visit(n, trimmed)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	doc.Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			walk(n)
		}
	})
}

// Extract parses HTML and extracts translatable text nodes.
func (p *HTMLProcessor) Extract(content string) (interface{}, []arbtrans.TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &arbtrans.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	var nodes []arbtrans.TextNode
	seenHashes := make(map[string]bool)

	p.walkTextNodes(doc, func(n *html.Node, trimmed string) {
		hash := arbtrans.HashText(trimmed)
		if seenHashes[hash] {
			return
		}
		seenHashes[hash] = true

		node := arbtrans.TextNode{
			ID:       fmt.Sprintf("node-%d", len(nodes)),
			Text:     trimmed,
			Hash:     hash,
			NodeType: "html_text",
			Context:  buildContext(n),
			Metadata: map[string]string{},
		}
		if n.Parent != nil {
			node.Metadata["parent_tag"] = n.Parent.Data
		}
		nodes = append(nodes, node)
	})

	return &parsedHTML{doc: doc}, nodes, nil
}

// Apply applies translations back to the HTML document.
func (p *HTMLProcessor) Apply(parsed interface{}, nodes []arbtrans.TextNode, translations map[string]string) (string, error) {
	ph, ok := parsed.(*parsedHTML)
	if !ok {
		return "", &arbtrans.ProcessorError{
			Message:     "invalid parsed content type",
			ContentType: "html",
		}
	}

	p.walkTextNodes(ph.doc, func(n *html.Node, trimmed string) {
		if translated, ok := translations[arbtrans.HashText(trimmed)]; ok {
			// Preserve original whitespace around the text
			n.Data = preserveWhitespace(n.Data, translated)
		}
	})

	result, err := ph.doc.Html()
	if err != nil {
		return "", &arbtrans.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: "html",
		}
	}

	return result, nil
}

// ContentType returns "html".
func (p *HTMLProcessor) ContentType() string {
	return "html"
}

// buildContext creates a disambiguation context string for a text node
// from its parent element.
func buildContext(n *html.Node) string {
	parent := n.Parent
	if parent == nil || parent.Type != html.ElementNode {
		return ""
	}

	var classAttr, idAttr string
	for _, attr := range parent.Attr {
		switch attr.Key {
		case "class":
			classAttr = attr.Val
		case "id":
			idAttr = attr.Val
		}
	}

	switch {
	case classAttr != "":
		return fmt.Sprintf("in <%s class=%q>", parent.Data, classAttr)
	case idAttr != "":
		return fmt.Sprintf("in <%s id=%q>", parent.Data, idAttr)
	default:
		return fmt.Sprintf("in <%s>", parent.Data)
	}
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + translated + trailing
}

// Verify HTMLProcessor implements ContentProcessor
var _ ContentProcessor = (*HTMLProcessor)(nil)

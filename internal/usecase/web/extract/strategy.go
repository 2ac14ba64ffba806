package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockTags separate their text from the surrounding text.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "li": true,
	"ul": true, "ol": true, "blockquote": true, "figcaption": true, "td": true, "tr": true,
	"header": true, "footer": true, "aside": true, "pre": true, "table": true,
}

// visibleText returns the text of the selection with block elements separated by spaces.
func visibleText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if blockTags[n.Data] {
				b.WriteByte(' ')
				defer b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}

// Strategy extracts candidate main text from a parsed page.
type Strategy interface {
	Name() string
	Extract(doc *goquery.Document) string
}

// SelectorStrategy takes the text of the first element matching a CSS selector.
type SelectorStrategy struct {
	Selector string
}

// Name implements Strategy.
func (s SelectorStrategy) Name() string { return "selector:" + s.Selector }

// Extract implements Strategy.
func (s SelectorStrategy) Extract(doc *goquery.Document) string {
	return visibleText(doc.Find(s.Selector).First())
}

// BlocksStrategy concatenates the text of every element matching a CSS selector.
type BlocksStrategy struct {
	Selector string
}

// Name implements Strategy.
func (s BlocksStrategy) Name() string { return "blocks" }

// Extract implements Strategy.
func (s BlocksStrategy) Extract(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find(s.Selector).Each(func(_ int, sel *goquery.Selection) {
		t := strings.TrimSpace(visibleText(sel))
		if t == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t)
	})
	return b.String()
}

// BodyStrategy takes all visible body text.
type BodyStrategy struct{}

// Name implements Strategy.
func (BodyStrategy) Name() string { return "body" }

// Extract implements Strategy.
func (BodyStrategy) Extract(doc *goquery.Document) string {
	return visibleText(doc.Find("body"))
}

// DefaultSelectors are tried in order for the main article text.
var DefaultSelectors = []string{
	"article",
	".article-content",
	".entry-content",
	".post-content",
	".content",
	".story-body",
	"main",
	`[data-testid="article-body"]`,
}

// DefaultStrategies returns the selector strategies for DefaultSelectors.
func DefaultStrategies() []Strategy {
	out := make([]Strategy, 0, len(DefaultSelectors))
	for _, sel := range DefaultSelectors {
		out = append(out, SelectorStrategy{Selector: sel})
	}
	return out
}

// DefaultFallbacks returns the strategies used when no selector yields enough text.
func DefaultFallbacks() []Strategy {
	return []Strategy{
		BlocksStrategy{Selector: "p, h1, h2, h3, li, blockquote"},
		BodyStrategy{},
	}
}

// Package htmlparser extracts text, links and converted content from
// rendered HTML. A Parser is constructed once per scrape outcome; text and
// link extraction are lazy and computed at most once.
package htmlparser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/umbralabs/umbra/models"
)

// Kind selects the parsing strategy.
type Kind string

const (
	// KindHTML5 builds a full DOM with the HTML5 parsing algorithm.
	// Default; required for Select.
	KindHTML5 Kind = "html5"

	// KindTokenizer streams tokens without building a DOM. Cheaper for
	// pages where only text and links are needed.
	KindTokenizer Kind = "tokenizer"
)

// ParseKind converts a config string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindHTML5:
		return KindHTML5, nil
	case KindTokenizer:
		return KindTokenizer, nil
	default:
		return "", models.NewScrapeError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("unknown parser kind %q (want %q or %q)", s, KindHTML5, KindTokenizer),
			nil,
		)
	}
}

// Parser holds one page's HTML and extracts content from it on demand.
type Parser struct {
	// Partial is true when the HTML was captured at deadline expiry,
	// before the page finished loading.
	Partial bool

	baseURL string
	rawHTML string
	kind    Kind
	doc     *goquery.Document // nil in tokenizer mode

	textOnce  sync.Once
	text      string
	linksOnce sync.Once
	links     []string
}

// New creates a Parser for html rendered at baseURL. Empty input is an
// immediate INVALID_INPUT error, never retried.
func New(baseURL, rawHTML string, kind Kind) (*Parser, error) {
	if rawHTML == "" {
		return nil, models.NewScrapeError(
			models.ErrCodeInvalidInput,
			"parser expects non-empty HTML input",
			nil,
		)
	}
	if kind == "" {
		kind = KindHTML5
	}

	p := &Parser{baseURL: baseURL, rawHTML: rawHTML, kind: kind}

	if kind == KindHTML5 {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
		if err != nil {
			return nil, models.NewScrapeError(
				models.ErrCodeInvalidInput,
				"failed to parse HTML document",
				err,
			)
		}
		p.doc = doc
	}
	return p, nil
}

// BaseURL returns the URL the HTML was rendered at.
func (p *Parser) BaseURL() string { return p.baseURL }

// HTML returns the raw HTML the parser was built from.
func (p *Parser) HTML() string { return p.rawHTML }

// Text returns the markup-free text content, one trimmed fragment per
// line. Script, style and noscript contents are excluded.
func (p *Parser) Text() string {
	p.textOnce.Do(func() {
		if p.doc != nil {
			p.text = domText(p.doc)
		} else {
			p.text = tokenText(p.rawHTML)
		}
	})
	return p.text
}

// Links returns the href targets of all anchors, resolved against the base
// URL, fragment-stripped and de-duplicated in first-seen order. Anchors
// without an href attribute are skipped.
func (p *Parser) Links() []string {
	p.linksOnce.Do(func() {
		var raw []string
		if p.doc != nil {
			p.doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
				if href, ok := sel.Attr("href"); ok && href != "" {
					raw = append(raw, href)
				}
			})
		} else {
			raw = tokenLinks(p.rawHTML)
		}
		p.links = NormalizeLinks(p.baseURL, raw)
	})
	return p.links
}

// skippedElements never contribute to text extraction.
var skippedElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
}

func domText(doc *goquery.Document) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skippedElements[n.Data]; skip {
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return strings.Join(parts, "\n")
}

func tokenText(rawHTML string) string {
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	var parts []string
	skipDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(parts, "\n")
		case html.StartTagToken:
			name, _ := z.TagName()
			if _, skip := skippedElements[string(name)]; skip {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if _, skip := skippedElements[string(name)]; skip && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			if t := strings.TrimSpace(string(z.Text())); t != "" {
				parts = append(parts, t)
			}
		}
	}
}

func tokenLinks(rawHTML string) []string {
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	var links []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			return links
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" && len(val) > 0 {
					links = append(links, string(val))
				}
				if !more {
					break
				}
			}
		}
	}
}

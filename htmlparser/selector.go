package htmlparser

import (
	"bytes"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/umbralabs/umbra/models"
)

// Select returns the concatenated outer HTML of all elements matching the
// CSS selector. If nothing matches, the original HTML is returned
// unchanged so downstream processing still has something to work with.
func (p *Parser) Select(selector string) (string, error) {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return "", models.NewScrapeError(
			models.ErrCodeInvalidInput,
			"invalid CSS selector",
			err,
		)
	}

	doc, err := html.Parse(strings.NewReader(p.rawHTML))
	if err != nil {
		return "", models.NewScrapeError(
			models.ErrCodeInvalidInput,
			"failed to parse HTML document",
			err,
		)
	}

	matches := cascadia.QueryAll(doc, sel)
	if len(matches) == 0 {
		return p.rawHTML, nil
	}

	var buf bytes.Buffer
	for _, node := range matches {
		if err := html.Render(&buf, node); err != nil {
			return "", models.NewScrapeError(
				models.ErrCodeInternal,
				"failed to render matched elements",
				err,
			)
		}
	}
	return buf.String(), nil
}

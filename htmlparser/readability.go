package htmlparser

import (
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/umbralabs/umbra/models"
)

// Article runs the Mozilla Readability algorithm on the page HTML and
// returns the main content with metadata (title, byline, excerpt). Unlike
// Text, this strips navigation, footers and sidebars.
func (p *Parser) Article() (readability.Article, error) {
	parsedURL, err := nurl.Parse(p.baseURL)
	if err != nil {
		return readability.Article{}, models.NewScrapeError(
			models.ErrCodeExtraction,
			"invalid base URL for content extraction",
			err,
		)
	}

	article, err := readability.FromReader(strings.NewReader(p.rawHTML), parsedURL)
	if err != nil {
		return readability.Article{}, models.NewScrapeError(
			models.ErrCodeExtraction,
			"readability extraction failed",
			err,
		)
	}
	return article, nil
}

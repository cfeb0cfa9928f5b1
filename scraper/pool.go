package scraper

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/umbralabs/umbra/models"
)

// pageIntent is the decision the pool makes for one page request.
type pageIntent int

const (
	// intentCreateFirst creates the first page and runs the one-time
	// session storage restore.
	intentCreateFirst pageIntent = iota

	// intentReuse hands back the single retained page.
	intentReuse

	// intentCreateAdditional creates a fresh page, leaving prior pages
	// open. The pool grows monotonically; there is no eviction.
	intentCreateAdditional
)

func pageIntentFor(existing int, newPagePerScrape bool) pageIntent {
	switch {
	case existing == 0:
		return intentCreateFirst
	case newPagePerScrape:
		return intentCreateAdditional
	default:
		return intentReuse
	}
}

// acquirePage hands out the page for one scrape request. The first call
// creates a page and performs the storage restore; later calls either
// reuse that page or, with NewPagePerScrape, grow the pool.
func (e *Engine) acquirePage(ctx context.Context) (*rod.Page, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch pageIntentFor(len(e.pages), e.cfg.NewPagePerScrape) {
	case intentCreateFirst:
		page, err := e.newPreparedPage()
		if err != nil {
			return nil, err
		}
		if err := e.restorer.restore(ctx, &rodSession{page: page}); err != nil {
			// The session counts as consumed; the page does not carry the
			// storage it was supposed to, so it is not retained.
			_ = page.Close()
			return nil, err
		}
		e.pages = append(e.pages, page)
		return page, nil

	case intentCreateAdditional:
		page, err := e.newPreparedPage()
		if err != nil {
			return nil, err
		}
		e.pages = append(e.pages, page)
		slog.Debug("page pool grew", "pages", len(e.pages))
		return page, nil

	default:
		return e.pages[len(e.pages)-1], nil
	}
}

// newPreparedPage creates a page and applies, in order, the stealth
// scripts and the emulated environment. Both must land before the page's
// first navigation.
func (e *Engine) newPreparedPage() (*rod.Page, error) {
	page, err := e.context.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to create page",
			err,
		)
	}

	if err := e.installStealth(page); err != nil {
		_ = page.Close()
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to prepare page", err)
	}
	if err := e.prepareEnvironment(page); err != nil {
		_ = page.Close()
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to prepare page", err)
	}
	return page, nil
}

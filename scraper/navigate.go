package scraper

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/go-rod/rod"

	"github.com/umbralabs/umbra/models"
)

// networkQuietWindow is the quiescence window the "network idle" wait
// requires before it considers the page settled.
const networkQuietWindow = 300 * time.Millisecond

// Human-like dwell bounds after the post-load scroll.
const (
	minDwell = 500 * time.Millisecond
	maxDwell = 1500 * time.Millisecond
)

// scrollToMiddleJS smoothly scrolls to the page's vertical midpoint. One
// scroll both mimics a reader and triggers lazy-loaded content below the
// fold.
const scrollToMiddleJS = `() => {
	window.scrollTo({
		top: document.body.scrollHeight / 2,
		behavior: 'smooth'
	});
}`

// pageSession is the narrow navigation surface the orchestrator drives.
// Production uses a rod-backed implementation; tests substitute a stub.
type pageSession interface {
	// navigate starts loading url under ctx's deadline. The idle waiter
	// is armed before navigation starts so no request is missed.
	navigate(ctx context.Context, url string) error

	// waitSettled blocks until network activity has been quiet for the
	// quiescence window, or ctx expires.
	waitSettled(ctx context.Context) error

	// eval runs a JS function in the page.
	eval(ctx context.Context, js string, args ...any) error

	// content returns the current DOM serialization. It must work even
	// after ctx has expired, so partial content can be captured.
	content() (string, error)
}

// rodSession adapts a rod page to the pageSession surface.
type rodSession struct {
	page *rod.Page
	idle func()
}

func (s *rodSession) navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	// WaitRequestIdle registers its CDP listener now; arming it after
	// Navigate would miss in-flight requests and report a false idle.
	s.idle = p.WaitRequestIdle(networkQuietWindow, nil, nil, nil)
	return p.Navigate(url)
}

func (s *rodSession) waitSettled(ctx context.Context) error {
	if s.idle != nil {
		s.idle()
		s.idle = nil
	}
	return ctx.Err()
}

func (s *rodSession) eval(ctx context.Context, js string, args ...any) error {
	_, err := s.page.Context(ctx).Eval(js, args...)
	return err
}

func (s *rodSession) content() (string, error) {
	// Deliberately not bound to the request context: this is the path
	// that salvages partial content after the deadline fired.
	return s.page.HTML()
}

// navigateAndSettle drives one navigation to completion and classifies
// the outcome:
//
//	deadline exceeded  -> current DOM content, partial=true, no error
//	any other failure  -> error (page left as-is, not recreated)
//	loaded             -> behavior policy applied, full content
//
// In human-like mode the policy is a single smooth scroll to the page
// midpoint followed by a randomized dwell, which also gives lazy-loaded
// content time to materialize.
func navigateAndSettle(ctx context.Context, s pageSession, url string, mode models.BrowsingMode, dwell func(context.Context) error) (html string, partial bool, err error) {
	if err := s.navigate(ctx, url); err != nil {
		if isDeadline(err) {
			return partialContent(s)
		}
		return "", false, err
	}

	if err := s.waitSettled(ctx); err != nil {
		if isDeadline(err) {
			return partialContent(s)
		}
		return "", false, err
	}

	if mode == models.BrowsingModeHumanLike {
		if err := s.eval(ctx, scrollToMiddleJS); err != nil {
			if isDeadline(err) {
				return partialContent(s)
			}
			return "", false, err
		}
		if err := dwell(ctx); err != nil {
			if isDeadline(err) {
				return partialContent(s)
			}
			return "", false, err
		}
	}

	html, err = s.content()
	if err != nil {
		return "", false, err
	}
	return html, false, nil
}

// partialContent captures whatever the DOM holds at deadline expiry.
func partialContent(s pageSession) (string, bool, error) {
	html, err := s.content()
	if err != nil {
		return "", false, err
	}
	return html, true, nil
}

func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// randomDwell sleeps for a random interval in [minDwell, maxDwell),
// honoring ctx cancellation.
func randomDwell(ctx context.Context) error {
	d := minDwell + time.Duration(rand.Int64N(int64(maxDwell-minDwell)))
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

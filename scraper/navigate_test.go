package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/umbralabs/umbra/models"
)

// stubSession scripts the navigation surface step by step.
type stubSession struct {
	navigateErr error
	settleErr   error
	evalErr     error
	html        string
	contentErr  error

	navigated []string
	evals     []string
	dwells    int
}

func (s *stubSession) navigate(ctx context.Context, url string) error {
	s.navigated = append(s.navigated, url)
	return s.navigateErr
}

func (s *stubSession) waitSettled(ctx context.Context) error { return s.settleErr }

func (s *stubSession) eval(ctx context.Context, js string, args ...any) error {
	s.evals = append(s.evals, js)
	return s.evalErr
}

func (s *stubSession) content() (string, error) { return s.html, s.contentErr }

func (s *stubSession) dwell(ctx context.Context) error {
	s.dwells++
	return nil
}

func TestNavigateAndSettleFastMode(t *testing.T) {
	s := &stubSession{html: "<html><body>ok</body></html>"}

	html, partial, err := navigateAndSettle(context.Background(), s, "https://example.com", models.BrowsingModeFast, s.dwell)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if partial {
		t.Error("full load reported as partial")
	}
	if html != s.html {
		t.Errorf("html = %q, want %q", html, s.html)
	}
	if len(s.evals) != 0 {
		t.Errorf("fast mode ran %d scripts, want 0", len(s.evals))
	}
	if s.dwells != 0 {
		t.Errorf("fast mode dwelled %d times, want 0", s.dwells)
	}
}

func TestNavigateAndSettleHumanLikeScrollsOnce(t *testing.T) {
	s := &stubSession{html: "<html></html>"}

	_, partial, err := navigateAndSettle(context.Background(), s, "https://example.com", models.BrowsingModeHumanLike, s.dwell)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if partial {
		t.Error("full load reported as partial")
	}
	if len(s.evals) != 1 || s.evals[0] != scrollToMiddleJS {
		t.Errorf("human-like mode ran scripts %v, want exactly one scroll", s.evals)
	}
	if s.dwells != 1 {
		t.Errorf("human-like mode dwelled %d times, want 1", s.dwells)
	}
}

func TestNavigateAndSettleDeadlineIsPartialSuccess(t *testing.T) {
	tests := []struct {
		name string
		stub *stubSession
	}{
		{"during navigate", &stubSession{navigateErr: context.DeadlineExceeded, html: "<p>half</p>"}},
		{"during settle", &stubSession{settleErr: context.DeadlineExceeded, html: "<p>half</p>"}},
		{"during scroll", &stubSession{evalErr: context.DeadlineExceeded, html: "<p>half</p>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, partial, err := navigateAndSettle(context.Background(), tt.stub, "https://example.com", models.BrowsingModeHumanLike, tt.stub.dwell)
			if err != nil {
				t.Fatalf("deadline treated as failure: %v", err)
			}
			if !partial {
				t.Error("deadline result not flagged partial")
			}
			if html != "<p>half</p>" {
				t.Errorf("html = %q, want salvaged content", html)
			}
		})
	}
}

func TestNavigateAndSettleWrappedDeadlineDetected(t *testing.T) {
	wrapped := errors.New("cdp call: " + context.DeadlineExceeded.Error())
	s := &stubSession{navigateErr: errors.Join(wrapped, context.DeadlineExceeded), html: "<p>half</p>"}

	_, partial, err := navigateAndSettle(context.Background(), s, "https://example.com", models.BrowsingModeFast, s.dwell)
	if err != nil {
		t.Fatalf("wrapped deadline treated as failure: %v", err)
	}
	if !partial {
		t.Error("wrapped deadline not flagged partial")
	}
}

func TestNavigateAndSettleFailurePropagates(t *testing.T) {
	cause := errors.New("net::ERR_NAME_NOT_RESOLVED")
	s := &stubSession{navigateErr: cause}

	_, _, err := navigateAndSettle(context.Background(), s, "https://bad.invalid", models.BrowsingModeFast, s.dwell)
	if !errors.Is(err, cause) {
		t.Fatalf("error = %v, want cause preserved", err)
	}
}

func TestWrapScrapeFailurePreservesScrapeError(t *testing.T) {
	se := models.NewScrapeError(models.ErrCodeSessionRestore, "restore failed", nil)
	if got := wrapScrapeFailure("https://example.com", se); got != se {
		t.Errorf("existing ScrapeError re-wrapped: %v", got)
	}

	plain := errors.New("boom")
	wrapped := wrapScrapeFailure("https://example.com", plain)
	var out *models.ScrapeError
	if !errors.As(wrapped, &out) {
		t.Fatalf("plain error not wrapped: %v", wrapped)
	}
	if out.Code != models.ErrCodeNavigation {
		t.Errorf("code = %q, want %q", out.Code, models.ErrCodeNavigation)
	}
	if !errors.Is(wrapped, plain) {
		t.Error("cause lost in wrapping")
	}
}

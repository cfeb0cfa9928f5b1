package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/go-rod/rod/lib/proto"

	"github.com/umbralabs/umbra/models"
)

func storageSession() *models.Session {
	return &models.Session{
		Site:         "example.com",
		BaseURL:      "https://example.com",
		LocalStorage: map[string]string{"token": "abc"},
	}
}

func TestRestoreRunsOnce(t *testing.T) {
	r := sessionRestorer{session: storageSession()}

	first := &stubSession{}
	if err := r.restore(context.Background(), first); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if len(first.navigated) != 1 || first.navigated[0] != "https://example.com" {
		t.Errorf("navigated %v, want session base URL", first.navigated)
	}
	if len(first.evals) != 1 {
		t.Errorf("ran %d injections, want 1", len(first.evals))
	}

	second := &stubSession{}
	if err := r.restore(context.Background(), second); err != nil {
		t.Fatalf("second restore errored: %v", err)
	}
	if len(second.navigated) != 0 || len(second.evals) != 0 {
		t.Error("restore ran a second time")
	}
}

func TestRestoreFailureStillConsumesSession(t *testing.T) {
	r := sessionRestorer{session: storageSession()}

	cause := errors.New("net::ERR_CONNECTION_REFUSED")
	failing := &stubSession{navigateErr: cause}
	err := r.restore(context.Background(), failing)
	if err == nil {
		t.Fatal("expected restore error")
	}
	var se *models.ScrapeError
	if !errors.As(err, &se) || se.Code != models.ErrCodeSessionRestore {
		t.Fatalf("error = %v, want SESSION_RESTORE_FAILED", err)
	}
	if !errors.Is(err, cause) {
		t.Error("cause lost in wrapping")
	}

	// No retry on later pages.
	retry := &stubSession{}
	if err := r.restore(context.Background(), retry); err != nil {
		t.Fatalf("post-failure restore errored: %v", err)
	}
	if len(retry.navigated) != 0 {
		t.Error("failed restore was retried")
	}
}

func TestRestoreSkipsCookieOnlySession(t *testing.T) {
	r := sessionRestorer{session: &models.Session{
		Site:    "example.com",
		Cookies: []models.Cookie{{Name: "sid", Value: "1", Domain: "example.com"}},
	}}

	s := &stubSession{}
	if err := r.restore(context.Background(), s); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if len(s.navigated) != 0 {
		t.Error("cookie-only session triggered a storage restore navigation")
	}
}

func TestRestoreInjectsBothStores(t *testing.T) {
	r := sessionRestorer{session: &models.Session{
		Site:           "example.com",
		BaseURL:        "https://example.com",
		LocalStorage:   map[string]string{"a": "1"},
		SessionStorage: map[string]string{"b": "2"},
	}}

	s := &stubSession{}
	if err := r.restore(context.Background(), s); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if len(s.evals) != 2 {
		t.Fatalf("ran %d injections, want 2", len(s.evals))
	}
	if s.evals[0] != localStorageJS || s.evals[1] != sessionStorageJS {
		t.Error("injection order: want localStorage then sessionStorage")
	}
}

func TestCookieParams(t *testing.T) {
	params := cookieParams([]models.Cookie{
		{Name: "sid", Value: "1", Domain: "example.com", SameSite: "Lax", Expires: 1700000000},
		{Name: "tmp", Value: "2", Domain: "example.com", Path: "/app", Secure: true, HTTPOnly: true},
	})

	if len(params) != 2 {
		t.Fatalf("got %d params, want 2", len(params))
	}

	first := params[0]
	if first.Path != "/" {
		t.Errorf("missing path defaulted to %q, want \"/\"", first.Path)
	}
	if first.SameSite != proto.NetworkCookieSameSiteLax {
		t.Errorf("SameSite = %q, want Lax", first.SameSite)
	}
	if first.Expires != proto.TimeSinceEpoch(1700000000) {
		t.Errorf("Expires = %v, want epoch passthrough", first.Expires)
	}

	second := params[1]
	if second.Path != "/app" {
		t.Errorf("explicit path overridden: %q", second.Path)
	}
	if !second.Secure || !second.HTTPOnly {
		t.Error("secure/httpOnly flags dropped")
	}
	if second.Expires != 0 {
		t.Errorf("zero expiry should stay a session cookie, got %v", second.Expires)
	}
	if second.SameSite != "" {
		t.Errorf("unset SameSite mapped to %q, want empty", second.SameSite)
	}
}

func TestCookieSameSiteMapping(t *testing.T) {
	tests := []struct {
		in   string
		want proto.NetworkCookieSameSite
	}{
		{"Strict", proto.NetworkCookieSameSiteStrict},
		{"lax", proto.NetworkCookieSameSiteLax},
		{"NONE", proto.NetworkCookieSameSiteNone},
		{"", ""},
		{"bogus", ""},
	}
	for _, tt := range tests {
		if got := cookieSameSite(tt.in); got != tt.want {
			t.Errorf("cookieSameSite(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

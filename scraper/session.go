package scraper

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-rod/rod/lib/proto"

	"github.com/umbralabs/umbra/models"
)

// Per-key failures are swallowed inside the page: one unstorable key must
// not abort the rest of the restore.
const (
	localStorageJS = `(items) => {
	for (const key in items) {
		try {
			localStorage.setItem(key, items[key]);
		} catch (e) {
			console.error('failed to set localStorage key', key, e);
		}
	}
}`
	sessionStorageJS = `(items) => {
	for (const key in items) {
		try {
			sessionStorage.setItem(key, items[key]);
		} catch (e) {
			console.error('failed to set sessionStorage key', key, e);
		}
	}
}`
)

// cookieParams converts captured cookies to CDP cookie parameters.
// Missing paths default to "/"; a zero expiry makes a session cookie.
func cookieParams(cookies []models.Cookie) []*proto.NetworkCookieParam {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		path := c.Path
		if path == "" {
			path = "/"
		}
		p := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: cookieSameSite(c.SameSite),
		}
		if c.Expires > 0 {
			p.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		params = append(params, p)
	}
	return params
}

func cookieSameSite(s string) proto.NetworkCookieSameSite {
	switch strings.ToLower(s) {
	case "strict":
		return proto.NetworkCookieSameSiteStrict
	case "lax":
		return proto.NetworkCookieSameSiteLax
	case "none":
		return proto.NetworkCookieSameSiteNone
	default:
		return ""
	}
}

// sessionRestorer injects a session's web storage into the context via its
// first page. Storage is origin-scoped and only settable from within that
// origin, so the page navigates to the session's base URL first. Once set,
// storage belongs to the context's shared profile partition, so the
// restore runs exactly once per engine regardless of how many pages are
// created afterwards.
type sessionRestorer struct {
	session *models.Session
	done    bool
}

func (r *sessionRestorer) restore(ctx context.Context, s pageSession) error {
	if r.done || r.session == nil || !r.session.HasStorage() {
		return nil
	}
	// The session is consumed either way; a failed restore is not retried
	// on later pages.
	r.done = true

	slog.Debug("restoring session storage", "site", r.session.Site, "baseURL", r.session.BaseURL)

	if err := s.navigate(ctx, r.session.BaseURL); err != nil {
		return models.NewScrapeError(
			models.ErrCodeSessionRestore,
			"failed to open session origin "+r.session.BaseURL,
			err,
		)
	}
	if err := s.waitSettled(ctx); err != nil {
		return models.NewScrapeError(
			models.ErrCodeSessionRestore,
			"session origin did not settle",
			err,
		)
	}

	if len(r.session.LocalStorage) > 0 {
		if err := s.eval(ctx, localStorageJS, r.session.LocalStorage); err != nil {
			return models.NewScrapeError(
				models.ErrCodeSessionRestore,
				"failed to inject localStorage",
				err,
			)
		}
	}
	if len(r.session.SessionStorage) > 0 {
		if err := s.eval(ctx, sessionStorageJS, r.session.SessionStorage); err != nil {
			return models.NewScrapeError(
				models.ErrCodeSessionRestore,
				"failed to inject sessionStorage",
				err,
			)
		}
	}
	return nil
}

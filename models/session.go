package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/umbralabs/umbra/fingerprint"
)

// Cookie is one cookie record from a captured session. Field names follow
// the browser export format so session files deserialise without mapping.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain,omitempty"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"` // unix seconds; 0 = session cookie
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"` // "Strict", "Lax" or "None"
}

// Session is a captured authenticated browser state: cookies, storage and
// the fingerprint active at capture time. It is read-only once supplied to
// an engine and its storage maps are consumed exactly once, when the first
// page is created.
type Session struct {
	Site           string               `json:"site"`
	BaseURL        string               `json:"base_url"`
	Cookies        []Cookie             `json:"cookies"`
	LocalStorage   map[string]string    `json:"localStorage,omitempty"`
	SessionStorage map[string]string    `json:"sessionStorage,omitempty"`
	Fingerprint    *fingerprint.Profile `json:"fingerprint,omitempty"`
}

// HasStorage reports whether the session carries any web storage to restore.
func (s *Session) HasStorage() bool {
	return len(s.LocalStorage) > 0 || len(s.SessionStorage) > 0
}

// Validate checks the session invariants. Storage injection requires an
// active origin, so a session carrying storage must have a navigable
// base URL.
func (s *Session) Validate() error {
	if s.HasStorage() {
		u, err := url.ParseRequestURI(s.BaseURL)
		if err != nil || u.Host == "" {
			return NewScrapeError(
				ErrCodeInvalidInput,
				fmt.Sprintf("session with storage requires a valid base_url, got %q", s.BaseURL),
				err,
			)
		}
	}
	return nil
}

// LoadSession reads a JSON session export from disk and validates it.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewScrapeError(ErrCodeInvalidInput, "failed to read session file", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, NewScrapeError(ErrCodeInvalidInput, "failed to parse session file", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

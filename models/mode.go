package models

import "fmt"

// BrowsingMode selects the navigation behavior of an engine.
type BrowsingMode string

const (
	// BrowsingModeFast navigates and captures content with no extra
	// interaction. Used by default when traffic rides a paid proxy.
	BrowsingModeFast BrowsingMode = "fast"

	// BrowsingModeHumanLike adds a scroll and a randomized dwell after
	// page load to mimic manual browsing cadence.
	BrowsingModeHumanLike BrowsingMode = "human_like"
)

// ParseBrowsingMode converts a config string to a BrowsingMode. The empty
// string is valid and means "resolve automatically".
func ParseBrowsingMode(s string) (BrowsingMode, error) {
	switch BrowsingMode(s) {
	case "", BrowsingModeFast, BrowsingModeHumanLike:
		return BrowsingMode(s), nil
	default:
		return "", NewScrapeError(
			ErrCodeInvalidInput,
			fmt.Sprintf("unknown browsing mode %q (want %q or %q)", s, BrowsingModeFast, BrowsingModeHumanLike),
			nil,
		)
	}
}

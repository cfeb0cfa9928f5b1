package scraper

import "github.com/umbralabs/umbra/models"

// ResolveMode picks the browsing behavior for an engine. Priority, first
// match wins:
//
//  1. An explicit mode from configuration.
//  2. Fast when a proxy is configured: proxy bandwidth is usually paid
//     and rate-limited, so dwell time is minimized.
//  3. Human-like when session data is configured: authenticated sites
//     are the most bot-sensitive.
//  4. Human-like otherwise.
//
// Pure function of its three inputs, called once at engine construction.
func ResolveMode(explicit models.BrowsingMode, hasProxy, hasSession bool) models.BrowsingMode {
	switch {
	case explicit != "":
		return explicit
	case hasProxy:
		return models.BrowsingModeFast
	case hasSession:
		return models.BrowsingModeHumanLike
	default:
		return models.BrowsingModeHumanLike
	}
}

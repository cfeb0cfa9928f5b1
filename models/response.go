package models

// ScrapeResponse is the response for POST /api/v1/scrape.
type ScrapeResponse struct {
	// Success indicates whether the scrape completed without errors.
	// A timed-out navigation is still a success; see Partial.
	Success bool `json:"success"`

	// Partial is true when the navigation deadline expired and the
	// content was captured before the page finished loading.
	Partial bool `json:"partial,omitempty"`

	// URL is the requested URL, also used as the base for link resolution.
	URL string `json:"url,omitempty"`

	// Content is the page content in the requested format.
	Content string `json:"content,omitempty"`

	// Links are the page's hyperlinks: absolute, fragment-stripped,
	// de-duplicated, in first-seen order.
	Links []string `json:"links,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down where a request spent its time.
type TimingInfo struct {
	TotalMs      int64 `json:"total_ms"`
	NavigationMs int64 `json:"navigation_ms,omitempty"`
	ParseMs      int64 `json:"parse_ms,omitempty"`
}

// EngineStats is a snapshot of an engine's state.
type EngineStats struct {
	Mode             BrowsingMode `json:"mode"`
	Pages            int          `json:"pages"`
	NewPagePerScrape bool         `json:"new_page_per_scrape"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string      `json:"status"`
	Uptime  string      `json:"uptime"`
	Engine  EngineStats `json:"engine"`
	Version string      `json:"version"`
}

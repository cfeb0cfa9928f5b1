package models

// ScrapeRequest is the payload for POST /api/v1/scrape.
type ScrapeRequest struct {
	// URL is the target page to scrape. Required.
	URL string `json:"url" binding:"required,url"`

	// Timeout is the maximum duration in seconds for the navigation.
	// Exceeding it does not fail the request: whatever content has
	// rendered by then is returned with the partial flag set.
	// Default: 30. Max: 300.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=300"`

	// Format controls the content field of the response.
	// Allowed: "text" (default), "markdown", "html", "links".
	Format string `json:"format,omitempty" binding:"omitempty,oneof=text markdown html links"`
}

// Defaults applies default values to unset fields.
func (r *ScrapeRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 30
	}
	if r.Format == "" {
		r.Format = "text"
	}
}

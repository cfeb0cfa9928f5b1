// Package fingerprint describes the device/browser identity an engine
// presents to target sites: user agent, locale, hardware, screen geometry
// and GPU strings. A Profile is immutable once handed to the engine and is
// the single source for both context emulation and anti-detection overrides.
package fingerprint

// Fallback values applied by Resolved. A captured session may carry a
// partial profile; every field must still resolve to something a real
// browser would report.
const (
	DefaultUserAgent     = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
	DefaultLanguage      = "en-US"
	DefaultTimezone      = "Asia/Calcutta"
	DefaultConcurrency   = 8
	DefaultDeviceMemory  = 8
	DefaultPlatform      = "Linux x86_64"
	DefaultScreenWidth   = 1920
	DefaultScreenHeight  = 1080
	DefaultColorDepth    = 24
	DefaultWebGLVendor   = "Google Inc. (Intel)"
	DefaultWebGLRenderer = "ANGLE (Intel)"
)

// ScreenResolution is the emulated display geometry.
type ScreenResolution struct {
	Width      int `json:"width,omitempty"`
	Height     int `json:"height,omitempty"`
	ColorDepth int `json:"colorDepth,omitempty"`
}

// Profile is a device/browser identity. The JSON tags match the session
// export format produced by browser capture tooling, so a profile embedded
// in a session file deserialises directly.
type Profile struct {
	UserAgent           string           `json:"userAgent,omitempty"`
	Language            string           `json:"language,omitempty"`
	Languages           []string         `json:"languages,omitempty"`
	Timezone            string           `json:"timezone,omitempty"`
	HardwareConcurrency int              `json:"hardwareConcurrency,omitempty"`
	DeviceMemory        int              `json:"deviceMemory,omitempty"`
	Platform            string           `json:"platform,omitempty"`
	Screen              ScreenResolution `json:"screenResolution,omitempty"`
	WebGLVendor         string           `json:"webglVendor,omitempty"`
	WebGLRenderer       string           `json:"webglRenderer,omitempty"`
}

// Default returns the process-wide default identity. It is a plain value,
// not shared state: callers receive an independent copy each time.
func Default() Profile {
	return Profile{
		UserAgent:           DefaultUserAgent,
		Language:            DefaultLanguage,
		Languages:           []string{DefaultLanguage},
		Timezone:            DefaultTimezone,
		HardwareConcurrency: DefaultConcurrency,
		DeviceMemory:        DefaultDeviceMemory,
		Platform:            DefaultPlatform,
		Screen: ScreenResolution{
			Width:      DefaultScreenWidth,
			Height:     DefaultScreenHeight,
			ColorDepth: DefaultColorDepth,
		},
		WebGLVendor:   DefaultWebGLVendor,
		WebGLRenderer: DefaultWebGLRenderer,
	}
}

// Resolved returns a copy of p with every unset field replaced by its
// fallback. The result never has a zero field, so downstream consumers
// (context emulation, stealth overrides) can read it without nil checks.
func (p Profile) Resolved() Profile {
	if p.UserAgent == "" {
		p.UserAgent = DefaultUserAgent
	}
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	if len(p.Languages) == 0 {
		p.Languages = []string{p.Language}
	}
	if p.Timezone == "" {
		p.Timezone = DefaultTimezone
	}
	if p.HardwareConcurrency < 1 {
		p.HardwareConcurrency = DefaultConcurrency
	}
	if p.DeviceMemory < 1 {
		p.DeviceMemory = DefaultDeviceMemory
	}
	if p.Platform == "" {
		p.Platform = DefaultPlatform
	}
	if p.Screen.Width <= 0 {
		p.Screen.Width = DefaultScreenWidth
	}
	if p.Screen.Height <= 0 {
		p.Screen.Height = DefaultScreenHeight
	}
	if p.Screen.ColorDepth <= 0 {
		p.Screen.ColorDepth = DefaultColorDepth
	}
	if p.WebGLVendor == "" {
		p.WebGLVendor = DefaultWebGLVendor
	}
	if p.WebGLRenderer == "" {
		p.WebGLRenderer = DefaultWebGLRenderer
	}
	return p
}

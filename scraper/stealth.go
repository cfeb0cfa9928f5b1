package scraper

import (
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/umbralabs/umbra/fingerprint"
)

// Override is one anti-detection patch targeting a single JS-observable
// signal. Template is a fixed script with fmt verbs for the JSON-encoded
// substitution values produced by Args; entries without Args are installed
// verbatim. Keeping the set as data makes it enumerable and testable
// instead of one interpolated script blob.
type Override struct {
	Signal   string
	Template string
	Args     func(p fingerprint.Profile) []any
}

// Render produces the executable script for this override. Substitution
// values are JSON-encoded, so strings arrive in the page quoted and
// escaped.
func (o Override) Render(p fingerprint.Profile) string {
	if o.Args == nil {
		return o.Template
	}
	raw := o.Args(p)
	encoded := make([]any, len(raw))
	for i, v := range raw {
		encoded[i] = gson.New(v).JSON("", "")
	}
	return fmt.Sprintf(o.Template, encoded...)
}

// Overrides returns the full override set. Each entry targets one
// documented fingerprinting signal used by anti-bot systems; the set is
// fixed and parameterized by the profile, not randomized per call.
func Overrides() []Override {
	return []Override{
		{
			// The automation flag is the first thing every detector reads.
			Signal: "webdriver",
			Template: `Object.defineProperty(navigator, 'webdriver', {
    get: () => undefined
});`,
		},
		{
			Signal:   "chrome-runtime",
			Template: `window.chrome = { runtime: {} };`,
		},
		{
			// Querying the notifications permission is a known probe:
			// headless Chrome answers it inconsistently with the
			// Notification global. All other permission names go to the
			// real query function.
			Signal: "permissions-query",
			Template: `const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) => (
    parameters.name === 'notifications' ?
        Promise.resolve({ state: Notification.permission }) :
        originalQuery(parameters)
);`,
		},
		{
			// An empty plugin list is a classic "headless" heuristic.
			Signal: "plugins",
			Template: `Object.defineProperty(navigator, 'plugins', {
    get: () => [
        {
            0: {type: "application/x-google-chrome-pdf", suffixes: "pdf"},
            description: "Portable Document Format",
            filename: "internal-pdf-viewer",
            length: 1,
            name: "Chrome PDF Plugin"
        },
        {
            0: {type: "application/pdf", suffixes: "pdf"},
            description: "Portable Document Format",
            filename: "mhjfbmdgcfjbbpaeojofohoefgiehjai",
            length: 1,
            name: "Chrome PDF Viewer"
        }
    ]
});`,
		},
		{
			Signal:   "languages",
			Template: `Object.defineProperty(navigator, 'languages', { get: () => %s });`,
			Args: func(p fingerprint.Profile) []any {
				return []any{p.Languages}
			},
		},
		{
			Signal:   "hardware-concurrency",
			Template: `Object.defineProperty(navigator, 'hardwareConcurrency', { get: () => %s });`,
			Args: func(p fingerprint.Profile) []any {
				return []any{p.HardwareConcurrency}
			},
		},
		{
			Signal:   "device-memory",
			Template: `Object.defineProperty(navigator, 'deviceMemory', { get: () => %s });`,
			Args: func(p fingerprint.Profile) []any {
				return []any{p.DeviceMemory}
			},
		},
		{
			Signal:   "platform",
			Template: `Object.defineProperty(navigator, 'platform', { get: () => %s });`,
			Args: func(p fingerprint.Profile) []any {
				return []any{p.Platform}
			},
		},
		{
			Signal: "screen-depth",
			Template: `Object.defineProperty(screen, 'colorDepth', { get: () => %[1]s });
Object.defineProperty(screen, 'pixelDepth', { get: () => %[1]s });`,
			Args: func(p fingerprint.Profile) []any {
				return []any{p.Screen.ColorDepth}
			},
		},
		{
			// Parameter codes 37445/37446 are UNMASKED_VENDOR_WEBGL and
			// UNMASKED_RENDERER_WEBGL; every other parameter falls through
			// to the real call.
			Signal: "webgl-vendor",
			Template: `const getParameter = WebGLRenderingContext.prototype.getParameter;
WebGLRenderingContext.prototype.getParameter = function(parameter) {
    if (parameter === 37445) {
        return %[1]s;
    }
    if (parameter === 37446) {
        return %[2]s;
    }
    return getParameter.call(this, parameter);
};`,
			Args: func(p fingerprint.Profile) []any {
				return []any{p.WebGLVendor, p.WebGLRenderer}
			},
		},
	}
}

// StealthScript renders the whole override set for a profile.
func StealthScript(p fingerprint.Profile) string {
	p = p.Resolved()
	parts := make([]string, 0, len(Overrides())+1)
	for _, o := range Overrides() {
		parts = append(parts, o.Render(p))
	}
	return strings.Join(parts, "\n\n")
}

// installStealth installs the evasion scripts on a page before any of the
// target's own scripts run: the community stealth bundle first, then the
// profile-parameterized overrides on top. Installing twice on the same
// page is harmless, just wasted evaluation.
func (e *Engine) installStealth(page *rod.Page) error {
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		return fmt.Errorf("base stealth injection failed: %w", err)
	}
	if _, err := page.EvalOnNewDocument(StealthScript(e.profile)); err != nil {
		return fmt.Errorf("fingerprint override injection failed: %w", err)
	}
	return nil
}

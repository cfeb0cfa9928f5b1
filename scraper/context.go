package scraper

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/umbralabs/umbra/fingerprint"
)

// Fixed geolocation reported to pages. The exact spot does not matter;
// what matters is that every page in a context reports the same one.
const (
	geoLatitude  = 60.0
	geoLongitude = 90.0
	geoAccuracy  = 100.0
)

// buildLauncher assembles the Chromium launch configuration: headless
// mode, the anti-automation flag set, the proxy binding, and any
// caller-supplied extra flags. Caller flags are copied, never aliased.
func buildLauncher(cfg Config) *launcher.Launcher {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != nil {
		// Server and credentials pass through unmodified; reachability
		// is not validated here.
		l = l.Proxy(cfg.Proxy.Server)
		if cfg.Proxy.Bypass != "" {
			l.Set(flags.Flag("proxy-bypass-list"), cfg.Proxy.Bypass)
		}
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-prompt-on-repost"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	for name, value := range cfg.LaunchFlags {
		l.Set(flags.Flag(name), value)
	}
	return l
}

// baselineHeaders is the fixed header set attached to every page, with
// Accept-Language derived from the profile language.
func baselineHeaders(p fingerprint.Profile) map[string]string {
	return map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language":           fmt.Sprintf("%s,en;q=0.9", p.Language),
		"Accept-Encoding":           "gzip, deflate, br",
		"DNT":                       "1",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	}
}

// envCommand is one CDP override applied to a fresh page.
type envCommand interface {
	proto.Request
	Call(c proto.Client) error
}

// environmentOverrides is the ordered CDP command sequence pinning the
// emulated device to the profile: device metrics, touch, timezone,
// locale, geolocation, user agent, baseline headers, color scheme. All
// of it must land before the page's first navigation.
func environmentOverrides(p fingerprint.Profile) []envCommand {
	width, height := p.Screen.Width, p.Screen.Height
	return []envCommand{
		// Viewport and the JS-visible screen geometry both come from the
		// profile. An unset screen would expose the real display right
		// next to a spoofed colorDepth.
		proto.EmulationSetDeviceMetricsOverride{
			Width:             width,
			Height:            height,
			ScreenWidth:       &width,
			ScreenHeight:      &height,
			DeviceScaleFactor: 1,
			Mobile:            false,
		},
		proto.EmulationSetTouchEmulationEnabled{Enabled: false},
		proto.EmulationSetTimezoneOverride{TimezoneID: p.Timezone},
		// Covers navigator.language and the Intl default locale; the
		// languages array is handled by the injected overrides.
		proto.EmulationSetLocaleOverride{Locale: p.Language},
		proto.EmulationSetGeolocationOverride{
			Latitude:  gson.Num(geoLatitude),
			Longitude: gson.Num(geoLongitude),
			Accuracy:  gson.Num(geoAccuracy),
		},
		proto.NetworkSetUserAgentOverride{
			UserAgent:      p.UserAgent,
			AcceptLanguage: p.Language,
			Platform:       p.Platform,
		},
		proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(baselineHeaders(p)),
		},
		proto.EmulationSetEmulatedMedia{
			Features: []*proto.EmulationMediaFeature{
				{Name: "prefers-color-scheme", Value: "light"},
			},
		},
	}
}

// prepareEnvironment applies the emulated device to a freshly created
// page. Must run before the page's first navigation.
func (e *Engine) prepareEnvironment(page *rod.Page) error {
	for _, cmd := range environmentOverrides(e.profile) {
		if err := cmd.Call(page); err != nil {
			return fmt.Errorf("%s failed: %w", cmd.ProtoReq(), err)
		}
	}
	return nil
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

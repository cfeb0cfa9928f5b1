package models

import (
	"fmt"
	"strings"
)

// Proxy is a proxy configuration for routing browser traffic.
//
// Server accepts "scheme://host:port" with scheme http or socks5, or the
// short form "host:port" which is treated as HTTP. Bypass is a
// comma-separated list of domains that skip the proxy; a leading dot
// matches subdomains (".example.com,localhost").
type Proxy struct {
	Server   string `json:"server"`
	Bypass   string `json:"bypass,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

var proxySchemes = map[string]struct{}{
	"http":   {},
	"https":  {},
	"socks5": {},
}

// Validate checks that the proxy server is present and uses a supported
// scheme. Reachability is not checked; that is the browser's problem.
func (p *Proxy) Validate() error {
	if p.Server == "" {
		return NewScrapeError(ErrCodeInvalidInput, "proxy server must not be empty", nil)
	}
	if scheme, _, found := strings.Cut(p.Server, "://"); found {
		if _, ok := proxySchemes[scheme]; !ok {
			return NewScrapeError(
				ErrCodeInvalidInput,
				fmt.Sprintf("unsupported proxy scheme %q", scheme),
				nil,
			)
		}
	}
	return nil
}

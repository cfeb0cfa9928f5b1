package proxy

import (
	"fmt"
	"strings"

	"github.com/umbralabs/umbra/models"
)

// Bright Data super-proxy defaults.
const (
	brightDataHost = "brd.superproxy.io"
	brightDataPort = 33335
)

// BrightData builds proxy credentials for the Bright Data residential
// proxy network. The zone, country and session are encoded into the
// username per their credential scheme:
//
//	brd-customer-<id>-zone-<zone>[-country-<cc>][-session-<sid>]
//
// A fixed SessionID pins all requests to one exit IP, which keeps the
// apparent client identity stable across scrapes of the same site.
type BrightData struct {
	CustomerID string
	Zone       string
	Password   string

	// Country is an optional two-letter country code for geo targeting.
	Country string

	// SessionID optionally pins a sticky exit IP.
	SessionID string

	// Host and Port override the super-proxy endpoint when set.
	Host string
	Port int
}

// Proxy formats the credentials into a proxy configuration.
func (b BrightData) Proxy() *models.Proxy {
	host := b.Host
	if host == "" {
		host = brightDataHost
	}
	port := b.Port
	if port == 0 {
		port = brightDataPort
	}

	user := fmt.Sprintf("brd-customer-%s-zone-%s", b.CustomerID, b.Zone)
	if b.Country != "" {
		user += "-country-" + strings.ToLower(b.Country)
	}
	if b.SessionID != "" {
		user += "-session-" + b.SessionID
	}

	return &models.Proxy{
		Server:   fmt.Sprintf("http://%s:%d", host, port),
		Username: user,
		Password: b.Password,
	}
}

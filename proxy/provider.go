// Package proxy formats provider-specific credentials into a proxy
// configuration the engine can consume.
package proxy

import "github.com/umbralabs/umbra/models"

// Provider produces a ready-to-use proxy configuration.
type Provider interface {
	Proxy() *models.Proxy
}

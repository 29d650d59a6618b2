// Package static provides a discovery backend fed from configuration.
package static

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/kbukum/locus/discovery"
	"github.com/kbukum/locus/logger"
)

func init() {
	discovery.RegisterProviderFactory(discovery.ProviderStatic, func(cfg discovery.Config, _ any, _ *logger.Logger) (discovery.Discovery, error) {
		return NewProvider(cfg.StaticEndpoints), nil
	})
}

// Provider serves addresses from an in-memory (namespace, service) table.
// Useful for local development and testing.
type Provider struct {
	mu        sync.RWMutex
	endpoints map[string][]string
}

var _ discovery.Discovery = (*Provider)(nil)

// NewProvider creates a Provider pre-populated from static config.
// Endpoints sharing a namespace and service are merged.
func NewProvider(endpoints []discovery.StaticEndpoint) *Provider {
	p := &Provider{endpoints: make(map[string][]string)}
	for _, ep := range endpoints {
		p.Set(ep.Namespace, ep.Service, append(p.endpoints[key(ep.Namespace, ep.Service)], ep.URLs...))
	}
	return p
}

// Set replaces the addresses of a service.
func (p *Provider) Set(namespace, service string, urls []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endpoints[key(namespace, service)] = slices.Clone(urls)
}

// Remove drops a service.
func (p *Provider) Remove(namespace, service string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.endpoints, key(namespace, service))
}

// LookupHealthyAddresses returns a copy of the configured addresses. Every
// configured address is treated as healthy.
func (p *Provider) LookupHealthyAddresses(_ context.Context, namespace, service string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.endpoints[key(namespace, service)]), nil
}

// Close is a no-op.
func (p *Provider) Close() error { return nil }

func key(namespace, service string) string {
	return strings.Join([]string{namespace, service}, "/")
}

package discovery

import (
	"context"

	"github.com/kbukum/locus/resolver"
)

// Provider names accepted in Config.Provider.
const (
	ProviderStatic   = "static"
	ProviderConsul   = "consul"
	ProviderCloudMap = "cloudmap"
)

// Discovery looks up the healthy instances of a service.
type Discovery interface {
	// LookupHealthyAddresses returns one URL per healthy instance of
	// service within namespace. An unknown namespace or service is an
	// empty result, not an error.
	LookupHealthyAddresses(ctx context.Context, namespace, service string) ([]string, error)

	// Close releases any resources held by the provider.
	Close() error
}

// Pinger is implemented by providers that can check backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

var _ resolver.DiscoveryClient = Discovery(nil)

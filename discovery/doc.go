// Package discovery looks up the healthy instances of a service.
//
// Discovery is the provider contract consumed by the resolver. Backends
// register themselves by name from their package init:
//
//   - discovery/static: addresses from configuration
//   - discovery/consul: HashiCorp Consul health API
//   - discovery/cloudmap: AWS Cloud Map DiscoverInstances
//
// Import the providers you need for their side effects and start a
// Component:
//
//	import _ "github.com/kbukum/locus/discovery/cloudmap"
//
//	comp := discovery.NewComponent(cfg.Discovery, &cfg.CloudMap, log)
//	registry.Register(comp)
//
// When discovery.resilience.enabled is set, the provider is wrapped with
// NewResilient so lookups are retried with backoff behind a circuit breaker.
package discovery

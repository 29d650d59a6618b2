package discovery

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/locus/component"
	"github.com/kbukum/locus/errors"
	"github.com/kbukum/locus/logger"
	"github.com/kbukum/locus/resilience"
)

// ProviderFactory builds a Discovery from cfg. providerCfg holds
// provider-specific configuration (for example *consul.Config); providers
// type-assert it to their own config type and accept nil.
type ProviderFactory func(cfg Config, providerCfg any, log *logger.Logger) (Discovery, error)

var (
	factoriesMu       sync.RWMutex
	providerFactories = make(map[string]ProviderFactory)
)

// RegisterProviderFactory registers a backend factory under name. Provider
// packages call it from init.
func RegisterProviderFactory(name string, f ProviderFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	providerFactories[name] = f
}

func lookupFactory(name string) (ProviderFactory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	f, ok := providerFactories[name]
	return f, ok
}

// Component builds the configured provider on Start and implements
// component.Component.
type Component struct {
	mu          sync.RWMutex
	discovery   Discovery
	resilient   *Resilient
	cfg         Config
	providerCfg any
	log         *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
	_ Discovery             = (*Component)(nil)
)

// NewComponent creates a discovery Component for use with the component registry.
func NewComponent(cfg Config, providerCfg any, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg:         cfg,
		providerCfg: providerCfg,
		log:         log.WithComponent("discovery"),
	}
}

func (c *Component) Name() string { return "discovery" }

// Discovery returns the started provider, decorated with resilience when
// enabled. It is nil before Start.
func (c *Component) Discovery() Discovery {
	d, _ := c.started()
	return d
}

func (c *Component) started() (Discovery, *Resilient) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.discovery, c.resilient
}

// LookupHealthyAddresses forwards to the started provider. It is safe to
// call while the component starts or stops.
func (c *Component) LookupHealthyAddresses(ctx context.Context, namespace, service string) ([]string, error) {
	d, _ := c.started()
	if d == nil {
		return nil, errors.DiscoveryUnavailable(namespace, service, fmt.Errorf("discovery component not started"))
	}
	return d.LookupHealthyAddresses(ctx, namespace, service)
}

// Close releases the provider. The registry calls Stop instead.
func (c *Component) Close() error {
	return c.Stop(context.Background())
}

// Start builds the provider.
func (c *Component) Start(_ context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("discovery config: %w", err)
	}

	f, ok := lookupFactory(c.cfg.Provider)
	if !ok {
		return fmt.Errorf("unsupported discovery provider %q (not registered)", c.cfg.Provider)
	}

	disc, err := f(c.cfg, c.providerCfg, c.log)
	if err != nil {
		return fmt.Errorf("discovery start: %w", err)
	}

	var resilient *Resilient
	if c.cfg.Resilience.Enabled {
		resilient = NewResilient(c.cfg.Provider, disc, c.cfg.Resilience, c.log)
		disc = resilient
	}

	c.mu.Lock()
	c.discovery, c.resilient = disc, resilient
	c.mu.Unlock()

	c.log.Info("discovery component started", logger.Fields(
		"provider", c.cfg.Provider,
		"resilience", c.cfg.Resilience.Enabled,
	))
	return nil
}

// Stop closes the provider.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	d := c.discovery
	c.discovery, c.resilient = nil, nil
	c.mu.Unlock()

	if d == nil {
		return nil
	}
	c.log.Info("discovery component stopping")
	return d.Close()
}

// Health pings the backend when the provider supports it. An open circuit
// breaker reports degraded.
func (c *Component) Health(ctx context.Context) component.Health {
	d, resilient := c.started()
	if d == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "discovery not initialized",
		}
	}

	if p, ok := d.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return component.Health{
				Name:    c.Name(),
				Status:  component.StatusUnhealthy,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
		}
	}

	if resilient != nil && resilient.BreakerState() != resilience.StateClosed {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusDegraded,
			Message: "circuit breaker " + resilient.BreakerState().String(),
		}
	}

	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Discovery",
		Type:    "discovery",
		Details: fmt.Sprintf("provider=%s resilience=%t", c.cfg.Provider, c.cfg.Resilience.Enabled),
	}
}

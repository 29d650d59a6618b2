package discovery

import (
	"fmt"

	"github.com/kbukum/locus/resilience"
)

// Config selects and configures the discovery backend. Provider-specific
// settings (consul.Config, cloudmap.Config) are passed to NewComponent
// separately.
type Config struct {
	// Provider selects the backend: "static", "consul" or "cloudmap".
	Provider string `yaml:"provider" mapstructure:"provider"`

	// StaticEndpoints feeds the static provider.
	StaticEndpoints []StaticEndpoint `yaml:"static_endpoints" mapstructure:"static_endpoints"`

	// Resilience wraps the provider with retries and a circuit breaker
	// when enabled.
	Resilience resilience.Config `yaml:"resilience" mapstructure:"resilience"`
}

// StaticEndpoint lists the URLs of one service for the static provider.
type StaticEndpoint struct {
	Namespace string   `yaml:"namespace" mapstructure:"namespace"`
	Service   string   `yaml:"service" mapstructure:"service"`
	URLs      []string `yaml:"urls" mapstructure:"urls"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderStatic
	}
	if c.Resilience.Enabled {
		c.Resilience.ApplyDefaults()
	}
}

// Validate checks the provider name and static endpoints.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderStatic, ProviderConsul, ProviderCloudMap:
	default:
		return fmt.Errorf("unsupported discovery provider %q", c.Provider)
	}
	for i, ep := range c.StaticEndpoints {
		if ep.Service == "" {
			return fmt.Errorf("static_endpoints[%d]: service is required", i)
		}
	}
	if c.Resilience.Enabled {
		if err := c.Resilience.Validate(); err != nil {
			return err
		}
	}
	return nil
}

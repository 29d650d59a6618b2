package main

import (
	"fmt"

	"github.com/kbukum/locus/client"
	"github.com/kbukum/locus/config"
	"github.com/kbukum/locus/discovery"
	"github.com/kbukum/locus/discovery/cloudmap"
	"github.com/kbukum/locus/discovery/consul"
	"github.com/kbukum/locus/observability"
	"github.com/kbukum/locus/redis"
	"github.com/kbukum/locus/resolver"
	"github.com/kbukum/locus/server"
	"github.com/kbukum/locus/version"
)

const (
	CacheProviderRedis  = "redis"
	CacheProviderMemory = "memory"
)

// AppConfig is the full configuration of the locus binary.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Resolver      ResolverConfig       `yaml:"resolver" mapstructure:"resolver"`
	Cache         CacheConfig          `yaml:"cache" mapstructure:"cache"`
	Discovery     DiscoveryConfig      `yaml:"discovery" mapstructure:"discovery"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	// Client points the CLI at a remote locus server instead of resolving
	// in-process. It is used when base_url (or --server) is set.
	Client client.Config `yaml:"client" mapstructure:"client"`
}

// Remote reports whether commands go through a locus server.
func (c *AppConfig) Remote() bool {
	return c.Client.BaseURL != ""
}

// ResolverConfig holds the static overrides and the cache key prefix.
// Overrides are a list so service names keep their case.
//
//	resolver:
//	  static:
//	    - service: back
//	      url: "http://localhost:8081"
type ResolverConfig struct {
	KeyPrefix string           `yaml:"key_prefix" mapstructure:"key_prefix"`
	Static    []StaticOverride `yaml:"static" mapstructure:"static"`
}

type StaticOverride struct {
	Service string `yaml:"service" mapstructure:"service"`
	URL     string `yaml:"url" mapstructure:"url"`
}

func (c *ResolverConfig) Validate() error {
	seen := make(map[string]bool, len(c.Static))
	for i, o := range c.Static {
		if o.Service == "" {
			return fmt.Errorf("resolver.static[%d]: service is required", i)
		}
		if seen[o.Service] {
			return fmt.Errorf("resolver.static[%d]: duplicate service %s", i, o.Service)
		}
		seen[o.Service] = true
	}
	return nil
}

// StaticURLs flattens the overrides to service -> URL.
func (c *ResolverConfig) StaticURLs() map[string]string {
	out := make(map[string]string, len(c.Static))
	for _, o := range c.Static {
		out[o.Service] = o.URL
	}
	return out
}

// CacheConfig selects the cache store.
type CacheConfig struct {
	Provider string       `yaml:"provider" mapstructure:"provider"`
	Redis    redis.Config `yaml:"redis" mapstructure:"redis"`
}

// DiscoveryConfig is discovery.Config plus the settings of every provider.
// Only the selected provider's section is used.
type DiscoveryConfig struct {
	discovery.Config `yaml:",inline" mapstructure:",squash"`

	Consul   consul.Config   `yaml:"consul" mapstructure:"consul"`
	CloudMap cloudmap.Config `yaml:"cloudmap" mapstructure:"cloudmap"`
}

// ProviderConfig returns the provider-specific config handed to the
// discovery factory.
func (c *DiscoveryConfig) ProviderConfig() any {
	switch c.Provider {
	case discovery.ProviderConsul:
		return &c.Consul
	case discovery.ProviderCloudMap:
		return &c.CloudMap
	}
	return nil
}

func (c *AppConfig) ApplyDefaults() {
	if c.Version == "" {
		c.Version = version.Get().Version
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Resolver.KeyPrefix == "" {
		c.Resolver.KeyPrefix = resolver.DefaultKeyPrefix
	}
	if c.Cache.Provider == "" {
		c.Cache.Provider = CacheProviderRedis
	}
	c.Cache.Redis.ApplyDefaults()

	c.Discovery.Config.ApplyDefaults()
	c.Discovery.Consul.ApplyDefaults()
	c.Discovery.CloudMap.ApplyDefaults()

	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Client.ApplyDefaults()
}

func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Resolver.Validate(); err != nil {
		return err
	}

	switch c.Cache.Provider {
	case CacheProviderRedis:
		if err := c.Cache.Redis.Validate(); err != nil {
			return fmt.Errorf("cache.redis: %w", err)
		}
	case CacheProviderMemory:
	default:
		return fmt.Errorf("cache.provider must be %s or %s (got: %s)", CacheProviderRedis, CacheProviderMemory, c.Cache.Provider)
	}

	if err := c.Discovery.Config.Validate(); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	switch c.Discovery.Provider {
	case discovery.ProviderConsul:
		if err := c.Discovery.Consul.Validate(); err != nil {
			return fmt.Errorf("discovery.consul: %w", err)
		}
	case discovery.ProviderCloudMap:
		if err := c.Discovery.CloudMap.Validate(); err != nil {
			return fmt.Errorf("discovery.cloudmap: %w", err)
		}
	}

	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if c.Remote() {
		if err := c.Client.Validate(); err != nil {
			return err
		}
	}
	return nil
}

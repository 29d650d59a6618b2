package consul

import (
	"fmt"
	"time"
)

// How a locus namespace maps onto a Consul query.
const (
	// NamespaceModeIgnore drops the namespace.
	NamespaceModeIgnore = "ignore"
	// NamespaceModeNamespace queries the Consul Enterprise namespace of
	// the same name.
	NamespaceModeNamespace = "namespace"
	// NamespaceModeTag requires instances to carry the namespace as a tag.
	NamespaceModeTag = "tag"
)

// Config holds Consul connection and lookup settings.
type Config struct {
	// Address is the Consul agent address (default: localhost:8500).
	Address string `yaml:"address" mapstructure:"address"`

	// Scheme is the URI scheme used to reach the agent (http/https).
	Scheme string `yaml:"scheme" mapstructure:"scheme"`

	Datacenter string `yaml:"datacenter" mapstructure:"datacenter"`

	// Token is the ACL token for authentication.
	Token string `yaml:"token" mapstructure:"token"`

	// NamespaceMode is one of "ignore" (default), "namespace" or "tag".
	NamespaceMode string `yaml:"namespace_mode" mapstructure:"namespace_mode"`

	// ServiceScheme prefixes instance URLs unless the instance carries a
	// "scheme" meta entry.
	ServiceScheme string `yaml:"service_scheme" mapstructure:"service_scheme"`

	// WaitTime bounds each query on the agent side.
	WaitTime time.Duration `yaml:"wait_time" mapstructure:"wait_time"`

	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// TLSConfig holds TLS configuration for the agent connection.
type TLSConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	CACert     string `yaml:"ca_cert" mapstructure:"ca_cert"`
	CAPath     string `yaml:"ca_path" mapstructure:"ca_path"`
	ClientCert string `yaml:"client_cert" mapstructure:"client_cert"`
	ClientKey  string `yaml:"client_key" mapstructure:"client_key"`

	// InsecureSkipVerify skips TLS verification (not recommended for production).
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`

	ServerName string `yaml:"server_name" mapstructure:"server_name"`
}

// ApplyDefaults sets defaults for Config.
func (c *Config) ApplyDefaults() {
	if c.Address == "" {
		c.Address = "localhost:8500"
	}
	if c.Scheme == "" {
		c.Scheme = "http"
	}
	if c.NamespaceMode == "" {
		c.NamespaceMode = NamespaceModeIgnore
	}
	if c.ServiceScheme == "" {
		c.ServiceScheme = "http"
	}
	if c.WaitTime == 0 {
		c.WaitTime = 5 * time.Second
	}
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("consul: address is required")
	}
	if c.Scheme != "http" && c.Scheme != "https" {
		return fmt.Errorf("consul: scheme must be http or https (got: %s)", c.Scheme)
	}
	switch c.NamespaceMode {
	case NamespaceModeIgnore, NamespaceModeNamespace, NamespaceModeTag:
	default:
		return fmt.Errorf("consul: namespace_mode must be ignore, namespace or tag (got: %s)", c.NamespaceMode)
	}
	if c.TLS != nil && c.TLS.Enabled {
		if (c.TLS.ClientCert == "") != (c.TLS.ClientKey == "") {
			return fmt.Errorf("consul: tls client_cert and client_key must be set together")
		}
	}
	return nil
}

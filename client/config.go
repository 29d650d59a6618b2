package client

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/locus/resilience"
	"github.com/kbukum/locus/security"
)

// Config configures a Client of the locus HTTP API.
type Config struct {
	// BaseURL is the API root, e.g. "https://locus.internal:8080".
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Token is sent as a bearer token when the server requires auth.
	Token string `yaml:"token" mapstructure:"token"`

	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Resilience retries retryable failures and trips a breaker when the
	// API keeps failing.
	Resilience resilience.Config `yaml:"resilience" mapstructure:"resilience"`
}

func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Resilience.Enabled {
		c.Resilience.ApplyDefaults()
	}
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("client: base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("client: base_url must be an absolute http(s) URL (got: %s)", c.BaseURL)
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	if c.Resilience.Enabled {
		if err := c.Resilience.Validate(); err != nil {
			return fmt.Errorf("client: %w", err)
		}
	}
	return nil
}

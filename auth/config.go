package auth

import (
	"fmt"
	"slices"
	"time"
)

// Signing methods accepted in Config.Method.
const (
	HS256 = "HS256"
	HS384 = "HS384"
	HS512 = "HS512"
)

var validMethods = []string{HS256, HS384, HS512}

// Config configures token signing. An empty Secret disables authentication.
type Config struct {
	Secret   string        `yaml:"secret" mapstructure:"secret"`
	Method   string        `yaml:"method" mapstructure:"method"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer"`
	Audience string        `yaml:"audience" mapstructure:"audience"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"` // default lifetime of issued tokens
}

// Enabled reports whether tokens are required.
func (c *Config) Enabled() bool {
	return c != nil && c.Secret != ""
}

func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL == 0 {
		c.TTL = time.Hour
	}
}

func (c *Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if !slices.Contains(validMethods, c.Method) {
		return fmt.Errorf("auth.method must be one of %v (got: %s)", validMethods, c.Method)
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("auth.secret must be at least 16 characters")
	}
	if c.TTL < 0 {
		return fmt.Errorf("auth.ttl must be non-negative (got: %s)", c.TTL)
	}
	return nil
}

package cloudmap

import "fmt"

// Config holds AWS Cloud Map settings.
type Config struct {
	Region string `yaml:"region" mapstructure:"region"`

	// AccessKey and SecretKey select static credentials. When empty the
	// default AWS credential chain is used.
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`

	// Endpoint overrides the service endpoint (e.g. LocalStack).
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Scheme prefixes URLs built from instance IP or CNAME attributes.
	Scheme string `yaml:"scheme" mapstructure:"scheme"`

	// URLAttribute names the instance attribute holding a full URL. It
	// takes precedence over the IP/CNAME attributes.
	URLAttribute string `yaml:"url_attribute" mapstructure:"url_attribute"`

	// MaxResults caps the instances returned per lookup.
	MaxResults int32 `yaml:"max_results" mapstructure:"max_results"`
}

// ApplyDefaults sets defaults for Config.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.Scheme == "" {
		c.Scheme = "http"
	}
	if c.URLAttribute == "" {
		c.URLAttribute = "url"
	}
	if c.MaxResults == 0 {
		c.MaxResults = 100
	}
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("cloudmap: region is required")
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("cloudmap: access_key and secret_key must be set together")
	}
	if c.MaxResults < 1 || c.MaxResults > 1000 {
		return fmt.Errorf("cloudmap: max_results must be between 1 and 1000 (got: %d)", c.MaxResults)
	}
	return nil
}

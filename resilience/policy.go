package resilience

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/locus/logger"
)

// Config is the resilience section for a remote dependency.
type Config struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxAttempts    int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
	MaxFailures    int           `yaml:"max_failures" mapstructure:"max_failures"`
	OpenTimeout    time.Duration `yaml:"open_timeout" mapstructure:"open_timeout"`
	// MaxConcurrent caps in-flight calls; 0 disables the bulkhead.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// RatePerSecond limits call rate; 0 disables the limiter.
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	Burst         int     `yaml:"burst" mapstructure:"burst"`
}

// ApplyDefaults fills unset retry and breaker fields.
func (c *Config) ApplyDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 2 * time.Second
	}
	if c.MaxFailures == 0 {
		c.MaxFailures = 5
	}
	if c.OpenTimeout == 0 {
		c.OpenTimeout = 30 * time.Second
	}
}

// Validate rejects negative limits.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("resilience.max_attempts must be at least 1 (got: %d)", c.MaxAttempts)
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("resilience.max_backoff must not be below initial_backoff")
	}
	if c.MaxConcurrent < 0 || c.RatePerSecond < 0 || c.Burst < 0 {
		return fmt.Errorf("resilience limits must not be negative")
	}
	return nil
}

// Policy applies retry, circuit breaking, a bulkhead and rate limiting to
// calls against one dependency.
type Policy struct {
	name     string
	retry    RetryConfig
	breaker  *CircuitBreaker
	bulkhead *Bulkhead
	limiter  *RateLimiter
}

// PolicyOption customizes a Policy.
type PolicyOption func(*Policy)

// WithRetryIf restricts retries to errors for which fn returns true.
// Guard rejections and context errors are never retried.
func WithRetryIf(fn func(error) bool) PolicyOption {
	return func(p *Policy) {
		p.retry.RetryIf = func(err error) bool {
			return DefaultRetryIf(err) && fn(err)
		}
	}
}

// NewPolicy builds a policy from cfg. State changes and retries are
// logged on log.
func NewPolicy(name string, cfg Config, log *logger.Logger, opts ...PolicyOption) *Policy {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("resilience").WithFields(logger.Fields("dependency", name))

	retry := DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxAttempts
	retry.InitialBackoff = cfg.InitialBackoff
	retry.MaxBackoff = cfg.MaxBackoff
	retry.OnRetry = func(err error, delay time.Duration) {
		log.Warn("retrying call", logger.Fields(logger.FieldError, err.Error(), "delay", delay.String()))
	}

	p := &Policy{
		name:  name,
		retry: retry,
		breaker: NewCircuitBreaker(CircuitBreakerConfig{
			Name:        name,
			MaxFailures: cfg.MaxFailures,
			Timeout:     cfg.OpenTimeout,
			OnStateChange: func(name string, from, to State) {
				log.Warn("circuit breaker state changed", logger.Fields("from", from.String(), "to", to.String()))
			},
		}),
	}
	if cfg.MaxConcurrent > 0 {
		p.bulkhead = NewBulkhead(BulkheadConfig{MaxConcurrent: cfg.MaxConcurrent, MaxWait: cfg.MaxBackoff})
	}
	if cfg.RatePerSecond > 0 {
		p.limiter = NewRateLimiter(cfg.RatePerSecond, cfg.Burst)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the dependency name.
func (p *Policy) Name() string { return p.name }

// BreakerState returns the circuit breaker state.
func (p *Policy) BreakerState() State { return p.breaker.State() }

// Execute runs fn under p. Each attempt waits for the rate limiter, takes a
// bulkhead slot and passes through the circuit breaker.
func Execute[T any](ctx context.Context, p *Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	return Retry(ctx, p.retry, func(ctx context.Context) (T, error) {
		var result T
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return result, err
			}
		}
		attempt := func() error {
			return p.breaker.Execute(func() error {
				var err error
				result, err = fn(ctx)
				return err
			})
		}
		var err error
		if p.bulkhead != nil {
			err = p.bulkhead.Execute(ctx, attempt)
		} else {
			err = attempt()
		}
		return result, err
	})
}

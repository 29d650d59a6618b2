package discovery

import (
	"context"

	"github.com/kbukum/locus/logger"
	"github.com/kbukum/locus/resilience"
)

// Resilient decorates a Discovery with the retry, circuit breaker, bulkhead
// and rate limiting of a resilience.Policy.
type Resilient struct {
	next   Discovery
	policy *resilience.Policy
}

// NewResilient wraps next. name identifies the dependency in logs.
func NewResilient(name string, next Discovery, cfg resilience.Config, log *logger.Logger) *Resilient {
	return &Resilient{
		next:   next,
		policy: resilience.NewPolicy("discovery."+name, cfg, log),
	}
}

func (r *Resilient) LookupHealthyAddresses(ctx context.Context, namespace, service string) ([]string, error) {
	return resilience.Execute(ctx, r.policy, func(ctx context.Context) ([]string, error) {
		return r.next.LookupHealthyAddresses(ctx, namespace, service)
	})
}

// Ping forwards to the wrapped provider when it supports it.
func (r *Resilient) Ping(ctx context.Context) error {
	if p, ok := r.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// BreakerState reports the circuit breaker state.
func (r *Resilient) BreakerState() resilience.State {
	return r.policy.BreakerState()
}

func (r *Resilient) Close() error {
	return r.next.Close()
}

package resolver

import (
	"context"
	"maps"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/locus/errors"
	"github.com/kbukum/locus/logger"
	"github.com/kbukum/locus/observability"
	"github.com/kbukum/locus/validation"
)

// DefaultKeyPrefix is prepended to the service name to form the cache key.
const DefaultKeyPrefix = "locus-"

// CacheStore is a shared byte store keyed by string. Get reports a missing
// key as (nil, false, nil).
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// DiscoveryClient returns the healthy instance addresses of a service.
// An unknown namespace or service yields an empty list, not an error.
type DiscoveryClient interface {
	LookupHealthyAddresses(ctx context.Context, namespace, service string) ([]string, error)
}

// Source names the tier that produced a Resolution.
type Source string

const (
	SourceNone      Source = ""
	SourceStatic    Source = "static"
	SourceCache     Source = "cache"
	SourceDiscovery Source = "discovery"
)

func (s Source) String() string {
	if s == SourceNone {
		return "none"
	}
	return string(s)
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	URL    string `json:"url"`
	Source Source `json:"source"`
	// Candidates is the number of addresses the URL was picked from.
	Candidates int `json:"candidates"`
}

// Found reports whether a URL was resolved.
func (r Resolution) Found() bool {
	return r.URL != ""
}

// Resolver resolves service names through static overrides, the cache and
// discovery. It is safe for concurrent use.
type Resolver struct {
	cache     CacheStore
	discovery DiscoveryClient
	static    map[string]string
	keyPrefix string
	picker    picker
	log       *logger.Logger
	tracer    trace.Tracer
	meter     metric.Meter
	metrics   *metrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStatic sets the static override map. It is copied; entries with an
// empty URL are ignored.
func WithStatic(static map[string]string) Option {
	return func(r *Resolver) {
		r.static = make(map[string]string, len(static))
		for service, url := range static {
			if url != "" {
				r.static[service] = url
			}
		}
	}
}

// WithKeyPrefix overrides the cache key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(r *Resolver) { r.keyPrefix = prefix }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithTracer sets the tracer used for the locus.resolve span.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) { r.tracer = t }
}

// WithMeter sets the meter the resolver instruments are created on.
func WithMeter(m metric.Meter) Option {
	return func(r *Resolver) { r.meter = m }
}

// New creates a Resolver over the given cache and discovery backends.
func New(cache CacheStore, discovery DiscoveryClient, opts ...Option) (*Resolver, error) {
	if cache == nil {
		return nil, errors.InvalidInput("cache", "cache store is required")
	}
	if discovery == nil {
		return nil, errors.InvalidInput("discovery", "discovery client is required")
	}

	r := &Resolver{
		cache:     cache,
		discovery: discovery,
		static:    map[string]string{},
		keyPrefix: DefaultKeyPrefix,
		picker:    globalPicker{},
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.log == nil {
		r.log = logger.GetGlobalLogger()
	}
	r.log = r.log.WithComponent("resolver")
	if r.tracer == nil {
		r.tracer = observability.Tracer(observability.InstrumentationName)
	}
	if r.meter == nil {
		r.meter = observability.Meter(observability.InstrumentationName)
	}

	m, err := newMetrics(r.meter)
	if err != nil {
		return nil, errors.Internal(err)
	}
	r.metrics = m
	return r, nil
}

// Resolve returns a URL for service, trying the static overrides, then the
// cache, then discovery in namespace. A discovery answer is written to the
// cache as returned before one address is picked. Blank addresses are never
// picked; a list with nothing else in it counts as absent.
//
// A service nobody knows yields a Resolution with Found() == false and a
// nil error. Cache and discovery failures, including a failed write-through,
// are returned as retryable *errors.AppError values wrapping the backend
// error.
func (r *Resolver) Resolve(ctx context.Context, namespace, service string) (Resolution, error) {
	if err := validation.New().Required("service", service).Validate(); err != nil {
		return Resolution{}, err
	}

	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "locus.resolve", trace.WithAttributes(
		attribute.String(observability.AttrNamespace, namespace),
		attribute.String(observability.AttrService, service),
	))
	defer span.End()

	res, err := r.resolve(ctx, namespace, service)

	span.SetAttributes(attribute.String(observability.AttrSource, res.Source.String()))
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	r.metrics.recordResolve(ctx, res.Source, err, time.Since(start))

	log := r.log.WithContext(ctx)
	fields := logger.Fields(
		logger.FieldNamespace, namespace,
		logger.FieldTarget, service,
		logger.FieldSource, res.Source.String(),
		logger.FieldCandidates, res.Candidates,
	)
	switch {
	case err != nil:
		log.Error("resolve failed", logger.MergeWithError(fields, err))
	case !res.Found():
		log.Debug("service not found", fields)
	default:
		log.Debug("service resolved", fields)
	}
	return res, err
}

func (r *Resolver) resolve(ctx context.Context, namespace, service string) (Resolution, error) {
	if url, ok := r.static[service]; ok {
		return Resolution{URL: url, Source: SourceStatic, Candidates: 1}, nil
	}

	addrs, ok, err := r.ReadCache(ctx, service)
	if err != nil {
		return Resolution{}, err
	}
	if usable := compact(addrs); ok && len(usable) > 0 {
		return r.pick(usable, SourceCache), nil
	}

	addrs, err = r.discovery.LookupHealthyAddresses(ctx, namespace, service)
	if err != nil {
		r.metrics.recordBackendError(ctx, "discovery", "lookup")
		return Resolution{}, errors.DiscoveryUnavailable(namespace, service, err)
	}
	usable := compact(addrs)
	if len(usable) == 0 {
		return Resolution{}, nil
	}

	if err := r.WriteCache(ctx, service, addrs); err != nil {
		return Resolution{}, err
	}
	return r.pick(usable, SourceDiscovery), nil
}

func (r *Resolver) pick(addrs []string, source Source) Resolution {
	return Resolution{URL: r.SelectRandom(addrs), Source: source, Candidates: len(addrs)}
}

// SelectRandom returns one element of addrs chosen uniformly at random, or
// "" when addrs is empty.
func (r *Resolver) SelectRandom(addrs []string) string {
	switch len(addrs) {
	case 0:
		return ""
	case 1:
		return addrs[0]
	}
	return addrs[r.picker.IntN(len(addrs))]
}

// GetStaticOverride returns the static URL configured for service.
func (r *Resolver) GetStaticOverride(service string) (string, bool) {
	url, ok := r.static[service]
	return url, ok
}

// StaticOverrides returns a copy of the static override map.
func (r *Resolver) StaticOverrides() map[string]string {
	return maps.Clone(r.static)
}

// compact drops blank addresses, keeping the order of the rest.
func compact(addrs []string) []string {
	out := addrs[:0:0]
	for _, a := range addrs {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

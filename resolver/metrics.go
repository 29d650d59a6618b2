package resolver

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/locus/observability"
)

type metrics struct {
	resolveTotal    metric.Int64Counter
	resolveDuration metric.Float64Histogram
	backendErrors   metric.Int64Counter
	decodeFailures  metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	resolveTotal, err := meter.Int64Counter("locus.resolve.total",
		metric.WithDescription("Resolutions by answering tier"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating locus.resolve.total counter: %w", err)
	}

	resolveDuration, err := meter.Float64Histogram("locus.resolve.duration",
		metric.WithDescription("Duration of Resolve calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating locus.resolve.duration histogram: %w", err)
	}

	backendErrors, err := meter.Int64Counter("locus.backend.errors",
		metric.WithDescription("Failed cache and discovery calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating locus.backend.errors counter: %w", err)
	}

	decodeFailures, err := meter.Int64Counter("locus.cache.decode_failures",
		metric.WithDescription("Cache entries that were not a JSON array of strings"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating locus.cache.decode_failures counter: %w", err)
	}

	return &metrics{
		resolveTotal:    resolveTotal,
		resolveDuration: resolveDuration,
		backendErrors:   backendErrors,
		decodeFailures:  decodeFailures,
	}, nil
}

func (m *metrics) recordResolve(ctx context.Context, source Source, err error, d time.Duration) {
	label := source.String()
	if err != nil {
		label = "error"
	}
	attrs := metric.WithAttributes(attribute.String(observability.AttrSource, label))
	m.resolveTotal.Add(ctx, 1, attrs)
	m.resolveDuration.Record(ctx, d.Seconds(), attrs)
}

func (m *metrics) recordBackendError(ctx context.Context, backend, operation string) {
	m.backendErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String(observability.AttrBackend, backend),
		attribute.String(observability.AttrOperation, operation),
	))
}

func (m *metrics) recordDecodeFailure(ctx context.Context) {
	m.decodeFailures.Add(ctx, 1)
}

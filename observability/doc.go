// Package observability wires OpenTelemetry tracing and metrics for locus.
//
// Setup installs OTLP/HTTP exporters as the global providers; until it runs
// every tracer and meter is a no-op, so library code can instrument
// unconditionally.
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "locus.resolve")
//	defer span.End()
package observability

package main

import (
	"context"
	"fmt"

	"github.com/kbukum/locus/bootstrap"
	"github.com/kbukum/locus/discovery"
	"github.com/kbukum/locus/observability"
	"github.com/kbukum/locus/redis"
	"github.com/kbukum/locus/resolver"

	// Discovery backends register themselves with the provider registry.
	_ "github.com/kbukum/locus/discovery/cloudmap"
	_ "github.com/kbukum/locus/discovery/consul"
	_ "github.com/kbukum/locus/discovery/static"
)

// runtime is a bootstrapped App plus the resolver wired over its
// components. Components are started by App.Run or App.RunTask.
type runtime struct {
	app      *bootstrap.App[*AppConfig]
	resolver *resolver.Resolver
}

func newRuntime(ctx context.Context, cfg *AppConfig, opts ...bootstrap.Option) (*runtime, error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}

	shutdown, err := observability.Setup(ctx, cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("observability setup: %w", err)
	}
	app.OnStop(func(ctx context.Context) error { return shutdown(ctx) })

	var cache resolver.CacheStore
	switch cfg.Cache.Provider {
	case CacheProviderMemory:
		cache = resolver.NewMemoryStore()
	default:
		rc := redis.NewComponent(cfg.Cache.Redis, app.Logger)
		if err := app.RegisterComponent(rc); err != nil {
			return nil, err
		}
		cache = rc
	}

	disc := discovery.NewComponent(cfg.Discovery.Config, cfg.Discovery.ProviderConfig(), app.Logger)
	if err := app.RegisterComponent(disc); err != nil {
		return nil, err
	}

	res, err := resolver.New(cache, disc,
		resolver.WithStatic(cfg.Resolver.StaticURLs()),
		resolver.WithKeyPrefix(cfg.Resolver.KeyPrefix),
		resolver.WithLogger(app.Logger),
		resolver.WithTracer(observability.Tracer(observability.InstrumentationName)),
		resolver.WithMeter(observability.Meter(observability.InstrumentationName)),
	)
	if err != nil {
		return nil, err
	}

	return &runtime{app: app, resolver: res}, nil
}

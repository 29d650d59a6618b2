package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/locus/auth"
	"github.com/kbukum/locus/observability"
	"github.com/kbukum/locus/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the resolution HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			cfg, err := loadConfig(cmd, "info")
			if err != nil {
				return err
			}
			rt, err := newRuntime(ctx, cfg)
			if err != nil {
				return err
			}

			metrics, err := observability.NewHTTPMetrics(observability.Meter(observability.InstrumentationName))
			if err != nil {
				return err
			}
			srv := server.New(cfg.Server, rt.app.Logger)
			srv.ApplyMiddleware(metrics)
			var routeOpts []server.RouteOption
			if cfg.Server.Auth.Enabled() {
				tokens, err := auth.NewService(cfg.Server.Auth)
				if err != nil {
					return err
				}
				routeOpts = append(routeOpts, server.WithAuth(tokens))
			}
			server.RegisterRoutes(srv.GinEngine(), rt.resolver, cfg.Name, rt.app.Components.HealthAll, routeOpts...)

			// Registered last: the API starts after its backends and stops first.
			if err := rt.app.RegisterComponent(server.NewComponent(srv)); err != nil {
				return err
			}
			return rt.app.Run(ctx)
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
}

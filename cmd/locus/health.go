package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/locus/client"
	"github.com/kbukum/locus/component"
	"github.com/kbukum/locus/errors"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Report the health of the cache and discovery backends",
		Long: `Health starts the configured backends and prints one line per
component. With --server it prints the report of that server instead.
The command fails when any component is unhealthy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			cfg, err := loadConfig(cmd, "warn")
			if err != nil {
				return err
			}

			var report client.HealthReport
			if cfg.Remote() {
				c, err := newRemote(cfg)
				if err != nil {
					return err
				}
				if report, err = c.Health(ctx); err != nil {
					return err
				}
			} else {
				rt, err := newRuntime(ctx, cfg)
				if err != nil {
					return err
				}
				err = rt.app.RunTask(ctx, func(ctx context.Context) error {
					report.Components = rt.app.Components.HealthAll(ctx)
					report.Status = component.Overall(report.Components)
					report.Service = cfg.Name
					return nil
				})
				if err != nil {
					return err
				}
			}

			if err := printHealth(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if report.Status == component.StatusUnhealthy {
				return errors.ServiceUnavailable(report.Service)
			}
			return nil
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
}

func printHealth(w io.Writer, report client.HealthReport) error {
	if _, err := fmt.Fprintf(w, "%s\t%s\n", report.Service, report.Status); err != nil {
		return err
	}
	for _, h := range report.Components {
		line := fmt.Sprintf("  %s\t%s", h.Name, h.Status)
		if h.Message != "" {
			line += "\t" + h.Message
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

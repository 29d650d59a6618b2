package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/locus/errors"
	"github.com/kbukum/locus/validation"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and edit cached address lists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	cmd.AddCommand(newCacheGetCmd(), newCacheSetCmd(), newCacheClearCmd())
	return cmd
}

func newCacheGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <service>",
		Short: "Print the cached addresses of a service, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, func(ctx context.Context, b backend) error {
				addrs, ok, err := b.ReadCache(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return errors.NotFound(args[0])
				}
				for _, a := range addrs {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), a); err != nil {
						return err
					}
				}
				return nil
			})
		},
		SilenceUsage: true,
	}
}

type cacheSetArgs struct {
	Service   string   `validate:"required"`
	Addresses []string `validate:"required,min=1,dive,url"`
}

func newCacheSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <service> <url> [url...]",
		Short:   "Replace the cached addresses of a service",
		Example: `  locus cache set back http://10.0.0.1:8080 http://10.0.0.2:8080`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cacheSetArgs{Service: args[0], Addresses: args[1:]}
			if err := validation.Validate(in); err != nil {
				return err
			}
			return runTask(cmd, func(ctx context.Context, b backend) error {
				return b.WriteCache(ctx, in.Service, in.Addresses)
			})
		},
		SilenceUsage: true,
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <service>",
		Short: "Delete the cached addresses of a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, func(ctx context.Context, b backend) error {
				return b.ClearCache(ctx, args[0])
			})
		},
		SilenceUsage: true,
	}
}

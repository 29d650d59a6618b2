package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/locus/errors"
)

const flagVerbose = "verbose"

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <namespace> <service>",
		Short: "Resolve a service to one URL",
		Long: `Resolve prints one URL for the service. A static override wins,
then a cached address list, then a discovery lookup in the namespace.
The command fails when no tier knows the service.`,
		Example: `  locus resolve dimi back
  locus resolve dimi back --verbose`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool(flagVerbose)
			namespace, service := args[0], args[1]

			return runTask(cmd, func(ctx context.Context, b backend) error {
				res, err := b.Resolve(ctx, namespace, service)
				if err != nil {
					return err
				}
				if !res.Found() {
					return errors.NotFound(service)
				}

				out := cmd.OutOrStdout()
				if verbose {
					_, err = fmt.Fprintf(out, "%s\tsource=%s candidates=%d\n", res.URL, res.Source, res.Candidates)
					return err
				}
				_, err = fmt.Fprintln(out, res.URL)
				return err
			})
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	cmd.Flags().BoolP(flagVerbose, "v", false, "also print the tier that answered and the candidate count")
	return cmd
}

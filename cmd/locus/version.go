package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/locus/util"
	"github.com/kbukum/locus/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the locus version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "locus %s\ngo: %s\n", info, util.Coalesce(info.GoVersion, "unknown"))
			return err
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
}

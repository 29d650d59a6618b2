package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/locus/auth"
	"github.com/kbukum/locus/errors"
)

const (
	flagSubject = "subject"
	flagScope   = "scope"
	flagTTL     = "ttl"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the locus API",
		Long: `Token signs a token with server.auth.secret. Tokens carry the
resolve scope by default; add --scope cache:write to allow cache edits.`,
		Example: `  locus token --subject deploy-bot --scope resolve --scope cache:write --ttl 24h`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subject, _ := cmd.Flags().GetString(flagSubject)
			scopes, _ := cmd.Flags().GetStringSlice(flagScope)
			ttl, _ := cmd.Flags().GetDuration(flagTTL)
			if subject == "" {
				return errors.InvalidInput(flagSubject, "is required")
			}
			for _, s := range scopes {
				if s != auth.ScopeResolve && s != auth.ScopeCacheWrite {
					return errors.InvalidInput(flagScope, fmt.Sprintf("unknown scope %q", s))
				}
			}

			cfg, err := loadConfig(cmd, "warn")
			if err != nil {
				return err
			}
			if !cfg.Server.Auth.Enabled() {
				return errors.InvalidInput("server.auth.secret", "is not configured")
			}
			tokens, err := auth.NewService(cfg.Server.Auth)
			if err != nil {
				return err
			}
			token, err := tokens.Issue(subject, ttl, scopes...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	cmd.Flags().String(flagSubject, "", "who the token is for")
	cmd.Flags().StringSlice(flagScope, []string{auth.ScopeResolve}, "scopes to grant (resolve, cache:write)")
	cmd.Flags().Duration(flagTTL, 0, "token lifetime (server.auth.ttl when zero)")
	return cmd
}

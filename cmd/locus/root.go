package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/locus/client"
	"github.com/kbukum/locus/config"
	"github.com/kbukum/locus/logger"
	"github.com/kbukum/locus/resolver"
)

const serviceName = "locus"

const (
	flagConfig   = "config"
	flagEnvFile  = "env-file"
	flagLogLevel = "log-level"
	flagServer   = "server"
	flagToken    = "token"
)

// New builds the locus root command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locus [sub-command]",
		Short: "Resolve logical service names to reachable URLs",
		Long: `locus resolves a service name to a URL through static overrides,
  a shared Redis cache and a discovery backend (AWS Cloud Map, Consul
  or a static table), writing discovery answers back to the cache.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	cmd.PersistentFlags().String(flagConfig, "", "path to config.yml (searched in standard locations when empty)")
	cmd.PersistentFlags().String(flagEnvFile, "", "path to a .env file loaded before reading the environment")
	cmd.PersistentFlags().String(flagLogLevel, "", "log level override (trace, debug, info, warn, error)")
	cmd.PersistentFlags().String(flagServer, "", "base URL of a locus server; resolve, cache and health commands then run remotely")
	cmd.PersistentFlags().String(flagToken, "", "bearer token sent to the locus server")

	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newCacheCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig reads the config named by the persistent flags. Logs go to
// stderr unless configured otherwise so command output stays clean.
func loadConfig(cmd *cobra.Command, defaultLevel string) (*AppConfig, error) {
	flags := cmd.Flags()
	cfgFile, _ := flags.GetString(flagConfig)
	envFile, _ := flags.GetString(flagEnvFile)
	level, _ := flags.GetString(flagLogLevel)
	remote, _ := flags.GetString(flagServer)
	token, _ := flags.GetString(flagToken)

	loadLog := logger.NewWithWriter(&logger.Config{Level: "warn", Format: logger.FormatConsole}, serviceName, cmd.ErrOrStderr())
	opts := []config.LoaderOption{
		config.WithLogger(loadLog),
		config.WithDefault("logging.output", "stderr"),
		config.WithDefault("logging.level", defaultLevel),
	}
	if cfgFile != "" {
		opts = append(opts, config.WithConfigFile(cfgFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if remote != "" {
		cfg.Client.BaseURL = remote
		if err := cfg.Client.Validate(); err != nil {
			return nil, err
		}
	}
	if token != "" {
		cfg.Client.Token = token
	}
	if level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

// backend is what the resolve and cache commands need. Both the in-process
// resolver and the remote client provide it.
type backend interface {
	Resolve(ctx context.Context, namespace, service string) (resolver.Resolution, error)
	ReadCache(ctx context.Context, service string) ([]string, bool, error)
	WriteCache(ctx context.Context, service string, addrs []string) error
	ClearCache(ctx context.Context, service string) error
}

var (
	_ backend = (*resolver.Resolver)(nil)
	_ backend = (*client.Client)(nil)
)

func newRemote(cfg *AppConfig) (*client.Client, error) {
	return client.New(cfg.Client, logger.New(&cfg.Logging, cfg.Name))
}

// runTask loads the config and runs task against a remote server when one
// is configured, otherwise against an in-process resolver whose components
// live for the duration of the task.
func runTask(cmd *cobra.Command, task func(ctx context.Context, b backend) error) error {
	ctx := commandContext(cmd)
	cfg, err := loadConfig(cmd, "warn")
	if err != nil {
		return err
	}

	if cfg.Remote() {
		c, err := newRemote(cfg)
		if err != nil {
			return err
		}
		return task(ctx, c)
	}

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	return rt.app.RunTask(ctx, func(ctx context.Context) error {
		return task(ctx, rt.resolver)
	})
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package main

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/kbukum/locus/util"
)

// yamlJSON renders config structs with their yaml key names.
var yamlJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	TagKey:                 "yaml",
}.Froze()

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, "warn")
			if err != nil {
				return err
			}
			out, err := yamlJSON.MarshalIndent(maskSecrets(*cfg), "", "  ")
			if err != nil {
				return err
			}
			out = append(out, '\n')
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
}

func maskSecrets(cfg AppConfig) AppConfig {
	cfg.Cache.Redis.Password = util.MaskSecret(cfg.Cache.Redis.Password, 0)
	cfg.Discovery.Consul.Token = util.MaskSecret(cfg.Discovery.Consul.Token, 4)
	cfg.Discovery.CloudMap.AccessKey = util.MaskSecret(cfg.Discovery.CloudMap.AccessKey, 4)
	cfg.Discovery.CloudMap.SecretKey = util.MaskSecret(cfg.Discovery.CloudMap.SecretKey, 0)
	cfg.Server.Auth.Secret = util.MaskSecret(cfg.Server.Auth.Secret, 0)
	cfg.Client.Token = util.MaskSecret(cfg.Client.Token, 0)
	return cfg
}

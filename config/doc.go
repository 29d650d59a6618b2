// Package config loads locus configuration from YAML files, .env files and
// the process environment using viper and godotenv.
//
// Files are searched in ./cmd/<name>/config.yml, ./config/config.yml and
// ./config.yml unless an explicit path is given. Every environment variable
// is bound under several nested key variants, so CACHE_REDIS_ADDR overrides
// cache.redis.addr without any prefix.
//
//	var cfg AppConfig
//	err := config.LoadConfig("locus", &cfg, config.WithConfigFile(path))
package config

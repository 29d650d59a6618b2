package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty config", func(t *testing.T) {
		cfg := ServiceConfig{}
		cfg.ApplyDefaults()
		if cfg.Name != "locus" {
			t.Errorf("expected name 'locus', got %q", cfg.Name)
		}
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.ServiceName != "locus" {
			t.Errorf("expected logging service name to follow name, got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	valid := func() ServiceConfig {
		c := ServiceConfig{Name: "svc", Environment: "staging"}
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(*ServiceConfig)
		errMsg string
	}{
		{"valid", func(*ServiceConfig) {}, ""},
		{"missing name", func(c *ServiceConfig) { c.Name = "" }, "config.name is required"},
		{"invalid environment", func(c *ServiceConfig) { c.Environment = "qa" }, "config.environment must be one of"},
		{"invalid log level", func(c *ServiceConfig) { c.Logging.Level = "loud" }, "config.logging"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Fatalf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Cache         struct {
		Provider string `mapstructure:"provider"`
		Redis    struct {
			Addr string `mapstructure:"addr"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: locus
environment: staging
cache:
  provider: redis
  redis:
    addr: "localhost:6379"
`)

	var cfg testConfig
	if err := LoadConfig("locus", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Cache.Redis.Addr != "localhost:6379" {
		t.Errorf("expected redis addr from file, got %q", cfg.Cache.Redis.Addr)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected defaults to be applied, got level %q", cfg.Logging.Level)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: locus
cache:
  redis:
    addr: "file:6379"
`)
	t.Setenv("CACHE_REDIS_ADDR", "env:6379")

	var cfg testConfig
	if err := LoadConfig("locus", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Cache.Redis.Addr != "env:6379" {
		t.Errorf("expected env override, got %q", cfg.Cache.Redis.Addr)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yml", "name: locus\n")
	envPath := writeFile(t, dir, ".env", "CACHE_PROVIDER=memory\n")
	t.Cleanup(func() { os.Unsetenv("CACHE_PROVIDER") })

	var cfg testConfig
	if err := LoadConfig("locus", &cfg, WithConfigFile(cfgPath), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Cache.Provider != "memory" {
		t.Errorf("expected provider from .env, got %q", cfg.Cache.Provider)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "name: locus\n")

	var cfg testConfig
	err := LoadConfig("locus", &cfg, WithConfigFile(path), WithDefault("cache.provider", "redis"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Cache.Provider != "redis" {
		t.Errorf("expected default provider, got %q", cfg.Cache.Provider)
	}
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("locus", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestLoadConfigValidationFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "environment: qa\n")

	var cfg testConfig
	err := LoadConfig("locus", &cfg, WithConfigFile(path))
	if err == nil || !strings.Contains(err.Error(), "environment") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]bool
		wantConf string
		wantEnv  string
	}{
		{
			name:     "cmd directory",
			files:    map[string]bool{"./cmd/locus/config.yml": true, "./cmd/locus/.env": true},
			wantConf: "./cmd/locus/config.yml",
			wantEnv:  "./cmd/locus/.env",
		},
		{
			name:     "root fallback",
			files:    map[string]bool{"./config.yml": true, ".env": true},
			wantConf: "./config.yml",
			wantEnv:  ".env",
		},
		{
			name:  "nothing found",
			files: map[string]bool{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &Resolver{FileSystem: &mockFS{files: tc.files}}
			got := r.ResolveFiles("locus", LoaderConfig{})
			if got.ConfigFile != tc.wantConf {
				t.Errorf("ConfigFile = %q, want %q", got.ConfigFile, tc.wantConf)
			}
			if got.EnvFile != tc.wantEnv {
				t.Errorf("EnvFile = %q, want %q", got.EnvFile, tc.wantEnv)
			}
		})
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	r := &Resolver{FileSystem: &mockFS{files: map[string]bool{"./config.yml": true}}}
	got := r.ResolveFiles("locus", LoaderConfig{ConfigFile: "/etc/locus.yml", EnvFile: "/etc/locus.env"})
	if got.ConfigFile != "/etc/locus.yml" || got.EnvFile != "/etc/locus.env" {
		t.Errorf("explicit paths not kept: %+v", got)
	}
}

func TestLoadConfigUsesFileSystem(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "name: locus\n")

	fs := &mockFS{files: map[string]bool{path: true, ".env": true}}
	var cfg testConfig
	if err := LoadConfig("locus", &cfg, WithFileSystem(fs), WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(fs.loaded) != 1 || fs.loaded[0] != ".env" {
		t.Errorf("expected .env to be loaded through the filesystem, got %v", fs.loaded)
	}

	// The file is on disk, but the filesystem says otherwise.
	err := LoadConfig("locus", &cfg, WithFileSystem(&mockFS{}), WithConfigFile(path))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}
func (m *mockFS) Getwd() (string, error) { return "/mock", nil }

func TestGenerateEnvKeyVariants(t *testing.T) {
	variants := generateEnvKeyVariants("CACHE_REDIS_ADDR")
	want := []string{"cache_redis_addr", "cache.redis.addr", "cache.redis_addr"}
	for _, w := range want {
		found := false
		for _, v := range variants {
			if v == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected variant %q in %v", w, variants)
		}
	}

	if got := generateEnvKeyVariants("NAME"); len(got) != 1 || got[0] != "name" {
		t.Errorf("single-part key variants = %v", got)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory for the rest of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig_Load_Defaults(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())

	require.NoError(t, Init("", ""))
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8888", cfg.Registry.URL)
	assert.Equal(t, "jupyterlab-onyxia-composer", cfg.Registry.Namespace)
	assert.Equal(t, 30*time.Second, cfg.Registry.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8888", cfg.Server.Listen)
	assert.Equal(t, 20.0, cfg.Server.RateLimit)
	assert.Equal(t, "catalog.db", filepath.Base(cfg.Server.Database))
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
}

func TestConfig_Load_File(t *testing.T) {
	viper.Reset()
	path := writeFile(t, "config.yaml", `
registry:
  url: https://onyxia.example.com/user/jovyan
  namespace: composer
  timeout: 5s
log:
  level: debug
server:
  listen: 127.0.0.1:9000
  database: /tmp/c.db
  workdir: /tmp/repos
  rate_limit: 2.5
`)

	require.NoError(t, Init(path, ""))
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://onyxia.example.com/user/jovyan", cfg.Registry.URL)
	assert.Equal(t, "composer", cfg.Registry.Namespace)
	assert.Equal(t, 5*time.Second, cfg.Registry.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, "/tmp/c.db", cfg.Server.Database)
	assert.Equal(t, "/tmp/repos", cfg.Server.Workdir)
	assert.Equal(t, 2.5, cfg.Server.RateLimit)
}

func TestConfig_Load_EnvOverridesFile(t *testing.T) {
	viper.Reset()
	path := writeFile(t, "config.yaml", "registry:\n  url: http://file:1\n")
	t.Setenv("COMPOSER_REGISTRY_URL", "http://env:2")

	require.NoError(t, Init(path, ""))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.Registry.URL)
}

func TestConfig_Init_EnvFile(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())
	envFile := writeFile(t, "composer.env", "COMPOSER_LOG_LEVEL=warn\n")
	t.Setenv("COMPOSER_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("COMPOSER_LOG_LEVEL"))

	require.NoError(t, Init("", envFile))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestConfig_Init_MissingExplicitFile(t *testing.T) {
	viper.Reset()
	err := Init(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Registry: RegistryConfig{URL: "http://localhost:8888", Namespace: "ns", Timeout: time.Second},
		Server:   ServerConfig{MaxBodySize: "64KB"},
	}
	require.NoError(t, valid.Validate())
	assert.Equal(t, int64(64<<10), valid.Server.MaxBodyBytes)

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "relative url", mutate: func(c *Config) { c.Registry.URL = "localhost:8888" }},
		{name: "ftp url", mutate: func(c *Config) { c.Registry.URL = "ftp://host" }},
		{name: "empty namespace", mutate: func(c *Config) { c.Registry.Namespace = "//" }},
		{name: "zero timeout", mutate: func(c *Config) { c.Registry.Timeout = 0 }},
		{name: "negative rate", mutate: func(c *Config) { c.Server.RateLimit = -1 }},
		{name: "body size without unit", mutate: func(c *Config) { c.Server.MaxBodySize = "100" }},
		{name: "zero body size", mutate: func(c *Config) { c.Server.MaxBodySize = "0B" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

// Package config loads composer settings from defaults, an optional YAML file,
// an optional .env file and COMPOSER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/logilab/onyxia-composer/pkg/bytesize"
	"github.com/logilab/onyxia-composer/pkg/logger"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "COMPOSER"

type Config struct {
	Registry RegistryConfig `mapstructure:"registry"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
}

// RegistryConfig is where the client sends its requests.
type RegistryConfig struct {
	URL       string        `mapstructure:"url"`
	Namespace string        `mapstructure:"namespace"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig configures the reference registry started by `composer serve`.
type ServerConfig struct {
	Listen    string  `mapstructure:"listen"`
	Database  string  `mapstructure:"database"`
	Workdir   string  `mapstructure:"workdir"`
	RateLimit float64 `mapstructure:"rate_limit"`
	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For is honored.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
	// MaxBodySize is a human size such as "1MB"; MaxBodyBytes is its value.
	MaxBodySize  string `mapstructure:"max_body_size"`
	MaxBodyBytes int64  `mapstructure:"-"`
}

// Init prepares viper: config file, .env file and environment binding.
// An empty cfgFile searches the user config directory; a missing file is not
// an error unless it was named explicitly.
func Init(cfgFile, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("unable to load env file %s: %w", envFile, err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			logger.Warn("ignoring unreadable .env file", "error", err)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(filepath.Join(defaultConfigDir(), "onyxia-composer"))
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("unable to read config: %w", err)
		}
		logger.Debug("no config file found, using defaults")
		return nil
	}
	logger.Debug("config file loaded", "path", viper.ConfigFileUsed())
	return nil
}

func setDefaults() {
	viper.SetDefault("registry.url", "http://localhost:8888")
	viper.SetDefault("registry.namespace", "jupyterlab-onyxia-composer")
	viper.SetDefault("registry.timeout", 30*time.Second)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("server.listen", ":8888")
	viper.SetDefault("server.database", filepath.Join(getDefaultDataDir(), "catalog.db"))
	viper.SetDefault("server.workdir", filepath.Join(getDefaultDataDir(), "repos"))
	viper.SetDefault("server.rate_limit", 20.0)
	viper.SetDefault("server.max_body_size", "1MB")
}

// Load decodes and validates the current viper state.
func Load() (*Config, error) {
	var cfg Config
	setDefaults()

	if err := viper.UnmarshalKey("registry", &cfg.Registry); err != nil {
		return nil, fmt.Errorf("unable to decode registry config: %w", err)
	}
	if err := viper.UnmarshalKey("log", &cfg.Log); err != nil {
		return nil, fmt.Errorf("unable to decode log config: %w", err)
	}
	if err := viper.UnmarshalKey("server", &cfg.Server); err != nil {
		return nil, fmt.Errorf("unable to decode server config: %w", err)
	}

	// AutomaticEnv is only consulted by Get, not by UnmarshalKey.
	cfg.Registry.URL = viper.GetString("registry.url")
	cfg.Registry.Namespace = viper.GetString("registry.namespace")
	cfg.Registry.Timeout = viper.GetDuration("registry.timeout")
	cfg.Log.Level = viper.GetString("log.level")
	cfg.Server.Listen = viper.GetString("server.listen")
	cfg.Server.Database = viper.GetString("server.database")
	cfg.Server.Workdir = viper.GetString("server.workdir")
	cfg.Server.RateLimit = viper.GetFloat64("server.rate_limit")
	cfg.Server.TrustedProxies = viper.GetStringSlice("server.trusted_proxies")
	cfg.Server.MaxBodySize = viper.GetString("server.max_body_size")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would only fail later, at request time.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Registry.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("registry.url must be an absolute http(s) URL, got %q", c.Registry.URL)
	}
	if strings.Trim(c.Registry.Namespace, "/") == "" {
		return fmt.Errorf("registry.namespace must not be empty")
	}
	if c.Registry.Timeout <= 0 {
		return fmt.Errorf("registry.timeout must be positive")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	size, err := bytesize.Parse(c.Server.MaxBodySize)
	if err != nil || size <= 0 {
		return fmt.Errorf("server.max_body_size must be a positive size such as 1MB, got %q", c.Server.MaxBodySize)
	}
	c.Server.MaxBodyBytes = size
	return nil
}

func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return os.Getenv("HOME")
}

// getDefaultDataDir returns a platform-appropriate default data directory
func getDefaultDataDir() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "share", "onyxia-composer")
	}
	return "./data"
}

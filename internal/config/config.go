// Package config loads codecity settings from defaults, an optional TOML
// file, CODECITY_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/codecity/pkg/cache"
	"github.com/matzehuels/codecity/pkg/city"
	"github.com/matzehuels/codecity/pkg/errors"
	"github.com/matzehuels/codecity/pkg/pipeline"
)

const (
	// AppName names the config and cache directories.
	AppName = "codecity"

	// EnvPrefix is the prefix of environment overrides, e.g.
	// CODECITY_CACHE_BACKEND.
	EnvPrefix = "CODECITY"

	// FileName is the config file looked up in the config directory.
	FileName = "config.toml"
)

// Config is the complete runtime configuration.
type Config struct {
	Separator string  `mapstructure:"separator"`
	Parallel  bool    `mapstructure:"parallel"`
	Scale     float64 `mapstructure:"scale"`

	Cache     Cache     `mapstructure:"cache"`
	Store     Store     `mapstructure:"store"`
	Server    Server    `mapstructure:"server"`
	Telemetry Telemetry `mapstructure:"telemetry"`
}

// Cache configures the layout and artifact cache.
type Cache struct {
	Backend   string `mapstructure:"backend"` // none, file or redis
	Dir       string `mapstructure:"dir"`
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
	Prefix    string `mapstructure:"prefix"`
}

// Store configures where the API keeps saved layouts.
type Store struct {
	MongoURI string `mapstructure:"mongo_uri"` // empty keeps layouts in memory
	Database string `mapstructure:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// Telemetry configures tracing.
type Telemetry struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// setDefaults registers every key with its default so that environment
// variables are picked up for keys missing from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("separator", city.DefaultSeparator)
	v.SetDefault("parallel", false)
	v.SetDefault("scale", pipeline.DefaultScale)

	v.SetDefault("cache.backend", cache.BackendFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.prefix", AppName+":")

	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.database", AppName)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_body_bytes", int64(32<<20))

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
}

// Load reads the configuration. An explicit path must exist; without one
// the default path is used when present. Flags in fs that were changed on
// the command line override everything else; flagKeys maps flag names to
// config keys such as "cache.backend".
func Load(path string, fs *pflag.FlagSet, flagKeys map[string]string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readFile(v, path); err != nil {
		return nil, err
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		dir, err := Dir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, FileName)
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	if !explicit && stderrors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("read config %s: %w", path, err)
}

// Validate checks values that viper cannot type-check.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendFile, cache.BackendRedis:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (must be none, file or redis)", c.Cache.Backend)
	}
	if err := errors.ValidateSeparator(c.Separator); err != nil {
		return fmt.Errorf("separator: %w", err)
	}
	if c.Scale <= 0 || c.Scale > pipeline.MaxScale {
		return fmt.Errorf("scale must be in (0, %g], got %g", pipeline.MaxScale, c.Scale)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	return nil
}

// CacheConfig converts the cache section for [cache.Open]. An empty
// directory resolves to the default cache directory.
func (c *Config) CacheConfig() (cache.Config, error) {
	dir := c.Cache.Dir
	if dir == "" && c.Cache.Backend == cache.BackendFile {
		d, err := CacheDir()
		if err != nil {
			return cache.Config{}, err
		}
		dir = d
	}
	return cache.Config{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Redis: cache.RedisConfig{
			Addr:   c.Cache.RedisAddr,
			DB:     c.Cache.RedisDB,
			Prefix: c.Cache.Prefix,
		},
	}, nil
}

// PipelineOptions returns the pipeline options implied by the config.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Separator: c.Separator,
		Parallel:  c.Parallel,
		Scale:     c.Scale,
	}
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the config directory using XDG standard (~/.config/codecity/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/codecity/).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

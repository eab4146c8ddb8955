// Package cli implements the codecity command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codecity/internal/config"
	"github.com/matzehuels/codecity/pkg/buildinfo"
	"github.com/matzehuels/codecity/pkg/cache"
	"github.com/matzehuels/codecity/pkg/city"
	"github.com/matzehuels/codecity/pkg/observability"
	"github.com/matzehuels/codecity/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// flagKeys maps flag names to the config keys they override. Only flags
// set on the command line take effect.
var flagKeys = map[string]string{
	"separator":      "separator",
	"parallel":       "parallel",
	"scale":          "scale",
	"cache":          "cache.backend",
	"cache-dir":      "cache.dir",
	"redis-addr":     "cache.redis_addr",
	"mongo-uri":      "store.mongo_uri",
	"addr":           "server.addr",
	"trace":          "telemetry.enabled",
	"trace-endpoint": "telemetry.endpoint",
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	noCache    bool

	cfg      *config.Config
	shutdown func(context.Context) error
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Codecity lays out software as a city",
		Long: `Codecity turns a list of classes into a city: packages become nested
districts and classes become buildings whose footprint and height follow
their metrics.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default: ~/.config/codecity/config.toml)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable caching")
	pf.String("cache", "", "cache backend: none, file, redis")
	pf.String("cache-dir", "", "file cache directory (default: ~/.cache/codecity)")
	pf.String("redis-addr", "", "redis address for the redis cache backend")
	pf.String("separator", "", "name separator for inputs that do not declare one")
	pf.Bool("parallel", false, "pack sibling districts concurrently")
	pf.Bool("trace", false, "export OpenTelemetry traces")
	pf.String("trace-endpoint", "", "OTLP/HTTP endpoint (default: print spans to stderr)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and installs tracing before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))

	cfg, err := config.Load(c.configPath, cmd.Flags(), flagKeys)
	if err != nil {
		return err
	}
	if c.noCache {
		cfg.Cache.Backend = cache.BackendNone
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "cache", cfg.Cache.Backend, "separator", cfg.Separator, "parallel", cfg.Parallel)

	if cfg.Telemetry.Enabled {
		return c.startTracing(cmd.Context())
	}
	return nil
}

func (c *CLI) startTracing(ctx context.Context) error {
	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:    appName,
		ServiceVersion: buildinfo.Version,
		Endpoint:       c.cfg.Telemetry.Endpoint,
		Writer:         os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	hooks := observability.NewOTelHooks()
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)
	c.shutdown = shutdown
	return nil
}

// Shutdown flushes pending traces. It is safe to call when tracing was
// never started.
func (c *CLI) Shutdown(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}
	defer observability.Reset()
	err := c.shutdown(ctx)
	c.shutdown = nil
	return err
}

// config returns the loaded configuration, falling back to defaults when a
// command runs without the root pre-run.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		cfg, err := config.Load("", nil, nil)
		if err != nil {
			c.Logger.Warn("config unavailable, using defaults", "error", err)
			cfg = &config.Config{Separator: city.DefaultSeparator, Scale: pipeline.DefaultScale, Cache: config.Cache{Backend: cache.BackendNone}}
		}
		c.cfg = cfg
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. An unreachable cache is
// reported and replaced by a null cache.
func (c *CLI) newRunner(ctx context.Context) *pipeline.Runner {
	return pipeline.NewRunner(c.openCache(ctx), nil, c.Logger)
}

func (c *CLI) openCache(ctx context.Context) cache.Cache {
	cc, err := c.config().CacheConfig()
	if err == nil {
		var ch cache.Cache
		if ch, err = cache.Open(ctx, cc); err == nil {
			return ch
		}
	}
	c.Logger.Warn("cache unavailable, continuing without", "error", err)
	return cache.NewNullCache()
}

// pipelineOptions returns the configured defaults for a pipeline run.
func (c *CLI) pipelineOptions() pipeline.Options {
	opts := c.config().PipelineOptions()
	opts.Logger = c.Logger
	return opts
}

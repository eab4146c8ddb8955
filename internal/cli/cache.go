package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codecity/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc, err := c.config().CacheConfig()
			if err != nil {
				return fmt.Errorf("get cache config: %w", err)
			}
			ch, err := cache.Open(ctx, cc)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				printInfo("Cache is disabled")
				return nil
			}
			count, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Backend: %s", describeCache(cc))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := c.config().CacheConfig()
			if err != nil {
				return fmt.Errorf("get cache config: %w", err)
			}
			fmt.Fprintln(stdout, describeCache(cc))
			return nil
		},
	}
}

// describeCache names the location of a cache configuration.
func describeCache(cc cache.Config) string {
	switch cc.Backend {
	case cache.BackendNone:
		return "none"
	case cache.BackendRedis:
		return fmt.Sprintf("redis://%s/%d %s*", cc.Redis.Addr, cc.Redis.DB, cc.Redis.Prefix)
	default:
		return cc.Dir
	}
}

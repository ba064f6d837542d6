package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbench/pkg/cache"
	"github.com/matzehuels/flowbench/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if cfg.Cache.Backend == config.CacheNone {
				printInfo(w, "Caching is disabled")
				return nil
			}

			store, err := c.newCache(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printInfo(w, "Cache is empty")
				return nil
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess(w, "Cleared %d cached entries", count)
			printDetail(w, "%s", cacheLocation(cfg.Cache, store))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case config.CacheRedis:
				fmt.Fprintln(cmd.OutOrStdout(), redisLocation(cfg.Cache.Redis))
				return nil
			case config.CacheNone:
				return fmt.Errorf("caching is disabled")
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func cacheLocation(cfg config.CacheConfig, store cache.Cache) string {
	if fc, ok := store.(*cache.FileCache); ok {
		return "Directory: " + fc.Dir()
	}
	return "Redis: " + redisLocation(cfg.Redis)
}

func redisLocation(r config.RedisConfig) string {
	prefix := r.Prefix
	if prefix == "" {
		prefix = cache.DefaultRedisPrefix
	}
	return fmt.Sprintf("redis://%s/%d (%s*)", r.Addr, r.DB, prefix)
}

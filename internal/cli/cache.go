package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pycompat/internal/config"
	"github.com/matzehuels/pycompat/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached registry responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, _, err := c.loadConfig(ctx, cmd)
			if err != nil {
				return userError(err)
			}

			var (
				target cache.Clearer
				where  string
			)
			switch cfg.Cache.Backend {
			case config.CacheBackendRedis:
				rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
				if err != nil {
					return userError(err)
				}
				defer rc.Close()
				target, where = rc, "redis"
			default:
				dir, err := cfg.ResolveCacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				if ok, _ := afero.DirExists(c.Fs, dir); !ok {
					printInfo(c.Stdout, "Cache is empty")
					return nil
				}
				fc, err := cache.NewFileCacheFs(c.Fs, dir)
				if err != nil {
					return err
				}
				target, where = fc, dir
			}

			count, err := target.Clear(ctx)
			if err != nil {
				return err
			}
			printSuccess(c.Stdout, "Cleared %d cached entries", count)
			printDetail(c.Stdout, "Location: %s", where)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := c.loadConfig(cmd.Context(), cmd)
			if err != nil {
				return userError(err)
			}
			dir, err := cfg.ResolveCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.Stdout, dir)
			return nil
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/gridwise/layoutkit/internal/api"
)

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var cfg api.Config
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine over HTTP",
		Long: `Serve the layout engine over HTTP.

All engine operations become POST endpoints under /api/v1, taking the
same snapshot and tuning JSON the library takes. Snapshots can be stored
under a name with PUT /api/v1/snapshots/{name} and referenced by later
requests.

Results are cached in Redis when --redis is given, otherwise in the
local file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noCache {
				cfg.CacheDir = ""
				cfg.RedisAddr = ""
			} else if cfg.RedisAddr == "" && cfg.CacheDir == "" {
				dir, err := cacheDir()
				if err == nil {
					cfg.CacheDir = dir
				}
			}

			srv, err := api.NewServer(cmd.Context(), cfg, c.Logger)
			if err != nil {
				return err
			}
			printInfo("Serving on %s", cfg.Addr)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cfg.RedisAddr, "redis", "", "Redis address for shared caching (e.g. localhost:6379)")
	cmd.Flags().StringVar(&cfg.RedisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&cfg.RedisDB, "redis-db", 0, "Redis database index")
	cmd.Flags().StringVar(&cfg.CacheDir, "cache-dir", "", "file cache directory (default: XDG cache dir)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

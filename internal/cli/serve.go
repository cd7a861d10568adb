package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdraw/internal/server"
	"github.com/matzehuels/seqdraw/pkg/buildinfo"
	"github.com/matzehuels/seqdraw/pkg/cache"
	"github.com/matzehuels/seqdraw/pkg/config"
	"github.com/matzehuels/seqdraw/pkg/observability"
	"github.com/matzehuels/seqdraw/pkg/pipeline"
	"github.com/matzehuels/seqdraw/pkg/store"
)

type serveOpts struct {
	addr     string
	redisURL string
	mongoURI string
	sets     []string
	noCache  bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP preview service",
		Long: `Run the HTTP preview service.

Editors post the current source to /render on every keystroke and show the
returned markup. Shared diagrams are kept under /diagrams. Backends are
chosen from the server section of the config file or the flags below:

  redis_url   artifact cache and diagram store (unless mongo_uri is set)
  mongo_uri   diagram store
  neither     local file cache and in-memory store`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(opts.sets)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Server.Addr = opts.addr
			}
			if flags.Changed("redis-url") {
				cfg.Server.RedisURL = opts.redisURL
			}
			if flags.Changed("mongo-uri") {
				cfg.Server.MongoURI = opts.mongoURI
			}
			return c.runServe(cmd.Context(), cfg, opts.noCache)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "redis:// URL for the cache and store")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "mongodb:// URI for the diagram store")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "override a config key (key=value, repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, noCache bool) error {
	logger := loggerFromContext(ctx)

	artifacts, keyer, err := serverCache(ctx, cfg.Server, noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(artifacts, keyer, logger)
	defer runner.Close()

	st, err := serverStore(ctx, cfg.Server)
	if err != nil {
		return err
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observability.NewMetrics(reg).Install()
	defer observability.Reset()

	srv := server.New(runner, st, cfg, logger)
	srv.Gatherer = reg

	printInfo("Preview service on %s", StyleHighlight.Render(cfg.Server.Addr))
	printDetail("cache: %T, store: %T", artifacts, st)
	return srv.Run(ctx, cfg.Server.Addr)
}

// serverCache picks the artifact cache. A shared Redis cache scopes keys by
// version so that instances running different releases never exchange
// artifacts.
func serverCache(ctx context.Context, sc config.Server, noCache bool) (cache.Cache, cache.Keyer, error) {
	switch {
	case noCache:
		return cache.NewNullCache(), nil, nil
	case sc.RedisURL != "":
		rc, err := cache.NewRedisCacheFromURL(ctx, sc.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":"), nil
	default:
		c, err := newCache(false)
		return c, nil, err
	}
}

func serverStore(ctx context.Context, sc config.Server) (store.Store, error) {
	switch {
	case sc.MongoURI != "":
		st, err := store.NewMongo(ctx, sc.MongoURI, sc.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("diagram store: %w", err)
		}
		return st, nil
	case sc.RedisURL != "":
		st, err := store.NewRedisFromURL(ctx, sc.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("diagram store: %w", err)
		}
		return st, nil
	default:
		return store.NewMemory(), nil
	}
}

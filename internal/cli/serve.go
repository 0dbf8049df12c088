package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestmap/pkg/cache"
	"github.com/matzehuels/nestmap/pkg/pipeline"
	"github.com/matzehuels/nestmap/pkg/store"

	"github.com/matzehuels/nestmap/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		cacheKind string
		redisAddr string
		storeKind string
		mongoURI  string
		mongoDB   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

The server accepts weighted trees over JSON, lays them out, persists the
results, and re-renders stored layouts at any viewport.

Backends:
  --cache file (default), redis, none
  --store memory (default), mongo

The server runs until interrupted and shuts down gracefully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, cacheKind, redisAddr, storeKind, mongoURI, mongoDB)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cacheKind, "cache", "file", "cache backend: file, redis, none")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address (with --cache redis)")
	cmd.Flags().StringVar(&storeKind, "store", "memory", "layout store: memory, mongo")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB URI (with --store mongo)")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "nestmap", "MongoDB database (with --store mongo)")

	return cmd
}

// runServe wires the selected backends and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, cacheKind, redisAddr, storeKind, mongoURI, mongoDB string) error {
	resultCache, err := c.serveCache(ctx, cacheKind, redisAddr)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer resultCache.Close()

	layoutStore, err := c.serveStore(ctx, storeKind, mongoURI, mongoDB)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := layoutStore.Close(closeCtx); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()

	runner := pipeline.NewRunner(resultCache, nil, c.Logger)
	srv := server.New(server.Config{Addr: addr}, runner, layoutStore, c.Logger)

	c.Logger.Info("serving", "addr", addr, "cache", cacheKind, "store", storeKind)
	return srv.ListenAndServe(ctx)
}

func (c *CLI) serveCache(ctx context.Context, kind, redisAddr string) (cache.Cache, error) {
	switch kind {
	case "file":
		dir, err := cacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", kind)
	}
}

func (c *CLI) serveStore(ctx context.Context, kind, mongoURI, mongoDB string) (store.Store, error) {
	switch kind {
	case "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI, Database: mongoDB})
	default:
		return nil, fmt.Errorf("unknown layout store: %s", kind)
	}
}

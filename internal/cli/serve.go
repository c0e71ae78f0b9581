package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/polisher/pkg/cache"
	"github.com/matzehuels/polisher/pkg/observability"
	"github.com/matzehuels/polisher/pkg/pipeline"
	"github.com/matzehuels/polisher/pkg/reportstore"
	"github.com/matzehuels/polisher/pkg/server"
)

// serveMemoryEntries bounds the in-process result cache of the server.
const serveMemoryEntries = 256

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr      string
	redisAddr string
	mongoURI  string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve brand listing, styling and validation over HTTP.

Styled documents are cached in Redis when --redis is set and in process
memory otherwise. Run records go to MongoDB when --mongo is set and are kept in
memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address for the result cache")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for run records")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := c.config()
	logger := loggerFromContext(ctx)
	if opts.addr == "" {
		opts.addr = cfg.Server.Addr
	}
	if opts.redisAddr == "" {
		opts.redisAddr = cfg.Server.RedisAddr
	}
	if opts.mongoURI == "" {
		opts.mongoURI = cfg.Server.MongoURI
	}

	observability.NewLogHooks(logger).Install()

	reg, err := c.registry()
	if err != nil {
		return err
	}
	v, err := c.validator()
	if err != nil {
		return err
	}

	var ch cache.Cache
	if opts.redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, opts.redisAddr, cache.WithPrefix("polisher:"))
		if err != nil {
			return err
		}
		logger.Info("using redis cache", "addr", opts.redisAddr)
		ch = rc
	} else if cfg.NoCache {
		ch = cache.Disabled()
	} else {
		ch = cache.NewMemoryCache(serveMemoryEntries)
	}

	runner := pipeline.NewRunner(reg, ch, nil, logger)
	runner.Validator = v
	defer runner.Close()

	var store reportstore.Store
	if opts.mongoURI != "" {
		ms, err := reportstore.NewMongoStore(ctx, opts.mongoURI, cfg.Server.MongoDB)
		if err != nil {
			return err
		}
		logger.Info("using mongodb run store", "db", cfg.Server.MongoDB)
		store = ms
	} else {
		store = reportstore.NewMemoryStore(0)
	}
	defer store.Close()

	srv := server.New(runner,
		server.WithStore(store),
		server.WithLogger(logger),
		server.WithMaxUpload(int64(cfg.Server.MaxUploadMB)<<20),
		server.WithTimeout(time.Duration(cfg.Server.TimeoutSeconds)*time.Second),
	)
	logger.Debug("brands loaded", "count", reg.Len())
	return srv.ListenAndServe(ctx, opts.addr)
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nloeffler/chaosgame/internal/server"
	apperrors "github.com/nloeffler/chaosgame/pkg/errors"
	"github.com/nloeffler/chaosgame/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string // listen address
	storeKind     string // snapshot store backend
	storeDir      string // file store directory override
	redisAddr     string // redis connection address
	redisPassword string // redis auth
	redisDB       int    // redis database number
	mongoURI      string // mongodb connection URI
	mongoDB       string // mongodb database name
	maxBatch      int    // per-request point cap
}

// serveCommand creates the serve command for the session HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      server.DefaultAddr,
		storeKind: string(store.KindMemory),
		redisAddr: "localhost:6379",
		mongoDB:   store.DefaultMongoDatabase,
		maxBatch:  server.DefaultMaxBatch,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chaos game sessions over HTTP",
		Long: `Serve the session API over HTTP.

Clients create sessions from a configuration or a preset, advance them
with generate requests, and read back the new points and colors. A
snapshot goes to the selected store after every batch, so a restarted
server resumes sessions transparently on their next request.

Store backends:
  memory   in-process only, lost on restart (default)
  file     JSON files under ~/.config/chaosgame/sessions
  redis    shared across instances
  mongo    durable server deployments`,
		Example: `  # Local server with in-memory snapshots
  chaosgame serve

  # Survive restarts via the file store
  chaosgame serve --store file

  # Shared store for two instances behind a load balancer
  chaosgame serve --addr :9000 --store redis --redis-addr cache:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.storeKind, "store", opts.storeKind, "snapshot store: memory, file, redis, mongo")
	cmd.Flags().StringVar(&opts.storeDir, "store-dir", "", "directory for the file store (default ~/.config/chaosgame/sessions)")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", opts.redisAddr, "redis address")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "mongodb connection URI")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "mongodb database name")
	cmd.Flags().IntVar(&opts.maxBatch, "max-batch", opts.maxBatch, "max points per generate request (negative = uncapped)")

	return cmd
}

// runServe opens the snapshot store and blocks in the HTTP server until
// the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	if err := apperrors.ValidateListenAddr(opts.addr); err != nil {
		return err
	}

	kind := store.Kind(opts.storeKind)
	if !store.ValidKinds[kind] {
		return fmt.Errorf("invalid store: %s (must be 'memory', 'file', 'redis', or 'mongo')", opts.storeKind)
	}

	st, err := store.Open(ctx, store.Config{
		Kind:          kind,
		Dir:           opts.storeDir,
		RedisAddr:     opts.redisAddr,
		RedisPassword: opts.redisPassword,
		RedisDB:       opts.redisDB,
		MongoURI:      opts.mongoURI,
		MongoDatabase: opts.mongoDB,
	})
	if err != nil {
		return fmt.Errorf("open %s store: %w", kind, err)
	}
	defer st.Close()

	printInfo("Serving the chaos game API")
	printDetail("Address: %s", opts.addr)
	printDetail("Store: %s", kind)
	printNewline()

	srv := server.New(st, server.Config{Addr: opts.addr, MaxBatch: opts.maxBatch}, c.Logger)
	return srv.Run(ctx)
}

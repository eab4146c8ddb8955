package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codecity/internal/api"
	"github.com/matzehuels/codecity/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Layouts created through the API are kept in memory unless a MongoDB URI is
configured (--mongo-uri or store.mongo_uri). Packing and rendering share the
configured cache with the CLI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().String("addr", "", "listen address (default: :8080)")
	cmd.Flags().String("mongo-uri", "", "MongoDB URI for stored layouts (default: in memory)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	cfg := c.config()

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := c.newRunner(ctx)
	defer runner.Close()

	srv := api.New(runner, st, api.Options{
		Defaults:     c.pipelineOptions(),
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Logger:       c.Logger,
	})

	printInfo("Serving on %s", cfg.Server.Addr)
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}

// openStore returns the configured layout store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg := c.config().Store
	if cfg.MongoURI == "" {
		c.Logger.Debug("storing layouts in memory")
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.MongoURI, Database: cfg.Database})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	c.Logger.Debug("storing layouts in mongodb", "database", cfg.Database)
	return st, nil
}

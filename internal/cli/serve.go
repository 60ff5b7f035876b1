package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawforge/internal/api"
	"github.com/matzehuels/drawforge/pkg/cache"
	"github.com/matzehuels/drawforge/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Long: `Run the HTTP rendering API.

POST /v1/diagrams accepts a diagram description and returns the rendered
document. Artifacts are cached by content hash; by default a file cache
under the user cache directory is used, or Redis when --redis is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := serveCache(cmd.Context(), redisURL, noCache)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}

			runner := pipeline.NewRunner(store, nil, c.Logger)
			defer runner.Close()

			return c.runServe(cmd.Context(), addr, api.New(runner, c.Logger))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for shared caching (e.g. redis://localhost:6379/0)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// serveCache picks the cache backend for the server.
func serveCache(ctx context.Context, redisURL string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		return cache.NewRedisCache(ctx, redisURL)
	}
	return newCache(false)
}

// runServe starts the HTTP server and shuts it down when ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, srv *api.Server) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Logger.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

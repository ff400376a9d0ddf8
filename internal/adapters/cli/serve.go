package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/minsukang/tripweaver/internal/adapters/httpapi"
	"github.com/minsukang/tripweaver/internal/adapters/persistence"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP planning service",
		Long: `Start the HTTP API: POST /v1/plan accepts a trip request and returns the
planned itinerary, GET /healthz reports router health. Segment costs are
persisted and reused across restarts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := BuildContainer(configPath, true)
			if err != nil {
				return err
			}
			defer c.Close()

			// Warm the segment cache from the store so a restart does not
			// refetch everything
			store := persistence.NewGormSegmentRepository(c.DB, c.Config.Router.Cache.TTL, nil)
			if entries, err := store.FreshEntries(cmd.Context()); err == nil && len(entries) > 0 {
				c.Router.Warm(entries)
				c.Logger.Log("INFO", "Warmed segment cache from store", map[string]interface{}{
					"entries": len(entries),
				})
			}

			server := httpapi.NewServer(c.Service, c.Router, c.TripRepo, c.Logger, c.Config.Server)
			httpServer := &http.Server{
				Addr:         c.Config.Server.Address,
				Handler:      server.Handler(),
				ReadTimeout:  c.Config.Server.ReadTimeout,
				WriteTimeout: c.Config.Server.WriteTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Log("INFO", "HTTP server listening", map[string]interface{}{
					"address": c.Config.Server.Address,
				})
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
				c.Logger.Log("INFO", "Shutting down", nil)
				shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Config.Server.ShutdownTimeout)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			}
		},
	}

	return cmd
}

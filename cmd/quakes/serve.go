package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/quake-impact/internal/adapter/http"
	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/geo"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the nearby-city and summary API over HTTP",
	Long:  "Starts listening immediately and loads the catalogs in the background; /readyz reports 503 until loading finishes.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store := &httpadapter.Store{}
		srv := httpadapter.NewServer(cfg.HTTPAddr, store, logger, metrics)

		// Start HTTP server.
		errc := make(chan error, 2)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()

		// Load catalogs.
		go func() {
			cats, err := loadCatalogs(ctx)
			if err != nil {
				errc <- err
				return
			}
			searcher := geo.NewCachedSearcher(geo.NewIndex(cats.Cities, metrics), cfg.NearbyCacheSize, metrics)
			store.Set(&httpadapter.Dataset{
				Quakes:   domain.Entries(cats.Quakes),
				Cities:   cats.Cities.Len(),
				Searcher: searcher,
				Analyzer: newAnalyzer(searcher),
			})
			logger.Info("ready to serve", "nearby_cache_size", cfg.NearbyCacheSize)
		}()

		var runErr error
		select {
		case <-ctx.Done():
		case runErr = <-errc:
		}
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}

		logger.Info("shutdown complete")
		return runErr
	},
}

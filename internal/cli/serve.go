package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hirememorey/resilience-basketball-sub004/internal/api"
	"github.com/hirememorey/resilience-basketball-sub004/internal/providers"
	"github.com/hirememorey/resilience-basketball-sub004/internal/services"
)

// ServeCmd runs the read-only reporting API, with an optional cron refresh
// that re-ingests the configured seasons on an interval.
func ServeCmd() *cobra.Command {
	var refreshSeasons []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reporting API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp()
			if err != nil {
				return err
			}
			defer cleanup()

			if a.cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}

			router := gin.New()
			router.Use(gin.Recovery())
			api.SetupRoutes(router.Group("/api/v1"), a.store, a.cfg, a.logger)

			var scheduler *services.RefreshScheduler
			if len(refreshSeasons) > 0 {
				cache, err := a.newCache()
				if err != nil {
					return err
				}
				client := providers.NewStatsClient(a.cfg, cache, a.logger)
				ingestor := services.NewIngestor(a.cfg, client, a.logger)

				scheduler = services.NewRefreshScheduler(a.cfg, func() {
					ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
					defer cancel()
					population, _ := ingestor.Ingest(ctx, refreshSeasons, 0)
					if len(population) == 0 {
						return
					}
					if _, err := a.pipeline.BuildDataset(ctx, population, a.cfg.IngestWorkers); err != nil {
						a.logger.Errorf("Scheduled refresh failed: %v", err)
					}
				}, a.logger)
				if err := scheduler.Start(); err != nil {
					return err
				}
				defer scheduler.Stop()
			}

			srv := &http.Server{
				Addr:    ":" + a.cfg.Port,
				Handler: router,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.WithField("port", a.cfg.Port).Info("Reporting API listening")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			a.logger.Info("Shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringSliceVar(&refreshSeasons, "refresh-season", nil, "season IDs to re-ingest on the refresh interval")
	return cmd
}

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jobdesk/internal/bootstrap"
	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/errs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API (and the scheduler when enabled)",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = app.Config.HTTP.Addr
		}
		withScheduler, _ := cmd.Flags().GetBool("scheduler")

		runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if withScheduler && app.Config.Scheduler.Enabled {
			app.Scheduler.Start()
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := app.Scheduler.Stop(stopCtx); err != nil {
					logging.Error(ctx, "stop scheduler failed", slog.Any("err", errs.Loggable(err)))
				}
			}()
		}

		if app.Config.Filters.PresetsFile != "" {
			if err := app.JobOrders.WatchPresets(runCtx, app.Config.Filters.PresetsFile); err != nil {
				logging.Warn(ctx, "presets hot reload disabled", slog.Any("err", errs.Loggable(err)))
			}
		}

		server := &http.Server{
			Addr:              addr,
			Handler:           app.Handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		serveErr := make(chan error, 1)
		go func() {
			logging.Info(ctx, "http server listening", slog.String("addr", addr))
			serveErr <- server.ListenAndServe()
		}()

		select {
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return errs.Wrap(err, "serve http")
		case <-runCtx.Done():
		}

		logging.Info(ctx, "shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errs.Wrap(server.Shutdown(shutdownCtx), "shutdown http server")
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default http.addr)")
	serveCmd.Flags().Bool("scheduler", true, "Also run the maintenance scheduler")
}

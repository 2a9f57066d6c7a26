package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jobdesk/internal/bootstrap"
	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/errs"
	"jobdesk/internal/infrastructure/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the maintenance scheduler until interrupted",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if !app.Config.Scheduler.Enabled {
			return errors.New("scheduler is disabled (scheduler.enabled=false)")
		}

		if last, found, err := app.Hauling.LastAutocomplete(ctx); err != nil {
			logging.Warn(ctx, "read last hauling auto-completion failed", slog.Any("err", errs.Loggable(err)))
		} else if found {
			logging.Info(ctx, "last hauling auto-completion", slog.Time("at", last))
		}

		runNow, _ := cmd.Flags().GetBool("run-now")
		if runNow {
			if err := app.Scheduler.RunNow(scheduler.HaulingAutocompleteJob); err != nil {
				return err
			}
		}

		runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app.Scheduler.Start()
		if next, err := app.Scheduler.Next(scheduler.HaulingAutocompleteJob); err == nil && !next.IsZero() {
			logging.Info(ctx, "next hauling auto-completion", slog.Time("at", next))
		}

		<-runCtx.Done()
		logging.Info(ctx, "shutting down scheduler")

		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return errs.Wrap(app.Scheduler.Stop(stopCtx), "stop scheduler")
	}),
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().Bool("run-now", false, "Run hauling auto-completion once before waiting for the schedule")
}

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"jobdesk/internal/bootstrap"
	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/errs"
	"jobdesk/internal/usecase/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference data and sample job orders from a YAML file",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		file, _ := cmd.Flags().GetString("file")
		migrate, _ := cmd.Flags().GetBool("migrate")

		if migrate {
			if err := app.InitSchema(ctx); err != nil {
				return errs.Wrap(err, "initialize schema")
			}
		}

		ds, err := seed.LoadDataset(file)
		if err != nil {
			return err
		}
		summary, err := app.Seed.Apply(ctx, ds)
		if err != nil {
			logging.Error(ctx, "seed failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "apply seed dataset")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(),
			"seeded positions=%d users=%d employees=%d trucks=%d job_orders=%d hauling_records=%d\n",
			summary.Positions, summary.Users, summary.Employees, summary.Trucks, summary.JobOrders, summary.HaulingRecords,
		); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("file", "configs/seed.yaml", "Seed dataset (YAML)")
	seedCmd.Flags().Bool("migrate", true, "Run schema migration before seeding")
}

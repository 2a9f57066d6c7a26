package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"jobdesk/internal/bootstrap"
	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
	"jobdesk/internal/usecase/hauling"
)

var haulingCmd = &cobra.Command{
	Use:   "hauling",
	Short: "Schedule hauling records and run their maintenance",
}

var haulingCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Schedule a hauling record under a Form3",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		form3ID, _ := cmd.Flags().GetUint64("form3")
		truckID, _ := cmd.Flags().GetUint64("truck")
		date, _ := cmd.Flags().GetString("date")
		status, _ := cmd.Flags().GetString("status")
		weight, _ := cmd.Flags().GetString("weight")

		input := hauling.CreateRecordInput{Form3ID: form3ID, Date: date, Status: status, WeightTons: weight}
		if truckID != 0 {
			input.TruckID = &truckID
		}

		record, err := app.Hauling.CreateHaulingRecord(ctx, input)
		if err != nil {
			logging.Error(ctx, "create hauling record failed", slog.Any("err", errs.Loggable(err)))
			if record.ID != 0 {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "hauling record %d was stored, but its incident draft failed\n", record.ID)
			}
			return errs.Wrap(err, "create hauling record")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "created hauling record %d for job order %d on %s\n", record.ID, record.JobOrderID, record.Date); err != nil {
			return errs.Wrap(err, "write create output")
		}
		return nil
	}),
}

var haulingCompleteOverdueCmd = &cobra.Command{
	Use:   "complete-overdue",
	Short: "Mark this year's past hauling records as Done",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		res, err := app.Hauling.CompleteOverdue(ctx)
		if err != nil {
			logging.Error(ctx, "complete overdue hauling failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "complete overdue hauling")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "completed %d hauling record(s) in %d batch(es), window %s..%s\n",
			res.Completed, res.Batches, res.Window.YearStart, res.Window.Today); err != nil {
			return errs.Wrap(err, "write complete-overdue output")
		}
		return nil
	}),
}

var incidentCmd = &cobra.Command{
	Use:   "incident",
	Short: "List and acknowledge incident reports",
}

var incidentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List incidents with filters",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		statuses, _ := cmd.Flags().GetStringSlice("status")
		jobOrders, _ := cmd.Flags().GetUintSlice("job-order")
		records, _ := cmd.Flags().GetUintSlice("hauling-record")
		unread, _ := cmd.Flags().GetBool("unread")

		res, err := app.Hauling.ListIncidents(ctx, ports.IncidentFilter{
			Statuses:         statuses,
			JobOrderIDs:      toUint64s(jobOrders),
			HaulingRecordIDs: toUint64s(records),
			Created:          dateRangeFromFlags(cmd, "created"),
			UnreadOnly:       unread,
		}, pageFromFlags(cmd))
		if err != nil {
			logging.Error(ctx, "list incidents failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list incidents")
		}

		rows := make([][]string, 0, len(res.Items))
		for _, i := range res.Items {
			read := "no"
			if i.IsRead {
				read = "yes"
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", i.ID),
				fmt.Sprintf("%d", i.HaulingRecordID),
				i.Status,
				read,
				i.Subject,
			})
		}
		return writeRows(cmd, res, []string{"ID", "HAULING", "STATUS", "READ", "SUBJECT"}, rows, res.Total, res.Page)
	}),
}

var incidentReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark an incident as read",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, err := parseID(cmd.Flags().Arg(0), "incident id")
		if err != nil {
			return err
		}
		if err := app.Hauling.MarkIncidentRead(ctx, id); err != nil {
			logging.Error(ctx, "mark incident read failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "mark incident read")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "incident %d marked read\n", id); err != nil {
			return errs.Wrap(err, "write read output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(haulingCmd, incidentCmd)

	haulingCmd.AddCommand(haulingCreateCmd, haulingCompleteOverdueCmd)
	haulingCreateCmd.Flags().Uint64("form3", 0, "Form3 id the record belongs to")
	haulingCreateCmd.Flags().Uint64("truck", 0, "Truck id")
	haulingCreateCmd.Flags().String("date", "", "Hauling day (YYYY-MM-DD)")
	haulingCreateCmd.Flags().String("status", "", "Pending|In Transit|Done (default Pending)")
	haulingCreateCmd.Flags().String("weight", "", "Weight in tons")
	_ = haulingCreateCmd.MarkFlagRequired("form3")
	_ = haulingCreateCmd.MarkFlagRequired("date")

	incidentCmd.AddCommand(incidentListCmd, incidentReadCmd)
	incidentListCmd.Flags().StringSlice("status", nil, "Draft|Submitted")
	incidentListCmd.Flags().UintSlice("job-order", nil, "Job order ids")
	incidentListCmd.Flags().UintSlice("hauling-record", nil, "Hauling record ids")
	incidentListCmd.Flags().Bool("unread", false, "Only unread incidents")
	dateRangeFlags(incidentListCmd, "created", "Created")
	addListFlags(incidentListCmd)
}

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"jobdesk/internal/bootstrap"
	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
	"jobdesk/internal/usecase/joborders"
)

var correctionCmd = &cobra.Command{
	Use:   "correction",
	Short: "List and resolve job order correction requests",
}

var correctionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List correction requests with filters",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		search, _ := cmd.Flags().GetString("search")
		statuses, _ := cmd.Flags().GetStringSlice("status")
		creators, _ := cmd.Flags().GetUintSlice("created-by")
		jobOrders, _ := cmd.Flags().GetUintSlice("job-order")
		latest, _ := cmd.Flags().GetBool("latest")

		res, err := app.JobOrders.ListCorrections(ctx, callerFromFlags(cmd), ports.CorrectionFilter{
			Search:      search,
			Statuses:    statuses,
			CreatorIDs:  toUint64s(creators),
			JobOrderIDs: toUint64s(jobOrders),
			Created:     dateRangeFromFlags(cmd, "created"),
			LatestOnly:  latest,
		}, pageFromFlags(cmd))
		if err != nil {
			logging.Error(ctx, "list corrections failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list corrections")
		}

		rows := make([][]string, 0, len(res.Items))
		for _, c := range res.Items {
			rows = append(rows, []string{
				fmt.Sprintf("%d", c.ID),
				c.TicketNumber,
				string(c.Status),
				orDash(c.CreatorName),
				c.CreatedAt.Format("2006-01-02 15:04"),
				orDash(c.Reason),
			})
		}
		return writeRows(cmd, res, []string{"ID", "TICKET", "STATUS", "REQUESTED BY", "CREATED", "REASON"}, rows, res.Total, res.Page)
	}),
}

var correctionRequestCmd = &cobra.Command{
	Use:   "request <ticket>",
	Short: "Request a correction on a job order",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		caller := callerFromFlags(cmd)
		if caller == nil {
			return errs.Invalid("as-employee", "--as-employee is required")
		}
		reason, _ := cmd.Flags().GetString("reason")

		correction, err := app.JobOrders.RequestCorrection(ctx, *caller, joborders.RequestCorrectionInput{
			Ticket: cmd.Flags().Arg(0),
			Reason: reason,
		})
		if err != nil {
			logging.Error(ctx, "request correction failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "request correction")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "requested correction %d on %s\n", correction.ID, correction.TicketNumber); err != nil {
			return errs.Wrap(err, "write request output")
		}
		return nil
	}),
}

var correctionResolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Approve or reject a pending correction request",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, err := parseID(cmd.Flags().Arg(0), "correction id")
		if err != nil {
			return err
		}
		status, _ := cmd.Flags().GetString("status")

		correction, err := app.JobOrders.ResolveCorrection(ctx, id, status)
		if err != nil {
			logging.Error(ctx, "resolve correction failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "resolve correction")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "correction %d is %s\n", correction.ID, correction.Status); err != nil {
			return errs.Wrap(err, "write resolve output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(correctionCmd)

	correctionCmd.AddCommand(correctionListCmd)
	correctionListCmd.Flags().String("search", "", "Match requester name, ticket number or reason")
	correctionListCmd.Flags().StringSlice("status", nil, "Statuses (pending|approved|rejected)")
	correctionListCmd.Flags().UintSlice("created-by", nil, "Requester employee ids")
	correctionListCmd.Flags().UintSlice("job-order", nil, "Job order ids")
	correctionListCmd.Flags().Bool("latest", false, "Only the latest request per job order")
	dateRangeFlags(correctionListCmd, "created", "Created")
	addListFlags(correctionListCmd)
	addCallerFlags(correctionListCmd)

	correctionCmd.AddCommand(correctionRequestCmd)
	correctionRequestCmd.Flags().String("reason", "", "Why the job order needs a correction")
	addCallerFlags(correctionRequestCmd)
	_ = correctionRequestCmd.MarkFlagRequired("reason")

	correctionCmd.AddCommand(correctionResolveCmd)
	correctionResolveCmd.Flags().String("status", "", "approved|rejected")
	_ = correctionResolveCmd.MarkFlagRequired("status")
}

package cmd

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"jobdesk/internal/bootstrap"
	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/domain/joborder"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
	"jobdesk/internal/usecase/joborders"
)

var jobOrderCmd = &cobra.Command{
	Use:     "joborder",
	Aliases: []string{"jo"},
	Short:   "List and manage job orders",
}

var jobOrderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job orders with filters",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		search, _ := cmd.Flags().GetString("search")
		serviceTypes, _ := cmd.Flags().GetStringSlice("service-type")
		statuses, _ := cmd.Flags().GetStringSlice("status")
		creators, _ := cmd.Flags().GetUintSlice("created-by")
		onlyArchived, _ := cmd.Flags().GetBool("only-archived")
		sortBy, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")
		preset, _ := cmd.Flags().GetString("preset")

		filter := ports.JobOrderFilter{
			Search:       search,
			ServiceTypes: serviceTypes,
			Statuses:     statuses,
			CreatorIDs:   toUint64s(creators),
			Created:      dateRangeFromFlags(cmd, "created"),
			Archived:     dateRangeFromFlags(cmd, "archived"),
			OnlyArchived: onlyArchived,
			Sort:         ports.Sort{Field: sortBy, Desc: desc},
		}
		page := pageFromFlags(cmd)

		var (
			res ports.PageResult[joborder.JobOrder]
			err error
		)
		if preset != "" {
			res, err = app.JobOrders.ListWithPreset(ctx, callerFromFlags(cmd), preset, filter, page)
		} else {
			res, err = app.JobOrders.ListJobOrders(ctx, callerFromFlags(cmd), filter, page)
		}
		if err != nil {
			logging.Error(ctx, "list job orders failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list job orders")
		}

		rows := make([][]string, 0, len(res.Items))
		for _, j := range res.Items {
			archived := "-"
			if j.ArchivedAt != nil {
				archived = j.ArchivedAt.Format("2006-01-02")
			}
			rows = append(rows, []string{
				j.TicketNumber,
				string(j.ServiceType),
				string(j.Status),
				orDash(j.CreatorName),
				j.CreatedAt.Format("2006-01-02 15:04"),
				archived,
				orDash(j.Description),
			})
		}
		return writeRows(cmd, res, []string{"TICKET", "SERVICE", "STATUS", "CREATOR", "CREATED", "ARCHIVED", "DESCRIPTION"}, rows, res.Total, res.Page)
	}),
}

var jobOrderCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "File a pending job order",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		caller := callerFromFlags(cmd)
		if caller == nil {
			return errs.Invalid("as-employee", "--as-employee is required")
		}
		serviceType, _ := cmd.Flags().GetString("service-type")
		description, _ := cmd.Flags().GetString("description")
		location, _ := cmd.Flags().GetString("location")

		job, err := app.JobOrders.CreateJobOrder(ctx, *caller, joborders.CreateJobOrderInput{
			ServiceType: serviceType,
			Description: description,
			Location:    location,
		})
		if err != nil {
			logging.Error(ctx, "create job order failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "create job order")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "created job order: %s\n", job.TicketNumber); err != nil {
			return errs.Wrap(err, "write create output")
		}
		return nil
	}),
}

func newJobOrderArchiveCmd(archive bool) *cobra.Command {
	use, short, verb := "archive", "Archive a job order", "archived"
	if !archive {
		use, short, verb = "restore", "Restore an archived job order", "restored"
	}

	return &cobra.Command{
		Use:   use + " <ticket>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

			ticket := cmd.Flags().Arg(0)
			var err error
			if archive {
				_, err = app.JobOrders.ArchiveJobOrder(ctx, ticket)
			} else {
				_, err = app.JobOrders.RestoreJobOrder(ctx, ticket)
			}
			if err != nil {
				logging.Error(ctx, use+" job order failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrapf(err, "%s job order", use)
			}

			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s job order: %s\n", verb, ticket); err != nil {
				return errs.Wrapf(err, "write %s output", use)
			}
			return nil
		}),
	}
}

var jobOrderPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Show the configured job order list presets",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		presets := app.JobOrders.Presets()
		rows := make([][]string, 0, len(presets))
		for _, name := range presets.Names() {
			rows = append(rows, []string{name, orDash(presets[name].Description)})
		}
		return writeTable(cmd.OutOrStdout(), []string{"PRESET", "DESCRIPTION"}, rows)
	}),
}

func toUint64s(values []uint) []uint64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]uint64, 0, len(values))
	for _, v := range values {
		out = append(out, uint64(v))
	}
	return out
}

func parseID(raw string, what string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Invalid(what, "invalid %s %q", what, raw)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(jobOrderCmd)

	jobOrderCmd.AddCommand(jobOrderListCmd)
	jobOrderListCmd.Flags().String("search", "", "Match ticket number, description or location")
	jobOrderListCmd.Flags().StringSlice("service-type", nil, "Service types (waste_management|it_services|other)")
	jobOrderListCmd.Flags().StringSlice("status", nil, "Statuses (pending|in_progress|completed|cancelled)")
	jobOrderListCmd.Flags().UintSlice("created-by", nil, "Creator employee ids")
	dateRangeFlags(jobOrderListCmd, "created", "Created")
	dateRangeFlags(jobOrderListCmd, "archived", "Archived")
	jobOrderListCmd.Flags().Bool("only-archived", false, "Only archived job orders")
	jobOrderListCmd.Flags().String("sort", "", "Sort field (created|updated|status|service_type|ticket)")
	jobOrderListCmd.Flags().Bool("desc", false, "Sort descending")
	jobOrderListCmd.Flags().String("preset", "", "Named filter preset from filters.presets_file")
	addListFlags(jobOrderListCmd)
	addCallerFlags(jobOrderListCmd)

	jobOrderCmd.AddCommand(jobOrderCreateCmd)
	jobOrderCreateCmd.Flags().String("service-type", "", "Service type")
	jobOrderCreateCmd.Flags().String("description", "", "Description")
	jobOrderCreateCmd.Flags().String("location", "", "Location")
	addCallerFlags(jobOrderCreateCmd)
	_ = jobOrderCreateCmd.MarkFlagRequired("service-type")

	jobOrderCmd.AddCommand(newJobOrderArchiveCmd(true), newJobOrderArchiveCmd(false), jobOrderPresetsCmd)
}

package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"jobdesk/internal/bootstrap"
	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

var employeeCmd = &cobra.Command{
	Use:   "employee",
	Short: "List and archive employees",
}

var employeeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees with filters",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		search, _ := cmd.Flags().GetString("search")
		positions, _ := cmd.Flags().GetUintSlice("position")
		accounts, _ := cmd.Flags().GetStringSlice("account-status")
		onlyArchived, _ := cmd.Flags().GetBool("only-archived")

		res, err := app.Workforce.ListEmployees(ctx, ports.EmployeeFilter{
			Search:          search,
			PositionIDs:     toUint64s(positions),
			AccountStatuses: accounts,
			Created:         dateRangeFromFlags(cmd, "created"),
			Archived:        dateRangeFromFlags(cmd, "archived"),
			OnlyArchived:    onlyArchived,
		}, pageFromFlags(cmd))
		if err != nil {
			logging.Error(ctx, "list employees failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list employees")
		}

		rows := make([][]string, 0, len(res.Items))
		for _, e := range res.Items {
			rows = append(rows, []string{
				fmt.Sprintf("%d", e.ID),
				e.FullName(),
				orDash(e.PositionName),
				orDash(e.Email),
				orDash(e.ContactNumber),
				string(e.AccountStatus),
			})
		}
		return writeRows(cmd, res, []string{"ID", "NAME", "POSITION", "EMAIL", "CONTACT", "ACCOUNT"}, rows, res.Total, res.Page)
	}),
}

var employeeArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive an employee",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, err := parseID(cmd.Flags().Arg(0), "employee id")
		if err != nil {
			return err
		}
		if err := app.Workforce.ArchiveEmployee(ctx, id); err != nil {
			logging.Error(ctx, "archive employee failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "archive employee")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "archived employee: %d\n", id); err != nil {
			return errs.Wrap(err, "write archive output")
		}
		return nil
	}),
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "List user accounts",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users with filters",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		search, _ := cmd.Flags().GetString("search")
		roles, _ := cmd.Flags().GetStringSlice("has-role")
		onlyDeactivated, _ := cmd.Flags().GetBool("only-deactivated")

		res, err := app.Workforce.ListUsers(ctx, ports.UserFilter{
			Search:          search,
			Roles:           roles,
			Created:         dateRangeFromFlags(cmd, "created"),
			Deactivated:     dateRangeFromFlags(cmd, "deactivated"),
			OnlyDeactivated: onlyDeactivated,
		}, pageFromFlags(cmd))
		if err != nil {
			logging.Error(ctx, "list users failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list users")
		}

		rows := make([][]string, 0, len(res.Items))
		for _, u := range res.Items {
			state := "active"
			if !u.Active() {
				state = "deactivated"
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", u.ID),
				u.Name,
				u.Email,
				orDash(strings.Join(u.Roles, ",")),
				state,
			})
		}
		return writeRows(cmd, res, []string{"ID", "NAME", "EMAIL", "ROLES", "STATE"}, rows, res.Total, res.Page)
	}),
}

var truckCmd = &cobra.Command{
	Use:   "truck",
	Short: "List trucks",
}

var truckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trucks with filters",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		search, _ := cmd.Flags().GetString("search")
		onlyArchived, _ := cmd.Flags().GetBool("only-archived")

		res, err := app.Workforce.ListTrucks(ctx, ports.TruckFilter{
			Search:       search,
			Archived:     dateRangeFromFlags(cmd, "archived"),
			OnlyArchived: onlyArchived,
		}, pageFromFlags(cmd))
		if err != nil {
			logging.Error(ctx, "list trucks failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list trucks")
		}

		rows := make([][]string, 0, len(res.Items))
		for _, tr := range res.Items {
			rows = append(rows, []string{
				fmt.Sprintf("%d", tr.ID),
				tr.PlateNumber,
				orDash(tr.Model),
				tr.CapacityTons.StringFixed(2),
			})
		}
		return writeRows(cmd, res, []string{"ID", "PLATE", "MODEL", "CAPACITY (T)"}, rows, res.Total, res.Page)
	}),
}

func init() {
	rootCmd.AddCommand(employeeCmd, userCmd, truckCmd)

	employeeCmd.AddCommand(employeeListCmd, employeeArchiveCmd)
	employeeListCmd.Flags().String("search", "", "Match name, email, contact number or position")
	employeeListCmd.Flags().UintSlice("position", nil, "Position ids")
	employeeListCmd.Flags().StringSlice("account-status", nil, "Account statuses (no_account|active|deactivated)")
	employeeListCmd.Flags().Bool("only-archived", false, "Only archived employees")
	dateRangeFlags(employeeListCmd, "created", "Created")
	dateRangeFlags(employeeListCmd, "archived", "Archived")
	addListFlags(employeeListCmd)

	userCmd.AddCommand(userListCmd)
	userListCmd.Flags().String("search", "", "Match name, email, contact number or position")
	userListCmd.Flags().StringSlice("has-role", nil, "Role names")
	userListCmd.Flags().Bool("only-deactivated", false, "Only deactivated accounts")
	dateRangeFlags(userListCmd, "created", "Created")
	dateRangeFlags(userListCmd, "deactivated", "Deactivated")
	addListFlags(userListCmd)

	truckCmd.AddCommand(truckListCmd)
	truckListCmd.Flags().String("search", "", "Match plate number or model")
	truckListCmd.Flags().Bool("only-archived", false, "Only archived trucks")
	dateRangeFlags(truckListCmd, "archived", "Archived")
	addListFlags(truckListCmd)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jobdesk/internal/domain/workforce"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("per-page", ports.DefaultPageSize, "Page size (max 100)")
	cmd.Flags().String("output", "table", "Output format (table|json)")
}

func addCallerFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("as-employee", 0, "Run as this employee id")
	cmd.Flags().Uint64("as-user", 0, "Run as this user id")
	cmd.Flags().StringSlice("role", nil, "Caller roles (repeatable or comma separated)")
}

func pageFromFlags(cmd *cobra.Command) ports.Page {
	number, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("per-page")
	return ports.Page{Number: number, Size: size}
}

// callerFromFlags returns nil when no caller flag is set, which lists unscoped.
func callerFromFlags(cmd *cobra.Command) *workforce.Caller {
	employee, _ := cmd.Flags().GetUint64("as-employee")
	user, _ := cmd.Flags().GetUint64("as-user")
	roles, _ := cmd.Flags().GetStringSlice("role")
	if employee == 0 && user == 0 && len(roles) == 0 {
		return nil
	}
	return &workforce.Caller{EmployeeID: employee, UserID: user, Roles: roles}
}

func dateRangeFlags(cmd *cobra.Command, prefix string, what string) {
	cmd.Flags().String(prefix+"-from", "", what+" on or after this day (YYYY-MM-DD)")
	cmd.Flags().String(prefix+"-to", "", what+" on or before this day (YYYY-MM-DD)")
}

func dateRangeFromFlags(cmd *cobra.Command, prefix string) ports.DateRange {
	from, _ := cmd.Flags().GetString(prefix + "-from")
	to, _ := cmd.Flags().GetString(prefix + "-to")
	return ports.DateRange{From: strings.TrimSpace(from), To: strings.TrimSpace(to)}
}

// writeRows prints rows as an aligned table, or the raw value as JSON.
func writeRows(cmd *cobra.Command, value any, header []string, rows [][]string, total int64, page ports.Page) error {
	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("output")
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(value); err != nil {
			return errs.Wrap(err, "write json output")
		}
		return nil
	}

	if err := writeTable(out, header, rows); err != nil {
		return err
	}
	page = page.Normalize()
	if _, err := fmt.Fprintf(out, "page %d, %d of %d total\n", page.Number, len(rows), total); err != nil {
		return errs.Wrap(err, "write table footer")
	}
	return nil
}

func writeTable(out io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return errs.Wrap(err, "write table header")
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return errs.Wrap(err, "write table row")
		}
	}
	return errs.Wrap(tw.Flush(), "flush table")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

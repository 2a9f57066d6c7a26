package cmd

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"jobdesk/internal/bootstrap"
	"jobdesk/internal/errs"
	"jobdesk/internal/usecase/console"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Browse job orders in a terminal console",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		search, _ := cmd.Flags().GetString("search")
		pageSize, _ := cmd.Flags().GetInt("per-page")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		if refreshInterval <= 0 {
			refreshInterval = 5 * time.Second
		}

		model := console.NewModel(cmd.Context(), app.JobOrders, console.Options{
			Caller:          callerFromFlags(cmd),
			Search:          search,
			PageSize:        pageSize,
			RefreshInterval: refreshInterval,
			Incidents:       app.Hauling,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run console")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().String("search", "", "Initial search term")
	consoleCmd.Flags().Int("per-page", 15, "Rows per page")
	consoleCmd.Flags().Duration("refresh-interval", 5*time.Second, "Auto refresh interval")
	addCallerFlags(consoleCmd)
}

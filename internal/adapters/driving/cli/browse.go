package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse resource collections interactively",
	Long: `Open a terminal browser over every registered collection.

Controls:
  ↑/k, ↓/j - Move
  Enter    - Open collection or item
  n        - Next page
  /        - Filter
  d        - Delete item
  r        - Reload
  Esc      - Back
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	if facadeService == nil {
		return errors.New("facade service not configured")
	}

	app, err := tui.NewApp(cmd.Context(), &tui.Ports{Facade: facadeService})
	if err != nil {
		return fmt.Errorf("failed to create browser: %w", err)
	}

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}

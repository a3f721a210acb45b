package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var migrationCmd = &cobra.Command{
	Use:   "migration",
	Short: "Control migration jobs",
}

var migrationCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a running migration",
	Args:  cobra.ExactArgs(1),
	RunE:  runMigrationCancel,
}

func init() {
	migrationCmd.AddCommand(migrationCancelCmd)
	rootCmd.AddCommand(migrationCmd)
}

func runMigrationCancel(cmd *cobra.Command, args []string) error {
	if migrationService == nil {
		return errors.New("migration service not configured")
	}
	job, err := migrationService.Cancel(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("cancel failed: %w", err)
	}
	defer printStats(cmd)

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return printJSON(cmd, data)
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials [prefix]",
	Short: "Show resolved credential settings",
	Long: `Show the settings a prefix resolves to after falling back to google.*
and applying defaults. Key file paths are masked.

Without a prefix, list the prefixes present in the configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCredentials,
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the resource collections",
	Args:  cobra.NoArgs,
	RunE:  runResources,
}

func init() {
	rootCmd.AddCommand(credentialsCmd, resourcesCmd)
}

func runCredentials(cmd *cobra.Command, args []string) error {
	if credentialsService == nil {
		return errors.New("credentials service not configured")
	}

	if len(args) == 0 {
		prefixes := credentialsService.Prefixes()
		if len(prefixes) == 0 {
			cmd.Println("No credentials configured.")
			return nil
		}
		for _, p := range prefixes {
			cmd.Println(p)
		}
		return nil
	}

	settings, err := credentialsService.Resolve(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	masked := settings.Masked()
	data, err := json.Marshal(&masked)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := printJSON(cmd, data); err != nil {
		return err
	}
	cmd.Printf("credential kind: %s, substitute: %t\n", masked.Kind(), masked.UseSubstitute())
	return nil
}

func runResources(cmd *cobra.Command, _ []string) error {
	if facadeService == nil {
		return errors.New("facade service not configured")
	}
	for _, info := range facadeService.Resources() {
		parent := ""
		if info.RequiresParent {
			parent = "--parent"
		}
		cmd.Printf("%-26s %-9s %s\n", info.Ref.Key(), parent, info.Description)
	}
	return nil
}

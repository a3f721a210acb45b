// Package cli is the command line driving adapter. Every command works
// through the driving ports, so the same facade can be served from the
// remote Google APIs or the local substitute store.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gfacade/internal/core/ports/driving"
	"github.com/custodia-labs/gfacade/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

var (
	configDir string
	dataDir   string
	verbose   bool
)

// Services installed by SetServices or built by the Opener.
var (
	facadeService      driving.FacadeService
	credentialsService driving.CredentialsService
	messagingService   driving.MessagingService
	migrationService   driving.MigrationService
	requestStats       func() (requests, retries, failures int)
	watchConfig        func(ctx context.Context) error
)

var (
	opener  Opener
	closeFn func() error
)

// Services are the driving ports the commands use. Nil services make the
// commands that need them fail with "... service not configured".
type Services struct {
	Facade      driving.FacadeService
	Credentials driving.CredentialsService
	Messaging   driving.MessagingService
	Migrations  driving.MigrationService
	// Stats reports request counts for the verbose trace.
	Stats func() (requests, retries, failures int)
	// Watch reloads the configuration until ctx is done. Long running
	// commands start it in the background.
	Watch func(ctx context.Context) error
}

// Options are the root flags an Opener receives.
type Options struct {
	ConfigDir string
	DataDir   string
}

// Opener builds the services once the root flags are parsed. The returned
// function releases them when the command finishes.
type Opener func(opts Options) (Services, func() error, error)

var rootCmd = &cobra.Command{
	Use:   "gfacade",
	Short: "Uniform access to Google APIs",
	Long: `gfacade gives Drive, Sheets, Analytics, Pub/Sub, Identity Toolkit,
Firebase Auth and the migration agent API one set of verbs:
get, insert, update, delete, list and download.

Credentials are read from <api>.* properties in config.toml or config.yaml,
falling back to google.*. APIs without credentials are served from a local
substitute store.`,
	SilenceUsage:      true,
	PersistentPreRunE: openServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding config.toml or config.yaml")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for the substitute database (default in memory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests and print a request summary")
}

// SetServices installs services directly, bypassing the Opener.
func SetServices(s Services) {
	facadeService = s.Facade
	credentialsService = s.Credentials
	messagingService = s.Messaging
	migrationService = s.Migrations
	requestStats = s.Stats
	watchConfig = s.Watch
}

// SetOpener registers the function that builds services from the root
// flags.
func SetOpener(o Opener) {
	opener = o
}

// Execute runs the root command. Cancelling ctx stops long running
// commands such as mcp serve.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeFn != nil {
		err = errors.Join(err, closeFn())
		closeFn = nil
	}
	return err
}

func openServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())
	if facadeService != nil || opener == nil {
		return nil
	}

	s, closer, err := opener(Options{ConfigDir: configDir, DataDir: dataDir})
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(s)
	closeFn = closer
	return nil
}

// printStats writes the verbose request summary.
func printStats(cmd *cobra.Command) {
	if !verbose || requestStats == nil {
		return
	}
	requests, retries, failures := requestStats()
	cmd.PrintErrf("requests=%d retries=%d failures=%d\n", requests, retries, failures)
}

package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gfacade/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gfacade/internal/app"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// setupTestServices wires the real app over an in-memory config, so every
// API is served from the substitute store.
func setupTestServices(t *testing.T, config map[string]any) *app.App {
	t.Helper()
	a, err := app.New(app.Options{Config: memory.NewConfigStoreFrom(config)})
	require.NoError(t, err)
	SetServices(Services{
		Facade:      a.Facade,
		Credentials: a.Credentials,
		Messaging:   a.Messaging(),
		Migrations:  a.Migrations(),
		Stats:       a.Stats.Snapshot,
	})
	t.Cleanup(func() {
		SetServices(Services{})
		_ = a.Close()
	})
	return a
}

// run executes the root command with fresh flag values and returns stdout
// and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"config-dir", "data-dir", "verbose"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmd_Commands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"get", "delete", "list", "insert", "update", "download", "credentials", "resources", "pubsub", "migration", "mcp", "browse", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestExecute_UsesOpener(t *testing.T) {
	SetServices(Services{})
	closed := false
	var got Options
	SetOpener(func(opts Options) (Services, func() error, error) {
		got = opts
		a, err := app.New(app.Options{Config: memory.NewConfigStore()})
		if err != nil {
			return Services{}, nil, err
		}
		return Services{Facade: a.Facade}, func() error {
			closed = true
			return a.Close()
		}, nil
	})
	t.Cleanup(func() {
		SetOpener(nil)
		SetServices(Services{})
	})

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"resources", "--config-dir", "/etc/gfacade"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, Execute(context.Background()))
	assert.Equal(t, "/etc/gfacade", got.ConfigDir)
	assert.True(t, closed)
	assert.Contains(t, out.String(), "drive/files")
}

func TestVerbose_PrintsRequestSummary(t *testing.T) {
	setupTestServices(t, nil)
	requestStats = func() (int, int, int) { return 3, 1, 0 }

	_, errOut, err := run(t, "", "list", "drive", "files", "-v")

	require.NoError(t, err)
	assert.Contains(t, errOut, "requests=3 retries=1 failures=0")
}

func TestNotConfigured(t *testing.T) {
	SetServices(Services{})

	tests := [][]string{
		{"get", "drive", "files", "f1"},
		{"credentials", "drive"},
		{"resources"},
		{"pubsub", "publish", "t", "hello"},
		{"migration", "cancel", "m1"},
	}
	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			_, _, err := run(t, "", args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "service not configured")
		})
	}
}

type fakeMessaging struct {
	published []domain.Message
	topic     string
	acked     []string
	received  []domain.ReceivedMessage
}

func (f *fakeMessaging) Publish(_ context.Context, topic string, messages ...domain.Message) ([]string, error) {
	f.topic = topic
	f.published = append(f.published, messages...)
	ids := make([]string, len(messages))
	for i := range messages {
		ids[i] = "id-" + string(messages[i].Data)
	}
	return ids, nil
}

func (f *fakeMessaging) Pull(_ context.Context, _ string, maxMessages int64) ([]domain.ReceivedMessage, error) {
	return f.received[:min(int(maxMessages), len(f.received))], nil
}

func (f *fakeMessaging) Acknowledge(_ context.Context, _ string, ackIDs ...string) error {
	f.acked = append(f.acked, ackIDs...)
	return nil
}

type fakeMigrations struct{}

func (fakeMigrations) Cancel(_ context.Context, id string) (*domain.MigrationJob, error) {
	return &domain.MigrationJob{ID: id, State: domain.MigrationCancelled}, nil
}

func TestMCPServeCmd(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"mcp", "serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", cmd.Name())
	assert.Equal(t, "p", cmd.Flags().Lookup("port").Shorthand)

	SetServices(Services{})
	_, _, err = run(t, "", "mcp", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "facade service not configured")
}

func TestBrowseCmd_NotConfigured(t *testing.T) {
	SetServices(Services{})

	_, _, err := run(t, "", "browse")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "facade service not configured")
}

package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/core/ports/driven"
	"github.com/gsog/shoplist/internal/core/ports/driving"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Global flags.
var (
	configDir string
	dataDir   string
	offline   bool
	verbose   bool
)

// Services the commands run against. They are wired by setup unless a test
// has injected them.
var (
	listService     driving.ListService
	syncService     driving.SyncService
	settingsService driving.SettingsService
	journalStore    driven.JournalStore
	configStore     driven.ConfigStore
	fileReloader    reloader
	entriesPath     string
	appConfig       = domain.DefaultAppConfig()
	closers         []func() error
)

// reloader re-reads the entries file after an external edit.
type reloader interface {
	ReloadFromFile(ctx context.Context) error
}

var rootCmd = &cobra.Command{
	Use:   "shoplist",
	Short: "A shared shopping list synchronised over MQTT",
	Long: `shoplist keeps a shopping list in a local JSON file and mirrors it to
every other device subscribed to the same MQTT topic.

Local changes are saved first and then published as one retained message.
Lists received from the broker replace the local list and are saved, but
never sent back.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.shoplist)")
	flags.StringVar(&dataDir, "data-dir", "", "directory holding entries.json and settings.json (default ~/.shoplist/files)")
	flags.BoolVar(&offline, "offline", false, "do not contact the broker")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
}

// Execute runs the root command with ctx and releases all resources.
func Execute(ctx context.Context) error {
	defer shutdown()
	return rootCmd.ExecuteContext(ctx)
}

// shutdown disconnects from the broker and closes the stores.
func shutdown() {
	if syncService != nil {
		syncService.Disconnect()
	}
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i]() //nolint:errcheck // best effort on exit
	}
	closers = nil
}

// connectSync applies the broker settings, which connects on first use.
// It is a no-op in offline mode. Connection problems are reported as
// notices by the sync service and do not fail the command.
func connectSync(ctx context.Context) error {
	if offline || settingsService == nil {
		return nil
	}
	if _, err := settingsService.ApplyMQTTSettingsIfChanged(ctx); err != nil {
		return err
	}
	return nil
}

func requireList() error {
	if listService == nil {
		return errors.New("list service not configured")
	}
	return nil
}

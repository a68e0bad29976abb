package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/gsog/shoplist/internal/adapters/driven/config/file"
	"github.com/gsog/shoplist/internal/adapters/driven/mqtt"
	storagefile "github.com/gsog/shoplist/internal/adapters/driven/storage/file"
	"github.com/gsog/shoplist/internal/adapters/driven/storage/memory"
	"github.com/gsog/shoplist/internal/adapters/driven/storage/sqlite"
	"github.com/gsog/shoplist/internal/core/ports/driven"
	"github.com/gsog/shoplist/internal/core/services"
	"github.com/gsog/shoplist/internal/logger"
)

// setup wires config, storage, broker and services for the command.
// Commands that need nothing (version, help) skip it, as do tests that
// injected their own services.
func setup(cmd *cobra.Command, _ []string) error {
	if skipSetup(cmd) || listService != nil {
		return nil
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	cfg, err := store.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configStore = store
	appConfig = cfg

	logger.SetVerbose(verbose || cfg.Verbose)
	if logger.IsVerbose() {
		mqtt.EnableClientLogging(logger.Output())
	}
	logger.Section("Setup")
	logger.Debug("Config: %s", store.Path())

	dir := dataDir
	if dir == "" {
		dir = cfg.DataDir
	}
	gateway, err := storagefile.NewGateway(dir)
	if err != nil {
		return fmt.Errorf("open data dir: %w", err)
	}
	logger.Debug("Data: %s", gateway.DataDir())

	var journal driven.JournalStore
	if db, err := sqlite.NewStore(gateway.DataDir()); err != nil {
		logger.Error("Sync journal unavailable: %v", err)
	} else {
		journal = db
		closers = append(closers, db.Close)
	}

	var channel driven.SyncChannel
	if offline {
		channel = memory.NewChannel()
	} else {
		channel = mqtt.NewChannel(cfg.MQTT)
	}

	entries := services.NewEntryStore()
	entries.SetSortReverse(cfg.List.SortReverse)
	coordinator := services.NewCoordinator(entries, gateway, channel, journal)
	coordinator.OnNotice(noticePrinter(cmd.ErrOrStderr()))

	settings := services.NewSettingsService(gateway, coordinator, cfg.MQTT)
	current, err := settings.GetOrCreate()
	if err != nil {
		return err
	}
	applyTheme(current.DarkTheme)

	if err := coordinator.Load(ctx); err != nil {
		return err
	}

	listService = coordinator
	syncService = coordinator
	settingsService = settings
	journalStore = journal
	fileReloader = coordinator
	entriesPath = gateway.EntriesPath()
	return nil
}

func skipSetup(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return cmd.HasParent() && cmd.Parent().Name() == "completion"
}

package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsog/shoplist/internal/adapters/driven/storage/memory"
	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/core/services"
	"github.com/gsog/shoplist/internal/logger"
)

// cliFixture wires real services over memory adapters into the command vars.
type cliFixture struct {
	coord    *services.Coordinator
	settings *services.SettingsService
	gateway  *memory.Gateway
	channel  *memory.Channel
	journal  *memory.JournalStore
	config   *memory.ConfigStore
}

func setupCLITest(t *testing.T) *cliFixture {
	t.Helper()

	oldList, oldSync, oldSettings := listService, syncService, settingsService
	oldJournal, oldConfig, oldAppConfig := journalStore, configStore, appConfig
	oldReloader, oldPath, oldOffline := fileReloader, entriesPath, offline
	t.Cleanup(func() {
		listService, syncService, settingsService = oldList, oldSync, oldSettings
		journalStore, configStore, appConfig = oldJournal, oldConfig, oldAppConfig
		fileReloader, entriesPath, offline = oldReloader, oldPath, oldOffline
		logger.SetTimestamps(false)
		applyTheme(false)
	})

	f := &cliFixture{
		gateway: memory.NewGateway(),
		channel: memory.NewChannel(),
		journal: memory.NewJournalStore(),
		config:  memory.NewConfigStore(),
	}
	f.coord = services.NewCoordinator(services.NewEntryStore(), f.gateway, f.channel, f.journal)
	f.settings = services.NewSettingsService(f.gateway, f.coord, domain.MQTTConfig{Port: 1883, ClientID: "cli-test"})
	_, err := f.settings.GetOrCreate()
	require.NoError(t, err)
	require.NoError(t, f.coord.Load(context.Background()))

	listService = f.coord
	syncService = f.coord
	settingsService = f.settings
	journalStore = f.journal
	configStore = f.config
	appConfig = domain.DefaultAppConfig()
	fileReloader = nil
	entriesPath = ""
	offline = false
	return f
}

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

func runCLIContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "shoplist", rootCmd.Use)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config-dir", "data-dir", "offline", "verbose"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ls", "add", "edit", "rm", "toggle", "watch", "settings", "history", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestSkipSetup(t *testing.T) {
	assert.True(t, skipSetup(versionCmd))
	assert.False(t, skipSetup(lsCmd))
	assert.False(t, skipSetup(settingsShowCmd))
}

func TestConnectSync_Offline(t *testing.T) {
	f := setupCLITest(t)
	offline = true

	require.NoError(t, connectSync(context.Background()))

	assert.Equal(t, 0, f.channel.Connects())
}

func TestConnectSync_AppliesSettings(t *testing.T) {
	f := setupCLITest(t)

	require.NoError(t, connectSync(context.Background()))

	assert.Equal(t, domain.StateConnected, f.coord.State())
	assert.Equal(t, domain.DefaultMQTTServer, f.channel.Target().Host)
	assert.Equal(t, "cli-test", f.channel.Target().ClientID)
}

func TestShutdown_RunsClosersInReverse(t *testing.T) {
	setupCLITest(t)
	var order []int
	closers = []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return nil },
	}

	shutdown()

	assert.Equal(t, []int{2, 1}, order)
	assert.Nil(t, closers)
}

package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsog/shoplist/internal/core/domain"
)

func TestWatchCmd_StopsWhenCancelled(t *testing.T) {
	f := setupCLITest(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := runCLIContext(t, ctx, "watch")

	require.NoError(t, err)
	assert.Contains(t, out, "Watching the shopping list (connected)")
	assert.Contains(t, out, "Stopped.")
	assert.Equal(t, 1, f.channel.Connects())
}

func TestWatchCmd_PrintsRemoteChanges(t *testing.T) {
	f := setupCLITest(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		out  string
		err  error
		done = make(chan struct{})
	)
	go func() {
		defer close(done)
		out, err = runCLIContext(t, ctx, "watch")
	}()

	require.Eventually(t, func() bool {
		return f.channel.Deliver(domain.DefaultMQTTTopic, []byte(`{"entries":[{"text":"Eggs","is_checked":false}]}`))
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	require.NoError(t, err)
	assert.Contains(t, out, "Received 1 entries from the broker")
	assert.Contains(t, out, "[ ] Eggs")
	assert.Empty(t, f.channel.Published())
}

func TestWatchCmd_StartsFileWatcher(t *testing.T) {
	f := setupCLITest(t)
	dir := filepath.Join(t.TempDir(), "files")
	entriesPath = filepath.Join(dir, "entries.json")
	fileReloader = f.coord
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runCLIContext(t, ctx, "watch")

	require.NoError(t, err)
	_, statErr := os.Stat(dir)
	assert.NoError(t, statErr)
}

func TestChangeTitle(t *testing.T) {
	entries := []domain.ShoppingEntry{{Text: "Milk"}, {Text: "Tea"}}

	assert.Equal(t, "Received 2 entries from the broker", changeTitle(domain.Change{Origin: domain.OriginRemote, Entries: entries}))
	assert.Equal(t, "Entries file changed, 2 entries", changeTitle(domain.Change{Origin: domain.OriginFile, Entries: entries}))
	assert.Equal(t, "Sort order changed, 2 entries", changeTitle(domain.Change{Origin: domain.OriginReorder, Entries: entries}))
	assert.Equal(t, "Changed here, 2 entries", changeTitle(domain.Change{Origin: domain.OriginLocal, Entries: entries}))
	assert.Equal(t, "Loaded 0 entries", changeTitle(domain.Change{Origin: domain.OriginInitial}))
}

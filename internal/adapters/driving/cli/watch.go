package cli

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/gsog/shoplist/internal/adapters/driven/watch"
	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stay connected and follow list changes",
	Long: `Connects to the broker, subscribes to the list topic and watches the
entries file for edits made by other programs. Every change is printed with
where it came from. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := requireList(); err != nil {
		return err
	}
	if syncService == nil {
		return errors.New("sync service not configured")
	}
	ctx := cmd.Context()
	logger.SetTimestamps(true)

	var mu sync.Mutex
	out := cmd.OutOrStdout()
	listService.OnEntriesChanged(func(c domain.Change) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(out, currentStyles().Header.Render(changeTitle(c)))
		printEntries(out, c.Entries)
	})

	if err := connectSync(ctx); err != nil {
		return err
	}
	syncService.Start(ctx)

	if fileReloader != nil && entriesPath != "" {
		w := watch.New(entriesPath, fileReloader)
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to watch %s: %w", entriesPath, err)
		}
		defer w.Close()
	}

	mu.Lock()
	cmd.Printf("Watching the shopping list (%s). Press Ctrl+C to stop.\n", syncService.State())
	printEntries(out, listService.Snapshot())
	mu.Unlock()

	<-ctx.Done()
	cmd.Println("Stopped.")
	return nil
}

func changeTitle(c domain.Change) string {
	switch c.Origin {
	case domain.OriginRemote:
		return fmt.Sprintf("Received %d entries from the broker", len(c.Entries))
	case domain.OriginFile:
		return fmt.Sprintf("Entries file changed, %d entries", len(c.Entries))
	case domain.OriginReorder:
		return fmt.Sprintf("Sort order changed, %d entries", len(c.Entries))
	case domain.OriginLocal:
		return fmt.Sprintf("Changed here, %d entries", len(c.Entries))
	default:
		return fmt.Sprintf("Loaded %d entries", len(c.Entries))
	}
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gsog/shoplist/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent list changes",
	Long: `Shows the sync journal: one line per saved change with its origin, the
number of entries, and whether it was published to the broker.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of records")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if journalStore == nil {
		return errors.New("sync journal not available")
	}

	records, err := journalStore.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No changes recorded yet.")
		return nil
	}

	st := currentStyles()
	for _, r := range records {
		line := formatRecord(r)
		if r.Error != "" {
			line = st.Error.Render(line)
		}
		cmd.Println(line)
	}
	return nil
}

func formatRecord(r domain.JournalRecord) string {
	status := "saved"
	switch {
	case r.Error != "":
		status = "failed: " + r.Error
	case r.Published:
		status = "saved, published"
	case r.Origin.Publishes():
		status = "saved, not published"
	}
	return fmt.Sprintf("%s  %-7s  %3d entries  %s",
		r.At.Local().Format("2006-01-02 15:04:05"), r.Origin, r.EntryCount, status)
}

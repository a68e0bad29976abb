package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gsog/shoplist/internal/core/domain"
)

var lsReverse bool

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "Show the shopping list",
	Long: `Prints the shopping list: open entries first, then checked ones, each
group ordered by text. --reverse inverts the order and is remembered.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add an entry",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit <n> <text...>",
	Short: "Change the text of entry n",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEdit,
}

var rmCmd = &cobra.Command{
	Use:     "rm <n>",
	Aliases: []string{"delete"},
	Short:   "Remove entry n",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <n>",
	Short: "Check or uncheck entry n",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

func init() {
	lsCmd.Flags().BoolVarP(&lsReverse, "reverse", "r", false, "reverse the order and remember it")
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(toggleCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := requireList(); err != nil {
		return err
	}

	if cmd.Flags().Changed("reverse") {
		if err := listService.SetSortReverse(cmd.Context(), lsReverse); err != nil {
			return mutationError("change order", err)
		}
		if err := saveSortPreference(lsReverse); err != nil {
			return err
		}
	}

	printEntries(cmd.OutOrStdout(), listService.Snapshot())
	return nil
}

// saveSortPreference stores list.sort_reverse in config.toml.
func saveSortPreference(reverse bool) error {
	if configStore == nil || appConfig.List.SortReverse == reverse {
		return nil
	}
	cfg := appConfig
	cfg.List.SortReverse = reverse
	if err := configStore.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	appConfig = cfg
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := requireList(); err != nil {
		return err
	}
	if err := connectSync(cmd.Context()); err != nil {
		return err
	}

	entry, err := listService.AddEntry(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return mutationError("add entry", err)
	}

	cmd.Printf("Added %q\n", entry.Text)
	printEntries(cmd.OutOrStdout(), listService.Snapshot())
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	if err := requireList(); err != nil {
		return err
	}
	entry, err := resolveEntry(listService.Snapshot(), args[0])
	if err != nil {
		return err
	}
	if err := connectSync(cmd.Context()); err != nil {
		return err
	}

	text := strings.Join(args[1:], " ")
	if err := listService.EditEntry(cmd.Context(), entry.ID, text); err != nil {
		return mutationError("edit entry", err)
	}

	cmd.Printf("Changed %q to %q\n", entry.Text, strings.TrimSpace(text))
	printEntries(cmd.OutOrStdout(), listService.Snapshot())
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	if err := requireList(); err != nil {
		return err
	}
	entry, err := resolveEntry(listService.Snapshot(), args[0])
	if err != nil {
		return err
	}
	if err := connectSync(cmd.Context()); err != nil {
		return err
	}

	if err := listService.DeleteEntry(cmd.Context(), entry.ID); err != nil {
		return mutationError("remove entry", err)
	}

	cmd.Printf("Removed %q\n", entry.Text)
	printEntries(cmd.OutOrStdout(), listService.Snapshot())
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	if err := requireList(); err != nil {
		return err
	}
	entry, err := resolveEntry(listService.Snapshot(), args[0])
	if err != nil {
		return err
	}
	if err := connectSync(cmd.Context()); err != nil {
		return err
	}

	if err := listService.ToggleEntry(cmd.Context(), entry.ID); err != nil {
		return mutationError("toggle entry", err)
	}

	state := "Checked"
	if entry.IsChecked {
		state = "Unchecked"
	}
	cmd.Printf("%s %q\n", state, entry.Text)
	printEntries(cmd.OutOrStdout(), listService.Snapshot())
	return nil
}

// mutationError wraps a failed list change for the command. A failed save
// has already been printed as a notice by the sync service, so the command
// stops without reporting it a second time.
func mutationError(action string, err error) error {
	if errors.Is(err, domain.ErrPersistence) {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// resolveEntry maps a 1-based index as printed by ls to the entry.
func resolveEntry(entries []domain.ShoppingEntry, arg string) (domain.ShoppingEntry, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return domain.ShoppingEntry{}, fmt.Errorf("%w: %q is not an entry number", domain.ErrValidation, arg)
	}
	if n < 1 || n > len(entries) {
		return domain.ShoppingEntry{}, fmt.Errorf("%w: no entry %d (list has %d)", domain.ErrNotFound, n, len(entries))
	}
	return entries[n-1], nil
}

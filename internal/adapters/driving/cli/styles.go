package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/gsog/shoplist/internal/core/domain"
)

// Theme is the colour palette of the command output.
type Theme struct {
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// LightTheme is used unless the dark_theme setting is on.
func LightTheme() Theme {
	return Theme{
		Accent:  lipgloss.Color("#7C3AED"), // Purple
		Text:    lipgloss.Color("#1E1E2E"), // Near black
		Muted:   lipgloss.Color("#8C8FA1"), // Gray
		Warning: lipgloss.Color("#DF8E1D"), // Amber
		Error:   lipgloss.Color("#D20F39"), // Red
	}
}

// DarkTheme is used when the dark_theme setting is on.
func DarkTheme() Theme {
	return Theme{
		Accent:  lipgloss.Color("#CBA6F7"), // Mauve
		Text:    lipgloss.Color("#CDD6F4"), // Light gray
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Warning: lipgloss.Color("#F9E2AF"), // Yellow
		Error:   lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles for a theme.
type Styles struct {
	Index   lipgloss.Style
	Open    lipgloss.Style
	Checked lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles builds the styles for theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Index:   lipgloss.NewStyle().Foreground(theme.Muted).Width(4).Align(lipgloss.Right),
		Open:    lipgloss.NewStyle().Foreground(theme.Text),
		Checked: lipgloss.NewStyle().Foreground(theme.Muted).Strikethrough(true),
		Header:  lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(theme.Muted),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),
		Error:   lipgloss.NewStyle().Foreground(theme.Error).Bold(true),
	}
}

var (
	stylesMu sync.RWMutex
	styles   = NewStyles(LightTheme())
)

// applyTheme selects the palette for the dark_theme setting.
func applyTheme(dark bool) {
	theme := LightTheme()
	if dark {
		theme = DarkTheme()
	}
	stylesMu.Lock()
	defer stylesMu.Unlock()
	styles = NewStyles(theme)
}

func currentStyles() Styles {
	stylesMu.RLock()
	defer stylesMu.RUnlock()
	return styles
}

// checkbox renders the checked state.
func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

// printEntries writes the numbered list. Numbers are the 1-based indexes
// the edit, rm and toggle commands accept.
func printEntries(w io.Writer, entries []domain.ShoppingEntry) {
	st := currentStyles()
	if len(entries) == 0 {
		fmt.Fprintln(w, st.Muted.Render("The shopping list is empty."))
		return
	}
	for i, e := range entries {
		line := checkbox(e.IsChecked) + " " + e.Text
		if e.IsChecked {
			line = st.Checked.Render(line)
		} else {
			line = st.Open.Render(line)
		}
		fmt.Fprintf(w, "%s %s\n", st.Index.Render(fmt.Sprintf("%d.", i+1)), line)
	}
}

// noticePrinter returns a listener printing notices to w.
func noticePrinter(w io.Writer) func(domain.Notice) {
	var mu sync.Mutex
	return func(n domain.Notice) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, formatNotice(currentStyles(), n))
	}
}

func formatNotice(st Styles, n domain.Notice) string {
	text := n.Message
	if n.Err != nil {
		text += ": " + n.Err.Error()
	}
	switch n.Level {
	case domain.NoticeError:
		return st.Error.Render("error: " + text)
	case domain.NoticeWarning:
		return st.Warning.Render("warning: " + text)
	default:
		return st.Muted.Render(text)
	}
}

package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ShoppingEntry is one line of the shopping list.
type ShoppingEntry struct {
	// ID is an in-memory surrogate key. It is never persisted or published;
	// peers only exchange (Text, IsChecked).
	ID string

	// Text is the entry label, non-empty after trimming.
	Text string

	// IsChecked marks the entry as bought.
	IsChecked bool
}

// SameAs reports whether two entries are value-equal, ignoring ID.
func (e ShoppingEntry) SameAs(other ShoppingEntry) bool {
	return e.Text == other.Text && e.IsChecked == other.IsChecked
}

// NormaliseText trims text and rejects it when nothing is left.
func NormaliseText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("%w: entry text is empty", ErrValidation)
	}
	return trimmed, nil
}

// SortEntries orders entries in place by (IsChecked, Text), unchecked first.
// With reverse set the whole ordering is inverted. The sort is stable, so
// exact duplicates keep their relative order.
func SortEntries(entries []ShoppingEntry, reverse bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		if reverse {
			return entryLess(entries[j], entries[i])
		}
		return entryLess(entries[i], entries[j])
	})
}

func entryLess(a, b ShoppingEntry) bool {
	if a.IsChecked != b.IsChecked {
		return !a.IsChecked
	}
	return a.Text < b.Text
}

// CloneEntries returns an independent copy of entries.
func CloneEntries(entries []ShoppingEntry) []ShoppingEntry {
	if entries == nil {
		return nil
	}
	dup := make([]ShoppingEntry, len(entries))
	copy(dup, entries)
	return dup
}

// SameEntries reports whether a and b hold the same multiset of
// (Text, IsChecked) pairs, regardless of order and IDs.
func SameEntries(a, b []ShoppingEntry) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[ShoppingEntry]int, len(a))
	for _, e := range a {
		counts[ShoppingEntry{Text: e.Text, IsChecked: e.IsChecked}]++
	}
	for _, e := range b {
		key := ShoppingEntry{Text: e.Text, IsChecked: e.IsChecked}
		if counts[key] == 0 {
			return false
		}
		counts[key]--
	}
	return true
}

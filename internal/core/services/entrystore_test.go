package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsog/shoplist/internal/core/domain"
)

// values strips IDs so snapshots can be compared by value.
func values(entries []domain.ShoppingEntry) []domain.ShoppingEntry {
	out := make([]domain.ShoppingEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.ShoppingEntry{Text: e.Text, IsChecked: e.IsChecked})
	}
	return out
}

func findByText(t *testing.T, entries []domain.ShoppingEntry, text string) domain.ShoppingEntry {
	t.Helper()
	for _, e := range entries {
		if e.Text == text {
			return e
		}
	}
	t.Fatalf("entry %q not found in %v", text, entries)
	return domain.ShoppingEntry{}
}

func TestEntryStore_AddSortsIntoPlace(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []domain.ShoppingEntry
	}{
		{"before all", "Apples", []domain.ShoppingEntry{{Text: "Apples"}, {Text: "Milk"}, {Text: "Bread", IsChecked: true}}},
		{"after unchecked", "Tea", []domain.ShoppingEntry{{Text: "Milk"}, {Text: "Tea"}, {Text: "Bread", IsChecked: true}}},
		{"trimmed", "  Cheese ", []domain.ShoppingEntry{{Text: "Cheese"}, {Text: "Milk"}, {Text: "Bread", IsChecked: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewEntryStore()
			require.NoError(t, s.ReplaceAll([]domain.ShoppingEntry{{Text: "Bread", IsChecked: true}, {Text: "Milk"}}))

			added, err := s.Add(tt.text)

			require.NoError(t, err)
			assert.NotEmpty(t, added.ID)
			assert.False(t, added.IsChecked)
			assert.Equal(t, tt.want, values(s.Snapshot()))
		})
	}
}

func TestEntryStore_AddRejectsBlank(t *testing.T) {
	s := NewEntryStore()
	notified := 0
	s.OnChange(func([]domain.ShoppingEntry) { notified++ })

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := s.Add(text)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	}

	assert.Empty(t, s.Snapshot())
	assert.Equal(t, 0, notified)
}

func TestEntryStore_EditKeepsCheckedAndID(t *testing.T) {
	s := NewEntryStore()
	require.NoError(t, s.ReplaceAll([]domain.ShoppingEntry{{Text: "Milk", IsChecked: true}, {Text: "Bread"}}))
	milk := findByText(t, s.Snapshot(), "Milk")

	require.NoError(t, s.Edit(milk.ID, "Oat milk"))

	edited, ok := s.Find(milk.ID)
	require.True(t, ok)
	assert.Equal(t, "Oat milk", edited.Text)
	assert.True(t, edited.IsChecked)
}

func TestEntryStore_EditErrors(t *testing.T) {
	s := NewEntryStore()
	entry, err := s.Add("Milk")
	require.NoError(t, err)

	assert.True(t, errors.Is(s.Edit(entry.ID, " "), domain.ErrValidation))
	assert.True(t, errors.Is(s.Edit("missing", "Eggs"), domain.ErrNotFound))
	assert.Equal(t, "Milk", s.Snapshot()[0].Text)
}

func TestEntryStore_DeleteOneOfDuplicates(t *testing.T) {
	s := NewEntryStore()
	require.NoError(t, s.ReplaceAll([]domain.ShoppingEntry{{Text: "Milk"}, {Text: "Milk"}}))
	first := s.Snapshot()[0]

	require.NoError(t, s.Delete(first.ID))

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.NotEqual(t, first.ID, snap[0].ID)
	assert.True(t, errors.Is(s.Delete(first.ID), domain.ErrNotFound))
}

// Toggling Milk puts it among the checked entries by text, after Bread,
// not in front of it.
func TestEntryStore_ToggleSortsCheckedByTextAscending_MilkAfterBread(t *testing.T) {
	s := NewEntryStore()
	require.NoError(t, s.ReplaceAll([]domain.ShoppingEntry{{Text: "Bread", IsChecked: true}, {Text: "Milk"}}))

	var notified []domain.ShoppingEntry
	s.OnChange(func(snap []domain.ShoppingEntry) { notified = snap })

	require.NoError(t, s.Toggle(findByText(t, s.Snapshot(), "Milk").ID))

	want := []domain.ShoppingEntry{{Text: "Bread", IsChecked: true}, {Text: "Milk", IsChecked: true}}
	assert.Equal(t, want, values(s.Snapshot()))
	assert.Equal(t, want, values(notified))
}

func TestEntryStore_ReplaceAllValidatesFirst(t *testing.T) {
	s := NewEntryStore()
	_, err := s.Add("Milk")
	require.NoError(t, err)

	err = s.ReplaceAll([]domain.ShoppingEntry{{Text: "Eggs"}, {Text: " "}})

	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, []domain.ShoppingEntry{{Text: "Milk"}}, values(s.Snapshot()))
}

func TestEntryStore_ReplaceAllAssignsFreshIDs(t *testing.T) {
	s := NewEntryStore()
	require.NoError(t, s.ReplaceAll([]domain.ShoppingEntry{{ID: "keep-me", Text: "Milk"}, {Text: "Milk"}}))

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.NotEqual(t, "keep-me", snap[0].ID)
	assert.NotEqual(t, snap[0].ID, snap[1].ID)
}

func TestEntryStore_SetSortReverse(t *testing.T) {
	s := NewEntryStore()
	require.NoError(t, s.ReplaceAll([]domain.ShoppingEntry{{Text: "Bread", IsChecked: true}, {Text: "Apples"}, {Text: "Milk"}}))
	notified := 0
	s.OnChange(func([]domain.ShoppingEntry) { notified++ })

	assert.True(t, s.SetSortReverse(true))
	assert.False(t, s.SetSortReverse(true))

	assert.True(t, s.SortReverse())
	assert.Equal(t, 1, notified)
	assert.Equal(t, []domain.ShoppingEntry{
		{Text: "Bread", IsChecked: true}, {Text: "Milk"}, {Text: "Apples"},
	}, values(s.Snapshot()))

	// New entries land in reversed position too.
	_, err := s.Add("Cheese")
	require.NoError(t, err)
	assert.Equal(t, "Apples", s.Snapshot()[3].Text)
	assert.Equal(t, "Cheese", s.Snapshot()[2].Text)
}

func TestEntryStore_SnapshotIsCopy(t *testing.T) {
	s := NewEntryStore()
	_, err := s.Add("Milk")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap[0].Text = "changed"

	assert.Equal(t, "Milk", s.Snapshot()[0].Text)
	assert.Equal(t, 1, s.Len())
}

func TestEntryStore_EmptySnapshotNotNil(t *testing.T) {
	assert.NotNil(t, NewEntryStore().Snapshot())
}

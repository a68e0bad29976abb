package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gsog/shoplist/internal/core/domain"
)

// EntryStore is the in-memory ordered entry collection. It owns the
// canonical sort order and performs no I/O. Every successful mutation
// notifies the registered listeners with the new ordered snapshot.
type EntryStore struct {
	mu        sync.RWMutex
	entries   []domain.ShoppingEntry
	reverse   bool
	listeners []func([]domain.ShoppingEntry)
	newID     func() string
}

// NewEntryStore creates an empty store.
func NewEntryStore() *EntryStore {
	return &EntryStore{newID: uuid.NewString}
}

// OnChange registers a listener called synchronously after every mutation.
// Listeners run without the store lock held.
func (s *EntryStore) OnChange(listener func([]domain.ShoppingEntry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Add appends an entry with the given text and re-sorts.
func (s *EntryStore) Add(text string) (domain.ShoppingEntry, error) {
	normalised, err := domain.NormaliseText(text)
	if err != nil {
		return domain.ShoppingEntry{}, err
	}

	s.mu.Lock()
	entry := domain.ShoppingEntry{ID: s.newID(), Text: normalised}
	s.entries = append(s.entries, entry)
	snap := s.sortLocked()
	s.mu.Unlock()

	s.notify(snap)
	return entry, nil
}

// Edit replaces the text of the entry with the given ID. The checked state
// and ID are kept.
func (s *EntryStore) Edit(id, text string) error {
	normalised, err := domain.NormaliseText(text)
	if err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	s.entries[idx].Text = normalised
	snap := s.sortLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Delete removes the entry with the given ID.
func (s *EntryStore) Delete(id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	snap := domain.CloneEntries(s.entries)
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Toggle flips the checked state of the entry with the given ID and re-sorts.
func (s *EntryStore) Toggle(id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	s.entries[idx].IsChecked = !s.entries[idx].IsChecked
	snap := s.sortLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// ReplaceAll substitutes the whole collection. Every entry is validated
// first; on error the store is unchanged. Entries get fresh IDs.
func (s *EntryStore) ReplaceAll(entries []domain.ShoppingEntry) error {
	next := make([]domain.ShoppingEntry, 0, len(entries))
	for i, e := range entries {
		text, err := domain.NormaliseText(e.Text)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		next = append(next, domain.ShoppingEntry{ID: s.newID(), Text: text, IsChecked: e.IsChecked})
	}

	s.mu.Lock()
	s.entries = next
	snap := s.sortLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// SetSortReverse switches the ordering direction. It returns false and
// raises no notification when the direction is unchanged.
func (s *EntryStore) SetSortReverse(reverse bool) bool {
	s.mu.Lock()
	if s.reverse == reverse {
		s.mu.Unlock()
		return false
	}
	s.reverse = reverse
	snap := s.sortLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// SortReverse reports the ordering direction.
func (s *EntryStore) SortReverse() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reverse
}

// Snapshot returns a copy of the ordered entries.
func (s *EntryStore) Snapshot() []domain.ShoppingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := domain.CloneEntries(s.entries)
	if snap == nil {
		snap = []domain.ShoppingEntry{}
	}
	return snap
}

// Find returns the entry with the given ID.
func (s *EntryStore) Find(id string) (domain.ShoppingEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.ShoppingEntry{}, false
	}
	return s.entries[idx], true
}

// Len returns the number of entries.
func (s *EntryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *EntryStore) indexLocked(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// sortLocked re-sorts and returns a snapshot (caller must hold lock).
func (s *EntryStore) sortLocked() []domain.ShoppingEntry {
	domain.SortEntries(s.entries, s.reverse)
	return domain.CloneEntries(s.entries)
}

func (s *EntryStore) notify(snap []domain.ShoppingEntry) {
	s.mu.RLock()
	listeners := make([]func([]domain.ShoppingEntry), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	if snap == nil {
		snap = []domain.ShoppingEntry{}
	}
	for _, l := range listeners {
		l(snap)
	}
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/core/ports/driven"
)

// Ensure JournalStore implements the interface.
var _ driven.JournalStore = (*JournalStore)(nil)

// JournalStore is an in-memory implementation of driven.JournalStore for testing.
type JournalStore struct {
	mu      sync.RWMutex
	records []domain.JournalRecord
	nextID  int64
}

// NewJournalStore creates an empty journal.
func NewJournalStore() *JournalStore {
	return &JournalStore{}
}

// Append stores a record, assigning ID and timestamp.
func (s *JournalStore) Append(_ context.Context, record domain.JournalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	record.ID = s.nextID
	if record.At.IsZero() {
		record.At = time.Now()
	}
	s.records = append(s.records, record)
	return nil
}

// Recent returns up to limit records, newest first.
func (s *JournalStore) Recent(_ context.Context, limit int) ([]domain.JournalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.JournalRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		result = append(result, s.records[i])
	}
	return result, nil
}

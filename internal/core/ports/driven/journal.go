package driven

import (
	"context"

	"github.com/gsog/shoplist/internal/core/domain"
)

// JournalStore records committed list changes for diagnostics.
type JournalStore interface {
	// Append stores a record. The ID and timestamp are assigned if zero.
	Append(ctx context.Context, record domain.JournalRecord) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.JournalRecord, error)
}

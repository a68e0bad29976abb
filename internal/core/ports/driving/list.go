package driving

import (
	"context"

	"github.com/gsog/shoplist/internal/core/domain"
)

// ListService is the collaborator-facing API of the shopping list.
// Entries are referenced by the ID found in the latest snapshot.
type ListService interface {
	// Load reads the entries file into memory. A missing file starts an
	// empty list. The initial load is never published.
	Load(ctx context.Context) error

	// AddEntry appends an entry. Blank text fails with domain.ErrValidation.
	AddEntry(ctx context.Context, text string) (domain.ShoppingEntry, error)

	// EditEntry replaces the text of an entry, keeping its checked state.
	EditEntry(ctx context.Context, id, text string) error

	// DeleteEntry removes an entry.
	DeleteEntry(ctx context.Context, id string) error

	// ToggleEntry flips the checked state of an entry.
	ToggleEntry(ctx context.Context, id string) error

	// SetSortReverse inverts the canonical order.
	SetSortReverse(ctx context.Context, reverse bool) error

	// Snapshot returns the current ordered entries.
	Snapshot() []domain.ShoppingEntry

	// OnEntriesChanged registers a listener for committed changes.
	OnEntriesChanged(listener func(domain.Change))

	// OnNotice registers a listener for user-visible notices.
	OnNotice(listener func(domain.Notice))
}

// SyncService controls the broker session behind the list.
type SyncService interface {
	// Connect opens the broker session. Failures become notices and the
	// ConnectionFailed state; they are never returned.
	Connect(ctx context.Context)

	// Reconnect disconnects, retargets and connects again.
	Reconnect(ctx context.Context, target domain.BrokerTarget)

	// Start subscribes to the topic and applies remote lists until Disconnect.
	Start(ctx context.Context)

	// Disconnect closes the session. Safe to call when never connected.
	Disconnect()

	// State returns the broker session state.
	State() domain.ConnectionState
}

package driven

import "github.com/gsog/shoplist/internal/core/domain"

// EntryGateway persists the entry collection.
// Implementations must wrap domain.ErrNotFound when nothing was written yet.
type EntryGateway interface {
	// WriteEntries replaces the stored collection.
	WriteEntries(entries []domain.ShoppingEntry) error

	// ReadEntries returns the stored collection in stored order.
	ReadEntries() ([]domain.ShoppingEntry, error)
}

// SettingsGateway persists user settings.
// Implementations must wrap domain.ErrNotFound when nothing was written yet.
type SettingsGateway interface {
	// WriteSettings replaces the stored settings.
	WriteSettings(settings domain.Settings) error

	// ReadSettings returns the stored settings.
	ReadSettings() (domain.Settings, error)
}

package driving

import (
	"context"

	"github.com/gsog/shoplist/internal/core/domain"
)

// SettingsService manages user settings.
type SettingsService interface {
	// GetOrCreate loads settings, writing defaults on first run.
	GetOrCreate() (domain.Settings, error)

	// Get returns the settings held for this session.
	Get() domain.Settings

	// Update applies a partial change, validates it and persists it.
	Update(patch domain.SettingsPatch) (domain.Settings, error)

	// ApplyMQTTSettingsIfChanged reconnects the broker session when server,
	// topic, username or password differ from the last applied values.
	// Returns true if a reconnect was triggered.
	ApplyMQTTSettingsIfChanged(ctx context.Context) (bool, error)
}

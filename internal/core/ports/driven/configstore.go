package driven

import "github.com/gsog/shoplist/internal/core/domain"

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and defaults.
type ConfigStore interface {
	// Load reads configuration from storage. A missing file yields defaults.
	Load() (domain.AppConfig, error)

	// Save persists configuration to storage.
	Save(cfg domain.AppConfig) error

	// Path returns the configuration file path.
	Path() string
}

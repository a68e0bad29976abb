package memory

import (
	"sync"

	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore for testing.
type ConfigStore struct {
	mu  sync.RWMutex
	cfg domain.AppConfig
}

// NewConfigStore creates a config store holding defaults.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{cfg: domain.DefaultAppConfig()}
}

// Load returns the held configuration.
func (s *ConfigStore) Load() (domain.AppConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, nil
}

// Save replaces the held configuration.
func (s *ConfigStore) Save(cfg domain.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return ":memory:"
}

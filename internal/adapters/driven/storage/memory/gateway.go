package memory

import (
	"fmt"
	"sync"

	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/core/ports/driven"
)

// Ensure Gateway implements the interfaces.
var (
	_ driven.EntryGateway    = (*Gateway)(nil)
	_ driven.SettingsGateway = (*Gateway)(nil)
)

// Gateway is an in-memory implementation of the entry and settings
// gateways for testing. Writes can be made to fail with FailWrites.
type Gateway struct {
	mu           sync.RWMutex
	entries      []domain.ShoppingEntry
	hasEntries   bool
	settings     domain.Settings
	hasSettings  bool
	writeErr     error
	entryWrites  int
	settingWrite int
}

// NewGateway creates an empty gateway; reads fail with domain.ErrNotFound
// until something is written.
func NewGateway() *Gateway {
	return &Gateway{}
}

// FailWrites makes subsequent writes return err. Pass nil to recover.
func (g *Gateway) FailWrites(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.writeErr = err
}

// WriteEntries stores a copy of entries without IDs, like a file would.
func (g *Gateway) WriteEntries(entries []domain.ShoppingEntry) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.writeErr != nil {
		return g.writeErr
	}
	stored := make([]domain.ShoppingEntry, 0, len(entries))
	for _, e := range entries {
		stored = append(stored, domain.ShoppingEntry{Text: e.Text, IsChecked: e.IsChecked})
	}
	g.entries = stored
	g.hasEntries = true
	g.entryWrites++
	return nil
}

// ReadEntries returns the stored entries.
func (g *Gateway) ReadEntries() ([]domain.ShoppingEntry, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.hasEntries {
		return nil, fmt.Errorf("entries: %w", domain.ErrNotFound)
	}
	return domain.CloneEntries(g.entries), nil
}

// EntryWrites returns how many successful entry writes happened.
func (g *Gateway) EntryWrites() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.entryWrites
}

// WriteSettings stores settings.
func (g *Gateway) WriteSettings(settings domain.Settings) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.writeErr != nil {
		return g.writeErr
	}
	g.settings = settings
	g.hasSettings = true
	g.settingWrite++
	return nil
}

// ReadSettings returns the stored settings.
func (g *Gateway) ReadSettings() (domain.Settings, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.hasSettings {
		return domain.Settings{}, fmt.Errorf("settings: %w", domain.ErrNotFound)
	}
	return g.settings, nil
}

// SettingsWrites returns how many successful settings writes happened.
func (g *Gateway) SettingsWrites() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.settingWrite
}

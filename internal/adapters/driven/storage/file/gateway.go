package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/core/ports/driven"
)

// Ensure Gateway implements the interfaces.
var (
	_ driven.EntryGateway    = (*Gateway)(nil)
	_ driven.SettingsGateway = (*Gateway)(nil)
)

// File names inside the data directory.
const (
	EntriesFile  = "entries.json"
	SettingsFile = "settings.json"
)

// Gateway reads and writes the entries and settings documents.
type Gateway struct {
	mu      sync.Mutex
	dataDir string
}

// NewGateway creates a gateway rooted at dataDir.
// If dataDir is empty, defaults to ~/.shoplist/files. The directory is
// created on first write.
func NewGateway(dataDir string) (*Gateway, error) {
	if dataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}
	return &Gateway{dataDir: dataDir}, nil
}

// DefaultDataDir returns ~/.shoplist/files.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".shoplist", "files"), nil
}

// DataDir returns the directory holding the documents.
func (g *Gateway) DataDir() string {
	return g.dataDir
}

// EntriesPath returns the full path of the entries document.
func (g *Gateway) EntriesPath() string {
	return filepath.Join(g.dataDir, EntriesFile)
}

// SettingsPath returns the full path of the settings document.
func (g *Gateway) SettingsPath() string {
	return filepath.Join(g.dataDir, SettingsFile)
}

// WriteEntries overwrites the entries document with entries in the given order.
func (g *Gateway) WriteEntries(entries []domain.ShoppingEntry) error {
	data, err := domain.EncodeEntries(entries)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	return g.write(EntriesFile, data)
}

// ReadEntries reads the entries document.
func (g *Gateway) ReadEntries() ([]domain.ShoppingEntry, error) {
	data, err := g.read(EntriesFile)
	if err != nil {
		return nil, err
	}
	entries, err := domain.DecodeEntries(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EntriesFile, err)
	}
	return entries, nil
}

// WriteSettings overwrites the settings document.
func (g *Gateway) WriteSettings(settings domain.Settings) error {
	data, err := domain.EncodeSettings(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return g.write(SettingsFile, data)
}

// ReadSettings reads the settings document.
func (g *Gateway) ReadSettings() (domain.Settings, error) {
	data, err := g.read(SettingsFile)
	if err != nil {
		return domain.Settings{}, err
	}
	settings, err := domain.DecodeSettings(data)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%s: %w", SettingsFile, err)
	}
	return settings, nil
}

func (g *Gateway) write(name string, data []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := os.MkdirAll(g.dataDir, 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(g.dataDir, name), data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (g *Gateway) read(name string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(g.dataDir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigFile is the configuration file name inside the config directory.
const ConfigFile = "config.toml"

// ConfigStore is a TOML-based implementation of driven.ConfigStore.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// configRecord is the on-disk form of domain.AppConfig.
type configRecord struct {
	DataDir string     `toml:"data_dir"`
	Verbose bool       `toml:"verbose"`
	MQTT    mqttRecord `toml:"mqtt"`
	List    listRecord `toml:"list"`
}

type mqttRecord struct {
	Port           int    `toml:"port"`
	ClientID       string `toml:"client_id"`
	ConnectTimeout int    `toml:"connect_timeout"` // seconds
	QoS            int    `toml:"qos"`
}

type listRecord struct {
	SortReverse bool `toml:"sort_reverse"`
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.shoplist/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	dir, err := expandPath(configDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{filePath: filepath.Join(dir, ConfigFile)}, nil
}

// DefaultConfigDir returns ~/.shoplist.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".shoplist"), nil
}

// Load reads the configuration. A missing file yields the defaults.
func (s *ConfigStore) Load() (domain.AppConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := domain.DefaultAppConfig()
	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("read config: %w", err)
	}

	rec := toRecord(defaults)
	if err := toml.Unmarshal(data, &rec); err != nil {
		return defaults, fmt.Errorf("parse %s: %w", s.filePath, err)
	}

	cfg, err := fromRecord(rec)
	if err != nil {
		return defaults, fmt.Errorf("%s: %w", s.filePath, err)
	}
	return cfg, nil
}

// Save writes cfg to the configuration file.
func (s *ConfigStore) Save(cfg domain.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(toRecord(cfg))
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

func toRecord(cfg domain.AppConfig) configRecord {
	return configRecord{
		DataDir: cfg.DataDir,
		Verbose: cfg.Verbose,
		MQTT: mqttRecord{
			Port:           cfg.MQTT.Port,
			ClientID:       cfg.MQTT.ClientID,
			ConnectTimeout: int(cfg.MQTT.ConnectTimeout / time.Second),
			QoS:            int(cfg.MQTT.QoS),
		},
		List: listRecord{SortReverse: cfg.List.SortReverse},
	}
}

func fromRecord(rec configRecord) (domain.AppConfig, error) {
	cfg := domain.DefaultAppConfig()
	cfg.Verbose = rec.Verbose
	cfg.List.SortReverse = rec.List.SortReverse
	cfg.MQTT.ClientID = strings.TrimSpace(rec.MQTT.ClientID)

	if dir := strings.TrimSpace(rec.DataDir); dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return cfg, fmt.Errorf("data_dir: %w", err)
		}
		cfg.DataDir = expanded
	}

	switch {
	case rec.MQTT.Port == 0:
	case rec.MQTT.Port < 1 || rec.MQTT.Port > 65535:
		return cfg, fmt.Errorf("%w: mqtt.port %d out of range", domain.ErrValidation, rec.MQTT.Port)
	default:
		cfg.MQTT.Port = rec.MQTT.Port
	}

	if rec.MQTT.ConnectTimeout < 0 {
		return cfg, fmt.Errorf("%w: mqtt.connect_timeout must not be negative", domain.ErrValidation)
	}
	if rec.MQTT.ConnectTimeout > 0 {
		cfg.MQTT.ConnectTimeout = time.Duration(rec.MQTT.ConnectTimeout) * time.Second
	}

	if rec.MQTT.QoS < 0 || rec.MQTT.QoS > 2 {
		return cfg, fmt.Errorf("%w: mqtt.qos must be 0, 1 or 2", domain.ErrValidation)
	}
	cfg.MQTT.QoS = byte(rec.MQTT.QoS)

	return cfg, nil
}

// expandPath resolves a leading ~ to the home directory.
func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

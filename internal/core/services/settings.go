package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/core/ports/driven"
	"github.com/gsog/shoplist/internal/core/ports/driving"
	"github.com/gsog/shoplist/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService holds the session's user settings. Settings are loaded
// once with GetOrCreate and only change through Update.
type SettingsService struct {
	gateway driven.SettingsGateway
	sync    driving.SyncService // may be nil when running offline
	port    int
	client  string

	mu      sync.Mutex
	current domain.Settings
	applied *domain.MQTTSettings
}

// NewSettingsService creates a settings service. mqtt supplies the default
// broker port and client ID; an empty client ID is generated once here.
func NewSettingsService(gateway driven.SettingsGateway, syncService driving.SyncService, mqtt domain.MQTTConfig) *SettingsService {
	clientID := mqtt.ClientID
	if clientID == "" {
		clientID = "shoplist-" + uuid.NewString()[:8]
	}
	return &SettingsService{
		gateway: gateway,
		sync:    syncService,
		port:    mqtt.Port,
		client:  clientID,
		current: domain.DefaultSettings(),
	}
}

// GetOrCreate loads settings. When no settings were saved yet, defaults are
// written and returned, so a settings file exists after the first call.
func (s *SettingsService) GetOrCreate() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.gateway.ReadSettings()
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("No settings file, writing defaults")
		settings = domain.DefaultSettings()
		if err := s.gateway.WriteSettings(settings); err != nil {
			return settings, fmt.Errorf("save default settings: %w", err)
		}
	} else if err != nil {
		return s.current, fmt.Errorf("load settings: %w", err)
	}

	s.current = settings
	return settings, nil
}

// Get returns the settings held for this session.
func (s *SettingsService) Get() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ClientID returns the broker client ID used for this session.
func (s *SettingsService) ClientID() string {
	return s.client
}

// Update applies patch, validates the result and persists it. On error the
// session settings are unchanged.
func (s *SettingsService) Update(patch domain.SettingsPatch) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Apply(patch)
	if err := next.Validate(); err != nil {
		return s.current, err
	}
	if _, _, err := domain.ParseBrokerAddress(next.MQTTServer, s.port); err != nil {
		return s.current, err
	}
	if err := s.gateway.WriteSettings(next); err != nil {
		return s.current, fmt.Errorf("save settings: %w", err)
	}

	s.current = next
	return next, nil
}

// Target builds the broker target for the current settings.
func (s *SettingsService) Target() (domain.BrokerTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewBrokerTarget(s.current.MQTT(), s.port, s.client)
}

// ApplyMQTTSettingsIfChanged reconnects when the broker-related settings
// differ from those last applied. The first call always connects.
func (s *SettingsService) ApplyMQTTSettingsIfChanged(ctx context.Context) (bool, error) {
	if s.sync == nil {
		return false, errors.New("sync service not configured")
	}

	s.mu.Lock()
	mqtt := s.current.MQTT()
	if s.applied != nil && *s.applied == mqtt {
		s.mu.Unlock()
		return false, nil
	}
	target, err := domain.NewBrokerTarget(mqtt, s.port, s.client)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.applied = &mqtt
	s.mu.Unlock()

	logger.Debug("MQTT settings changed, reconnecting to %s", target.Address())
	s.sync.Reconnect(ctx, target)
	return true, nil
}

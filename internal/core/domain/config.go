package domain

import "time"

// MQTTConfig holds broker client tuning that is not part of user settings.
type MQTTConfig struct {
	// Port is used when the server setting carries no port.
	Port int

	// ClientID identifies this device to the broker. Empty generates one.
	ClientID string

	// ConnectTimeout bounds a single connection attempt.
	ConnectTimeout time.Duration

	// QoS is the MQTT quality of service for publish and subscribe (0-2).
	QoS byte
}

// ListConfig holds list view preferences.
type ListConfig struct {
	// SortReverse inverts the canonical entry order.
	SortReverse bool
}

// AppConfig holds application configuration stored in config.toml.
type AppConfig struct {
	// DataDir holds entries.json, settings.json and journal.db.
	DataDir string

	// Verbose enables debug logging.
	Verbose bool

	MQTT MQTTConfig
	List ListConfig
}

// DefaultAppConfig returns configuration with sensible defaults.
// DataDir is left empty; adapters resolve it to ~/.shoplist/files.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		MQTT: MQTTConfig{
			Port:           DefaultMQTTPort,
			ConnectTimeout: 5 * time.Second,
			QoS:            0,
		},
	}
}

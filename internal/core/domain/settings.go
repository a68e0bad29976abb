package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// Language selects the UI translation.
type Language string

// Supported languages.
const (
	LanguageGerman  Language = "DE"
	LanguageEnglish Language = "EN"
	LanguageFrench  Language = "FR"
)

// IsValid returns true if the language is supported.
func (l Language) IsValid() bool {
	switch l {
	case LanguageGerman, LanguageEnglish, LanguageFrench:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// Description returns a human-readable name of the language.
func (l Language) Description() string {
	switch l {
	case LanguageGerman:
		return "Deutsch"
	case LanguageEnglish:
		return "English"
	case LanguageFrench:
		return "Français"
	default:
		return unknownDescription
	}
}

// ParseLanguage accepts a language code in any letter case.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToUpper(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", fmt.Errorf("%w: unsupported language %q", ErrValidation, s)
	}
	return l, nil
}

// AllLanguages returns all supported languages.
func AllLanguages() []Language {
	return []Language{LanguageGerman, LanguageEnglish, LanguageFrench}
}

// Default settings values.
const (
	DefaultMQTTServer = "broker.hivemq.com"
	DefaultMQTTTopic  = "gsog/shopping"
)

// Settings holds the user settings persisted in settings.json.
type Settings struct {
	Language     Language
	DarkTheme    bool
	MQTTServer   string
	MQTTTopic    string
	MQTTUsername string
	MQTTPassword string
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() Settings {
	return Settings{
		Language:   LanguageGerman,
		DarkTheme:  false,
		MQTTServer: DefaultMQTTServer,
		MQTTTopic:  DefaultMQTTTopic,
	}
}

// MQTTSettings is the subset of Settings that determines the broker session.
type MQTTSettings struct {
	Server   string
	Topic    string
	Username string
	Password string
}

// MQTT returns the broker-related fields.
func (s Settings) MQTT() MQTTSettings {
	return MQTTSettings{
		Server:   s.MQTTServer,
		Topic:    s.MQTTTopic,
		Username: s.MQTTUsername,
		Password: s.MQTTPassword,
	}
}

// Validate checks the settings for values the app cannot work with.
func (s Settings) Validate() error {
	if !s.Language.IsValid() {
		return fmt.Errorf("%w: unsupported language %q", ErrValidation, s.Language)
	}
	if strings.TrimSpace(s.MQTTServer) == "" {
		return fmt.Errorf("%w: mqtt server is empty", ErrValidation)
	}
	if strings.TrimSpace(s.MQTTTopic) == "" {
		return fmt.Errorf("%w: mqtt topic is empty", ErrValidation)
	}
	return nil
}

// SettingsPatch is a partial update; nil fields are left unchanged.
type SettingsPatch struct {
	Language     *Language
	DarkTheme    *bool
	MQTTServer   *string
	MQTTTopic    *string
	MQTTUsername *string
	MQTTPassword *string
}

// Apply returns a copy of s with the non-nil patch fields applied.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.DarkTheme != nil {
		s.DarkTheme = *p.DarkTheme
	}
	if p.MQTTServer != nil {
		s.MQTTServer = strings.TrimSpace(*p.MQTTServer)
	}
	if p.MQTTTopic != nil {
		s.MQTTTopic = strings.TrimSpace(*p.MQTTTopic)
	}
	if p.MQTTUsername != nil {
		s.MQTTUsername = *p.MQTTUsername
	}
	if p.MQTTPassword != nil {
		s.MQTTPassword = *p.MQTTPassword
	}
	return s
}

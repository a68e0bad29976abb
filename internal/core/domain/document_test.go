package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEntries_Format(t *testing.T) {
	data, err := EncodeEntries([]ShoppingEntry{{ID: "ignored", Text: "Milk"}})
	require.NoError(t, err)

	want := "{\n    \"entries\": [\n        {\n            \"is_checked\": false,\n            \"text\": \"Milk\"\n        }\n    ]\n}"
	assert.Equal(t, want, string(data))
}

func TestEncodeEntries_EmptyIsArray(t *testing.T) {
	data, err := EncodeEntries(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"entries": []}`, string(data))
}

func TestEntries_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		entries []ShoppingEntry
	}{
		{"empty", []ShoppingEntry{}},
		{"single", []ShoppingEntry{{Text: "Milk"}}},
		{"duplicates", []ShoppingEntry{{Text: "Milk"}, {Text: "Milk"}, {Text: "Eggs", IsChecked: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeEntries(tt.entries)
			require.NoError(t, err)

			got, err := DecodeEntries(data)
			require.NoError(t, err)
			assert.Equal(t, tt.entries, got)
		})
	}
}

func TestDecodeEntries_MissingCheckedDefaultsFalse(t *testing.T) {
	got, err := DecodeEntries([]byte(`{"entries":[{"text":"Eggs"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []ShoppingEntry{{Text: "Eggs"}}, got)
}

func TestDecodeEntries_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `entries`},
		{"missing entries", `{}`},
		{"null entries", `{"entries": null}`},
		{"unknown root field", `{"entries": [], "version": 2}`},
		{"unknown entry field", `{"entries": [{"text": "Milk", "qty": 2}]}`},
		{"missing text", `{"entries": [{"is_checked": true}]}`},
		{"blank text", `{"entries": [{"text": "  "}]}`},
		{"wrong type", `{"entries": [{"text": 5}]}`},
		{"trailing data", `{"entries": []} {"entries": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEntries([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDocument))
		})
	}
}

func TestSettings_RoundTrip(t *testing.T) {
	s := Settings{
		Language:     LanguageFrench,
		DarkTheme:    true,
		MQTTServer:   "mqtt.local:1884",
		MQTTTopic:    "home/list",
		MQTTUsername: "alice",
		MQTTPassword: "pw",
	}

	data, err := EncodeSettings(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"settings"`)
	assert.Contains(t, string(data), `"mqtt_server": "mqtt.local:1884"`)

	got, err := DecodeSettings(data)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDecodeSettings_MissingFieldsUseDefaults(t *testing.T) {
	got, err := DecodeSettings([]byte(`{"settings": {"language": "EN"}}`))
	require.NoError(t, err)

	want := DefaultSettings()
	want.Language = LanguageEnglish
	assert.Equal(t, want, got)
}

func TestDecodeSettings_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing settings", `{}`},
		{"unknown field", `{"settings": {"font": "big"}}`},
		{"bad language", `{"settings": {"language": "XX"}}`},
		{"wrong type", `{"settings": {"dark_theme": "yes"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSettings([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDocument))
		})
	}
}

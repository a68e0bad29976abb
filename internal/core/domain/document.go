package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// documentIndent matches the four-space indentation of existing files.
const documentIndent = "    "

// entryRecord is the wire and file form of a ShoppingEntry.
type entryRecord struct {
	IsChecked bool   `json:"is_checked"`
	Text      string `json:"text"`
}

type entriesDocument struct {
	Entries []entryRecord `json:"entries"`
}

// strict read-side forms: pointers tell missing fields apart from zero values.
type entryRecordIn struct {
	IsChecked *bool   `json:"is_checked"`
	Text      *string `json:"text"`
}

type entriesDocumentIn struct {
	Entries *[]entryRecordIn `json:"entries"`
}

type settingsRecord struct {
	Language     string `json:"language"`
	DarkTheme    bool   `json:"dark_theme"`
	MQTTServer   string `json:"mqtt_server"`
	MQTTTopic    string `json:"mqtt_topic"`
	MQTTUsername string `json:"mqtt_username"`
	MQTTPassword string `json:"mqtt_password"`
}

type settingsDocument struct {
	Settings settingsRecord `json:"settings"`
}

type settingsRecordIn struct {
	Language     *string `json:"language"`
	DarkTheme    *bool   `json:"dark_theme"`
	MQTTServer   *string `json:"mqtt_server"`
	MQTTTopic    *string `json:"mqtt_topic"`
	MQTTUsername *string `json:"mqtt_username"`
	MQTTPassword *string `json:"mqtt_password"`
}

type settingsDocumentIn struct {
	Settings *settingsRecordIn `json:"settings"`
}

// EncodeEntries renders entries as the {"entries": [...]} document used both
// for entries.json and the broker payload. IDs are not written.
func EncodeEntries(entries []ShoppingEntry) ([]byte, error) {
	doc := entriesDocument{Entries: make([]entryRecord, 0, len(entries))}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, entryRecord{IsChecked: e.IsChecked, Text: e.Text})
	}
	data, err := json.MarshalIndent(doc, "", documentIndent)
	if err != nil {
		return nil, fmt.Errorf("marshal entries: %w", err)
	}
	return data, nil
}

// DecodeEntries parses an entries document. Unknown fields, a missing
// "entries" array and entries without text are rejected; a missing
// "is_checked" means false. Returned entries carry no IDs.
func DecodeEntries(data []byte) ([]ShoppingEntry, error) {
	var doc entriesDocumentIn
	if err := decodeStrict(data, &doc); err != nil {
		return nil, err
	}
	if doc.Entries == nil {
		return nil, fmt.Errorf("%w: missing \"entries\"", ErrInvalidDocument)
	}

	entries := make([]ShoppingEntry, 0, len(*doc.Entries))
	for i, rec := range *doc.Entries {
		if rec.Text == nil {
			return nil, fmt.Errorf("%w: entry %d has no \"text\"", ErrInvalidDocument, i)
		}
		text, err := NormaliseText(*rec.Text)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidDocument, i, err)
		}
		checked := false
		if rec.IsChecked != nil {
			checked = *rec.IsChecked
		}
		entries = append(entries, ShoppingEntry{Text: text, IsChecked: checked})
	}
	return entries, nil
}

// EncodeSettings renders the {"settings": {...}} document.
func EncodeSettings(s Settings) ([]byte, error) {
	doc := settingsDocument{Settings: settingsRecord{
		Language:     s.Language.String(),
		DarkTheme:    s.DarkTheme,
		MQTTServer:   s.MQTTServer,
		MQTTTopic:    s.MQTTTopic,
		MQTTUsername: s.MQTTUsername,
		MQTTPassword: s.MQTTPassword,
	}}
	data, err := json.MarshalIndent(doc, "", documentIndent)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return data, nil
}

// DecodeSettings parses a settings document. Missing fields take their
// default value; unknown fields and unsupported languages are rejected.
func DecodeSettings(data []byte) (Settings, error) {
	var doc settingsDocumentIn
	if err := decodeStrict(data, &doc); err != nil {
		return Settings{}, err
	}
	if doc.Settings == nil {
		return Settings{}, fmt.Errorf("%w: missing \"settings\"", ErrInvalidDocument)
	}

	s := DefaultSettings()
	rec := doc.Settings
	if rec.Language != nil {
		lang, err := ParseLanguage(*rec.Language)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		s.Language = lang
	}
	if rec.DarkTheme != nil {
		s.DarkTheme = *rec.DarkTheme
	}
	if rec.MQTTServer != nil {
		s.MQTTServer = *rec.MQTTServer
	}
	if rec.MQTTTopic != nil {
		s.MQTTTopic = *rec.MQTTTopic
	}
	if rec.MQTTUsername != nil {
		s.MQTTUsername = *rec.MQTTUsername
	}
	if rec.MQTTPassword != nil {
		s.MQTTPassword = *rec.MQTTPassword
	}
	return s, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after document", ErrInvalidDocument)
	}
	return nil
}

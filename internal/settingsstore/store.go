// Package settingsstore persists the provider settings snapshot and applies
// the install and update migrations.
package settingsstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/localrivet/pagesummary/internal/settings"
)

// Storage keys, matching the shape the settings have always been stored in.
const (
	KeyAPIType  = "apiType"
	KeyOpenAI   = "openai"
	KeyGemini   = "gemini"
	KeyDeepSeek = "deepseek"

	// KeyLegacyAPIKey held the single key of releases that supported one provider.
	KeyLegacyAPIKey = "apiKey"
)

// SettingsStore defines the interface for storing and retrieving settings.
type SettingsStore interface {
	// Initialize opens the store and runs the install or update migration.
	Initialize(dbPath string) error

	// Close closes the store and releases any resources.
	Close() error

	// Load returns a fresh snapshot with defaults filled in.
	Load(ctx context.Context) (settings.Settings, error)

	// Save writes the normalized snapshot atomically.
	Save(ctx context.Context, s settings.Settings) error
}

// decodeStored turns raw key/value rows into settings.Stored. Unknown keys
// are ignored.
func decodeStored(rows map[string]string) (settings.Stored, error) {
	var stored settings.Stored

	if raw, ok := rows[KeyAPIType]; ok {
		var kind string
		if err := json.Unmarshal([]byte(raw), &kind); err != nil {
			return stored, fmt.Errorf("decode %s: %w", KeyAPIType, err)
		}
		stored.APIType = settings.ProviderKind(kind)
	}

	blocks := []struct {
		key  string
		dest **settings.ProviderConfig
	}{
		{KeyOpenAI, &stored.OpenAI},
		{KeyGemini, &stored.Gemini},
		{KeyDeepSeek, &stored.DeepSeek},
	}
	for _, b := range blocks {
		raw, ok := rows[b.key]
		if !ok {
			continue
		}
		var cfg settings.ProviderConfig
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			return stored, fmt.Errorf("decode %s: %w", b.key, err)
		}
		*b.dest = &cfg
	}

	if raw, ok := rows[KeyLegacyAPIKey]; ok {
		var key string
		if err := json.Unmarshal([]byte(raw), &key); err != nil {
			return stored, fmt.Errorf("decode %s: %w", KeyLegacyAPIKey, err)
		}
		stored.LegacyAPIKey = key
	}

	return stored, nil
}

// encodeSettings renders a snapshot as key/value rows.
func encodeSettings(s settings.Settings) (map[string]string, error) {
	values := map[string]interface{}{
		KeyAPIType:  string(s.APIType),
		KeyOpenAI:   s.OpenAI,
		KeyGemini:   s.Gemini,
		KeyDeepSeek: s.DeepSeek,
	}

	rows := make(map[string]string, len(values))
	for key, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		rows[key] = string(raw)
	}
	return rows, nil
}

package settings

// Stored is the raw content of the settings store before defaults are
// applied. Nil provider blocks were never written.
type Stored struct {
	APIType  ProviderKind
	OpenAI   *ProviderConfig
	Gemini   *ProviderConfig
	DeepSeek *ProviderConfig

	// LegacyAPIKey is the single key written by releases that supported
	// only one provider at a time.
	LegacyAPIKey string
}

// Merge layers stored values over the defaults, field by field, and moves a
// legacy single key into the provider it belonged to. The legacy key is only
// honoured when neither the openai nor the gemini block was ever written.
func Merge(stored Stored) Settings {
	merged := Defaults()
	if stored.APIType != "" {
		merged.APIType = stored.APIType
	}
	merged.OpenAI = overlay(merged.OpenAI, stored.OpenAI)
	merged.Gemini = overlay(merged.Gemini, stored.Gemini)
	merged.DeepSeek = overlay(merged.DeepSeek, stored.DeepSeek)

	if stored.LegacyAPIKey != "" && stored.OpenAI == nil && stored.Gemini == nil {
		if stored.APIType == ProviderGemini {
			merged.Gemini.APIKey = stored.LegacyAPIKey
		} else {
			merged.OpenAI.APIKey = stored.LegacyAPIKey
		}
	}
	return merged
}

func overlay(base ProviderConfig, stored *ProviderConfig) ProviderConfig {
	if stored == nil {
		return base
	}
	if stored.APIKey != "" {
		base.APIKey = stored.APIKey
	}
	if stored.Model != "" {
		base.Model = stored.Model
	}
	return base
}

// Package settings holds the user-facing provider settings shared by the
// settings store, the summarization dispatcher and every settings view.
// It is the only place where default provider values are defined.
package settings

import (
	"strings"
	"unicode/utf8"
)

// ProviderKind identifies one of the supported LLM providers.
type ProviderKind string

const (
	ProviderOpenAI   ProviderKind = "openai"
	ProviderGemini   ProviderKind = "gemini"
	ProviderDeepSeek ProviderKind = "deepseek"
)

// Default values written on install and used to fill blanks.
const (
	DefaultProvider      = ProviderOpenAI
	DefaultOpenAIModel   = "gpt-5-nano-2025-08-07"
	DefaultGeminiModel   = "gemini-2.5-flash-lite"
	DefaultDeepSeekModel = "deepseek-chat"
)

// Kinds lists the supported providers in display order.
var Kinds = []ProviderKind{ProviderOpenAI, ProviderGemini, ProviderDeepSeek}

// Known reports whether kind is one of the supported providers.
func (k ProviderKind) Known() bool {
	switch k {
	case ProviderOpenAI, ProviderGemini, ProviderDeepSeek:
		return true
	}
	return false
}

// DisplayName returns the human readable provider name used in messages.
func (k ProviderKind) DisplayName() string {
	switch k {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderGemini:
		return "Gemini"
	case ProviderDeepSeek:
		return "DeepSeek"
	}
	return string(k)
}

// DefaultModel returns the default model identifier for kind.
func (k ProviderKind) DefaultModel() string {
	switch k {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderDeepSeek:
		return DefaultDeepSeekModel
	}
	return ""
}

// ProviderConfig is the credential and model for a single provider.
type ProviderConfig struct {
	APIKey string `json:"apiKey"`
	Model  string `json:"model"`
}

// Settings is a snapshot of the provider selection and per-provider
// configuration. Snapshots are values; callers never share one for writing.
type Settings struct {
	APIType  ProviderKind   `json:"apiType"`
	OpenAI   ProviderConfig `json:"openai"`
	Gemini   ProviderConfig `json:"gemini"`
	DeepSeek ProviderConfig `json:"deepseek"`
}

// Defaults returns the install-time settings.
func Defaults() Settings {
	return Settings{
		APIType:  DefaultProvider,
		OpenAI:   ProviderConfig{Model: DefaultOpenAIModel},
		Gemini:   ProviderConfig{Model: DefaultGeminiModel},
		DeepSeek: ProviderConfig{Model: DefaultDeepSeekModel},
	}
}

// Provider returns the configuration for kind. The second result is false
// for unknown kinds.
func (s Settings) Provider(kind ProviderKind) (ProviderConfig, bool) {
	switch kind {
	case ProviderOpenAI:
		return s.OpenAI, true
	case ProviderGemini:
		return s.Gemini, true
	case ProviderDeepSeek:
		return s.DeepSeek, true
	}
	return ProviderConfig{}, false
}

// WithProvider returns a copy of s with the configuration for kind replaced.
// Unknown kinds leave s unchanged.
func (s Settings) WithProvider(kind ProviderKind, cfg ProviderConfig) Settings {
	switch kind {
	case ProviderOpenAI:
		s.OpenAI = cfg
	case ProviderGemini:
		s.Gemini = cfg
	case ProviderDeepSeek:
		s.DeepSeek = cfg
	}
	return s
}

// Active returns the kind selected by APIType and its configuration.
func (s Settings) Active() (ProviderKind, ProviderConfig, bool) {
	cfg, ok := s.Provider(s.APIType)
	return s.APIType, cfg, ok
}

// Normalized trims every field and replaces blank models with the
// provider default. An unknown APIType is kept as is so that dispatch can
// reject it; a blank one becomes the default provider.
func (s Settings) Normalized() Settings {
	s.APIType = ProviderKind(strings.TrimSpace(string(s.APIType)))
	if s.APIType == "" {
		s.APIType = DefaultProvider
	}
	for _, kind := range Kinds {
		cfg, _ := s.Provider(kind)
		cfg.APIKey = strings.TrimSpace(cfg.APIKey)
		cfg.Model = strings.TrimSpace(cfg.Model)
		if cfg.Model == "" {
			cfg.Model = kind.DefaultModel()
		}
		s = s.WithProvider(kind, cfg)
	}
	return s
}

// Masked returns a copy of s that is safe to display: every credential is
// reduced to its last four characters.
func (s Settings) Masked() Settings {
	for _, kind := range Kinds {
		cfg, _ := s.Provider(kind)
		cfg.APIKey = MaskKey(cfg.APIKey)
		s = s.WithProvider(kind, cfg)
	}
	return s
}

// MaskKey hides all but the last four characters of key.
func MaskKey(key string) string {
	n := utf8.RuneCountInString(key)
	if n == 0 {
		return ""
	}
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	runes := []rune(key)
	return "****" + string(runes[n-4:])
}

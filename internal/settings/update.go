package settings

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProvider is returned when an update names an unsupported provider.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrNoProvider is returned when an update sets a key or model without
// naming the provider it belongs to.
var ErrNoProvider = errors.New("provider is required when setting an API key or model")

// Update is a partial change to a snapshot. Nil fields are left as they are.
type Update struct {
	APIType  *ProviderKind
	Provider ProviderKind
	APIKey   *string
	Model    *string
}

// ParseKind resolves a user supplied provider name.
func ParseKind(name string) (ProviderKind, error) {
	kind := ProviderKind(strings.ToLower(strings.TrimSpace(name)))
	if !kind.Known() {
		return "", fmt.Errorf("%w %q", ErrUnknownProvider, name)
	}
	return kind, nil
}

// Apply returns s with u applied and the result normalized.
func (s Settings) Apply(u Update) (Settings, error) {
	if u.APIType != nil {
		if !u.APIType.Known() {
			return s, fmt.Errorf("%w %q", ErrUnknownProvider, *u.APIType)
		}
		s.APIType = *u.APIType
	}

	if u.APIKey != nil || u.Model != nil {
		if u.Provider == "" {
			return s, ErrNoProvider
		}
		cfg, ok := s.Provider(u.Provider)
		if !ok {
			return s, fmt.Errorf("%w %q", ErrUnknownProvider, u.Provider)
		}
		if u.APIKey != nil {
			cfg.APIKey = *u.APIKey
		}
		if u.Model != nil {
			cfg.Model = *u.Model
		}
		s = s.WithProvider(u.Provider, cfg)
	}

	return s.Normalized(), nil
}

// Unmask restores credentials that were sent back in their masked display
// form, so a snapshot read from a settings view can be saved unchanged.
func (s Settings) Unmask(current Settings) Settings {
	for _, kind := range Kinds {
		cfg, _ := s.Provider(kind)
		old, _ := current.Provider(kind)
		if old.APIKey != "" && cfg.APIKey == MaskKey(old.APIKey) {
			cfg.APIKey = old.APIKey
			s = s.WithProvider(kind, cfg)
		}
	}
	return s
}

// ProviderPatch is a provider block in a Patch. Absent fields keep their
// current value.
type ProviderPatch struct {
	APIKey *string `json:"apiKey,omitempty"`
	Model  *string `json:"model,omitempty"`
}

// Patch is a settings document as sent by a settings view. Only the
// provider blocks and fields it carries are changed; a blank apiType keeps
// the current selection.
type Patch struct {
	APIType  ProviderKind   `json:"apiType,omitempty"`
	OpenAI   *ProviderPatch `json:"openai,omitempty"`
	Gemini   *ProviderPatch `json:"gemini,omitempty"`
	DeepSeek *ProviderPatch `json:"deepseek,omitempty"`
}

func (p Patch) block(kind ProviderKind) *ProviderPatch {
	switch kind {
	case ProviderOpenAI:
		return p.OpenAI
	case ProviderGemini:
		return p.Gemini
	case ProviderDeepSeek:
		return p.DeepSeek
	}
	return nil
}

// Updates returns p as a sequence of partial changes.
func (p Patch) Updates() []Update {
	var updates []Update
	if kind := ProviderKind(strings.TrimSpace(string(p.APIType))); kind != "" {
		updates = append(updates, Update{APIType: &kind})
	}
	for _, kind := range Kinds {
		if b := p.block(kind); b != nil {
			updates = append(updates, Update{Provider: kind, APIKey: b.APIKey, Model: b.Model})
		}
	}
	return updates
}

// ApplyPatch applies every change in p to s. Credentials sent back in their
// masked display form keep the value they have in s.
func (s Settings) ApplyPatch(p Patch) (Settings, error) {
	next := s
	for _, u := range p.Updates() {
		var err error
		if next, err = next.Apply(u); err != nil {
			return s, err
		}
	}
	return next.Unmask(s).Normalized(), nil
}

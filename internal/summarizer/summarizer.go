// Package summarizer turns page content and the active provider settings
// into a single provider request and returns the cleaned-up summary.
package summarizer

import (
	"context"

	"github.com/localrivet/pagesummary/internal/settings"
)

// SummaryRequest is the inbound request: readable page text, the page URL
// and the requested summary style.
type SummaryRequest struct {
	Content   string `json:"content"`
	SourceURL string `json:"url"`
	Style     Style  `json:"summaryType"`
}

// SummaryResult is a successful summary plus request metadata.
type SummaryResult struct {
	Text      string                `json:"summary"`
	Provider  settings.ProviderKind `json:"provider"`
	Model     string                `json:"model"`
	RequestID string                `json:"request_id"`
	Truncated bool                  `json:"truncated"`
}

// Summarizer defines the interface for summarizing page content.
type Summarizer interface {
	// Summarize reads the current settings and returns a summary of req.
	Summarize(ctx context.Context, req SummaryRequest) (SummaryResult, error)
}

// SettingsSource returns a fresh settings snapshot on every call.
type SettingsSource interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// Package tools defines the schemas for the MCP tools exposed by pagesummary.
package tools

import (
	"github.com/localrivet/pagesummary/internal/settings"
)

// Tool names
const (
	ToolSummarizePage = "summarize_page"
	ToolSummarizeURL  = "summarize_url"
	ToolGetSettings   = "get_settings"
	ToolSaveSettings  = "save_settings"
)

// Response statuses, matching the extension message protocol
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SummarizePageRequest defines the input schema for the summarize_page tool.
type SummarizePageRequest struct {
	// Content is the readable text of the page.
	Content string `json:"content" description:"Readable text of the page to summarize" required:"true"`

	// URL is the address of the page the content came from.
	URL string `json:"url" description:"Source URL of the page"`

	// SummaryType selects the prompt: concise, detailed, bullets or investor.
	SummaryType string `json:"summary_type,omitempty" description:"Summary style: concise, detailed, bullets or investor"`
}

// SummarizeURLRequest defines the input schema for the summarize_url tool.
type SummarizeURLRequest struct {
	// URL is the page to fetch and summarize.
	URL string `json:"url" description:"Absolute http or https URL of the page" required:"true"`

	// SummaryType selects the prompt: concise, detailed, bullets or investor.
	SummaryType string `json:"summary_type,omitempty" description:"Summary style: concise, detailed, bullets or investor"`
}

// SummaryData is the payload of a successful summary.
type SummaryData struct {
	Summary   string `json:"summary"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	RequestID string `json:"request_id"`
	Truncated bool   `json:"truncated"`
	WordCount int    `json:"word_count"`

	// Title is set by summarize_url when the page has one.
	Title string `json:"title,omitempty"`
}

// SummarizeResponse defines the output schema for both summarize tools.
type SummarizeResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Data holds the summary on success.
	Data *SummaryData `json:"data,omitempty"`

	// Message is the human readable error on failure.
	Message string `json:"message,omitempty"`

	// Kind classifies the failure, when it is a summarization error.
	Kind string `json:"kind,omitempty"`
}

// GetSettingsRequest defines the input schema for the get_settings tool.
type GetSettingsRequest struct{}

// SaveSettingsRequest defines the input schema for the save_settings tool.
// Empty fields leave the stored value unchanged.
type SaveSettingsRequest struct {
	// APIType selects the active provider.
	APIType string `json:"api_type,omitempty" description:"Active provider: openai, gemini or deepseek"`

	// Provider names the provider APIKey and Model apply to.
	Provider string `json:"provider,omitempty" description:"Provider whose key or model is being set"`

	// APIKey is the credential for Provider.
	APIKey string `json:"api_key,omitempty" description:"API key for the provider"`

	// Model is the model identifier for Provider.
	Model string `json:"model,omitempty" description:"Model identifier for the provider"`
}

// SettingsResponse defines the output schema for get_settings and
// save_settings. Credentials are always masked.
type SettingsResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Data holds the masked settings on success.
	Data *settings.Settings `json:"data,omitempty"`

	// Message is the human readable error on failure.
	Message string `json:"message,omitempty"`
}

// Package server provides the MCP tool server and the HTTP API for the
// pagesummary service.
package server

import (
	"context"

	"github.com/localrivet/pagesummary/internal/extract"
	"github.com/localrivet/pagesummary/internal/settings"
	"github.com/localrivet/pagesummary/internal/summarizer"
)

// ToolServer defines the interface for the MCP server that handles
// summarization and settings tool calls from MCP clients.
type ToolServer interface {
	// Initialize registers the tools.
	Initialize() error

	// Start serves MCP requests on stdio until the client disconnects.
	Start() error

	// Stop gracefully shuts down the MCP server.
	Stop() error
}

// Backend is the set of operations both inbound surfaces expose.
type Backend interface {
	// Summarize summarizes already extracted page content.
	Summarize(ctx context.Context, req summarizer.SummaryRequest) (summarizer.SummaryResult, error)

	// SummarizeURL fetches a page, extracts its text and summarizes it.
	SummarizeURL(ctx context.Context, rawURL string, style summarizer.Style) (extract.Page, summarizer.SummaryResult, error)

	// Settings returns the stored settings with credentials in clear.
	Settings(ctx context.Context) (settings.Settings, error)

	// SaveSettings applies a settings document and returns what was saved.
	SaveSettings(ctx context.Context, p settings.Patch) (settings.Settings, error)

	// UpdateSettings applies a partial change and returns what was saved.
	UpdateSettings(ctx context.Context, u settings.Update) (settings.Settings, error)

	// Health reports readiness without contacting any provider.
	Health(ctx context.Context) (*summarizer.HealthReport, error)
}

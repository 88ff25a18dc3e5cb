package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/localrivet/gomcp/server"

	"github.com/localrivet/pagesummary/internal/errortypes"
	"github.com/localrivet/pagesummary/internal/settings"
	"github.com/localrivet/pagesummary/internal/summarizer"
	"github.com/localrivet/pagesummary/internal/tools"
	"github.com/localrivet/pagesummary/internal/util"
)

// Common server error types
var (
	ErrServerNotInitialized = errors.New("server not initialized")
	ErrMissingDependencies  = errors.New("one or more required dependencies are nil")
)

// MCPToolServer implements the ToolServer interface for handling MCP tool
// calls that summarize pages and manage provider settings.
type MCPToolServer struct {
	backend   Backend
	logger    *slog.Logger
	timeout   time.Duration
	mcpServer server.Server
}

var _ ToolServer = (*MCPToolServer)(nil)

// NewMCPToolServer creates a new MCPToolServer. A positive timeout bounds
// every tool call.
func NewMCPToolServer(backend Backend, logger *slog.Logger, timeout time.Duration) *MCPToolServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MCPToolServer{
		backend: backend,
		logger:  logger.With("component", "mcp"),
		timeout: timeout,
	}
}

// Initialize registers the tools.
func (s *MCPToolServer) Initialize() error {
	s.logger.Info("Initializing MCP tool server")

	if s.backend == nil {
		return errortypes.ConfigError(ErrMissingDependencies, "server initialization failed")
	}

	srv := server.NewServer("pagesummary")

	srv = srv.Tool(tools.ToolSummarizePage, "Summarize readable page text with the active LLM provider",
		s.handleSummarizePage)

	srv = srv.Tool(tools.ToolSummarizeURL, "Fetch a web page, extract its main text and summarize it",
		s.handleSummarizeURL)

	srv = srv.Tool(tools.ToolGetSettings, "Show the provider settings with credentials masked",
		s.handleGetSettings)

	srv = srv.Tool(tools.ToolSaveSettings, "Select the active provider or set a provider's API key and model",
		s.handleSaveSettings)

	s.mcpServer = srv
	return nil
}

// Start serves MCP requests on stdio.
func (s *MCPToolServer) Start() error {
	if s.mcpServer == nil {
		return errortypes.ConfigError(ErrServerNotInitialized, "cannot start server")
	}

	s.logger.Info("Starting MCP tool server")
	return s.mcpServer.AsStdio().Run()
}

// Stop gracefully shuts down the MCP server.
func (s *MCPToolServer) Stop() error {
	s.logger.Info("Stopping MCP tool server")
	// The server exits when stdin is closed
	return nil
}

func (s *MCPToolServer) callContext() (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(context.Background(), s.timeout)
	}
	return context.WithCancel(context.Background())
}

// summaryData converts a result into the tool payload
func summaryData(result summarizer.SummaryResult) *tools.SummaryData {
	return &tools.SummaryData{
		Summary:   result.Text,
		Provider:  string(result.Provider),
		Model:     result.Model,
		RequestID: result.RequestID,
		Truncated: result.Truncated,
		WordCount: util.WordCount(result.Text),
	}
}

// summaryFailure fills the error fields of a response
func summaryFailure(err error) tools.SummarizeResponse {
	resp := errorToResponse(err)
	return tools.SummarizeResponse{
		Status:  tools.StatusError,
		Message: resp.Message,
		Kind:    resp.Kind,
	}
}

// handleSummarizePage handles the summarize_page MCP tool call.
func (s *MCPToolServer) handleSummarizePage(_ *server.Context, req tools.SummarizePageRequest) (tools.SummarizeResponse, error) {
	s.logger.Info("Processing summarize_page request", "content_length", len(req.Content), "style", req.SummaryType)

	ctx, cancel := s.callContext()
	defer cancel()

	result, err := s.backend.Summarize(ctx, summarizer.SummaryRequest{
		Content:   req.Content,
		SourceURL: req.URL,
		Style:     summarizer.Style(req.SummaryType),
	})
	if err != nil {
		errortypes.LogError(s.logger, err)
		return summaryFailure(err), nil
	}

	return tools.SummarizeResponse{Status: tools.StatusSuccess, Data: summaryData(result)}, nil
}

// handleSummarizeURL handles the summarize_url MCP tool call.
func (s *MCPToolServer) handleSummarizeURL(_ *server.Context, req tools.SummarizeURLRequest) (tools.SummarizeResponse, error) {
	s.logger.Info("Processing summarize_url request", "url", req.URL, "style", req.SummaryType)

	ctx, cancel := s.callContext()
	defer cancel()

	page, result, err := s.backend.SummarizeURL(ctx, req.URL, summarizer.Style(req.SummaryType))
	if err != nil {
		errortypes.LogError(s.logger, err)
		return summaryFailure(err), nil
	}

	data := summaryData(result)
	data.Title = page.Title
	return tools.SummarizeResponse{Status: tools.StatusSuccess, Data: data}, nil
}

// handleGetSettings handles the get_settings MCP tool call.
func (s *MCPToolServer) handleGetSettings(_ *server.Context, _ tools.GetSettingsRequest) (tools.SettingsResponse, error) {
	ctx, cancel := s.callContext()
	defer cancel()

	current, err := s.backend.Settings(ctx)
	if err != nil {
		errortypes.LogError(s.logger, err)
		return tools.SettingsResponse{Status: tools.StatusError, Message: errorToResponse(err).Message}, nil
	}

	masked := current.Masked()
	return tools.SettingsResponse{Status: tools.StatusSuccess, Data: &masked}, nil
}

// updateFromRequest converts the tool request into a partial settings update.
func updateFromRequest(req tools.SaveSettingsRequest) (settings.Update, error) {
	var u settings.Update
	if req.APIType != "" {
		kind, err := settings.ParseKind(req.APIType)
		if err != nil {
			return u, err
		}
		u.APIType = &kind
	}
	if req.Provider != "" {
		kind, err := settings.ParseKind(req.Provider)
		if err != nil {
			return u, err
		}
		u.Provider = kind
	}
	if req.APIKey != "" {
		u.APIKey = &req.APIKey
	}
	if req.Model != "" {
		u.Model = &req.Model
	}
	if u.APIType == nil && u.APIKey == nil && u.Model == nil {
		return u, errors.New("nothing to save: set api_type, or provider with api_key or model")
	}
	return u, nil
}

// handleSaveSettings handles the save_settings MCP tool call.
func (s *MCPToolServer) handleSaveSettings(_ *server.Context, req tools.SaveSettingsRequest) (tools.SettingsResponse, error) {
	s.logger.Info("Processing save_settings request", "api_type", req.APIType, "provider", req.Provider)

	u, err := updateFromRequest(req)
	if err != nil {
		err = errortypes.ValidationError(err, "invalid settings")
		errortypes.LogError(s.logger, err)
		return tools.SettingsResponse{Status: tools.StatusError, Message: err.Error()}, nil
	}

	ctx, cancel := s.callContext()
	defer cancel()

	saved, err := s.backend.UpdateSettings(ctx, u)
	if err != nil {
		errortypes.LogError(s.logger, err)
		return tools.SettingsResponse{Status: tools.StatusError, Message: errorToResponse(err).Message}, nil
	}

	masked := saved.Masked()
	return tools.SettingsResponse{Status: tools.StatusSuccess, Data: &masked}, nil
}

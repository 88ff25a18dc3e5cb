package providers

import (
	"context"
	"net/http"

	"github.com/localrivet/pagesummary/internal/settings"
)

const (
	openaiAPIURL = "https://api.openai.com/v1/chat/completions"
)

// OpenAIProvider implements the Adapter interface for OpenAI chat completions
type OpenAIProvider struct {
	httpClient *http.Client
	endpoint   string
}

// openAIRequest is the chat-completions body accepted by OpenAI
type openAIRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens"`
}

// NewOpenAIProvider creates a new instance of the OpenAI provider
func NewOpenAIProvider(opts Options) *OpenAIProvider {
	return &OpenAIProvider{
		httpClient: opts.client(),
		endpoint:   opts.endpoint(openaiAPIURL),
	}
}

// Kind returns settings.ProviderOpenAI
func (p *OpenAIProvider) Kind() settings.ProviderKind {
	return settings.ProviderOpenAI
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return settings.ProviderOpenAI.DisplayName()
}

// Summarize sends one chat-completions request with a bearer token.
func (p *OpenAIProvider) Summarize(ctx context.Context, req Request) (string, error) {
	body := openAIRequest{
		Model:               req.Model,
		Messages:            chatMessages(req),
		MaxCompletionTokens: MaxOutputTokens,
	}

	ex, err := postJSON(ctx, p.httpClient, p.Name(), p.endpoint, body, bearer(req.APIKey))
	if err != nil {
		return "", err
	}
	return chatSummary(p.Name(), ex)
}

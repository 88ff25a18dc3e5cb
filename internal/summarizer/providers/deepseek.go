package providers

import (
	"context"
	"net/http"

	"github.com/localrivet/pagesummary/internal/settings"
)

const (
	deepseekAPIURL = "https://api.deepseek.com/chat/completions"
)

// DeepSeekProvider implements the Adapter interface for DeepSeek. The API is
// chat-completions compatible but takes max_tokens for the output cap.
type DeepSeekProvider struct {
	httpClient *http.Client
	endpoint   string
}

type deepSeekRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

// NewDeepSeekProvider creates a new instance of the DeepSeek provider
func NewDeepSeekProvider(opts Options) *DeepSeekProvider {
	return &DeepSeekProvider{
		httpClient: opts.client(),
		endpoint:   opts.endpoint(deepseekAPIURL),
	}
}

func (p *DeepSeekProvider) Kind() settings.ProviderKind {
	return settings.ProviderDeepSeek
}

func (p *DeepSeekProvider) Name() string {
	return settings.ProviderDeepSeek.DisplayName()
}

// Summarize implements the Adapter interface for DeepSeek
func (p *DeepSeekProvider) Summarize(ctx context.Context, req Request) (string, error) {
	body := deepSeekRequest{
		Model:     req.Model,
		Messages:  chatMessages(req),
		MaxTokens: MaxOutputTokens,
	}

	ex, err := postJSON(ctx, p.httpClient, p.Name(), p.endpoint, body, bearer(req.APIKey))
	if err != nil {
		return "", err
	}
	return chatSummary(p.Name(), ex)
}

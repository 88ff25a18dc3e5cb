package providers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/localrivet/pagesummary/internal/errortypes"
	"github.com/localrivet/pagesummary/internal/settings"
)

const (
	geminiAPIURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

// GeminiProvider implements the Adapter interface for Google's Gemini models.
// The API key travels as the key query parameter.
type GeminiProvider struct {
	httpClient *http.Client
	baseURL    string
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

// geminiRequest represents a generateContent request
type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		MaxOutputTokens int `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

// geminiResponse represents the fields of a generateContent response we read
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// NewGeminiProvider creates a new instance of the Gemini provider
func NewGeminiProvider(opts Options) *GeminiProvider {
	return &GeminiProvider{
		httpClient: opts.client(),
		baseURL:    strings.TrimRight(opts.endpoint(geminiAPIURL), "/"),
	}
}

func (p *GeminiProvider) Kind() settings.ProviderKind {
	return settings.ProviderGemini
}

func (p *GeminiProvider) Name() string {
	return settings.ProviderGemini.DisplayName()
}

func (p *GeminiProvider) modelURL(model, apiKey string) string {
	query := url.Values{"key": []string{apiKey}}
	return p.baseURL + "/" + url.PathEscape(model) + ":generateContent?" + query.Encode()
}

// Summarize implements the Adapter interface for Gemini
func (p *GeminiProvider) Summarize(ctx context.Context, req Request) (string, error) {
	var body geminiRequest
	body.Contents = []geminiContent{{Parts: []geminiPart{{Text: req.UserMessage()}}}}
	body.GenerationConfig.MaxOutputTokens = MaxOutputTokens

	ex, err := postJSON(ctx, p.httpClient, p.Name(), p.modelURL(req.Model, req.APIKey), body, nil)
	if err != nil {
		return "", err
	}

	var resp geminiResponse
	if err := decode(p.Name(), ex, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 ||
		len(resp.Candidates[0].Content.Parts) == 0 ||
		resp.Candidates[0].Content.Parts[0].Text == "" {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", errortypes.BlockedResponse(p.Name(), resp.PromptFeedback.BlockReason)
		}
		return "", errortypes.EmptyResponse(p.Name(), "The response was empty or malformed.")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

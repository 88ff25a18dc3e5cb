// Package providers contains the adapters that turn a summarization request
// into one provider-specific HTTP call and map the response back to text or
// to a SummaryError.
package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/localrivet/pagesummary/internal/settings"
)

const (
	// MaxOutputTokens caps the length of every generated summary.
	MaxOutputTokens = 2000

	// SystemPrompt is sent as the system message to chat-shaped providers.
	SystemPrompt = "You are a skilled assistant that specializes in creating clear, accurate summaries of online content. " +
		"Format your responses using markdown for better readability. Use headings, bullet points, and emphasis where appropriate. " +
		"If needed, you can include LaTeX math expressions using $ notation."
)

// Request carries everything an adapter needs for one call.
type Request struct {
	Instruction string
	Content     string
	SourceURL   string
	APIKey      string
	Model       string
}

// UserMessage renders the user-facing message body, identical for every provider.
func (r Request) UserMessage() string {
	return fmt.Sprintf("%s\n\nArticle URL: %s\n\nContent:\n%s", r.Instruction, r.SourceURL, r.Content)
}

// Adapter is implemented by every provider. Adapters are stateless and make
// exactly one HTTP request per Summarize call.
type Adapter interface {
	// Kind returns the provider kind served by this adapter
	Kind() settings.ProviderKind

	// Name returns the display name used in error messages
	Name() string

	// Summarize returns the provider's raw summary text or a *errortypes.SummaryError
	Summarize(ctx context.Context, req Request) (string, error)
}

// Options configures how adapters reach their provider.
type Options struct {
	// HTTPClient is used for every request. Nil means a client without a timeout.
	HTTPClient *http.Client

	// Endpoint replaces the provider's API URL, e.g. to target a test server.
	// For Gemini it replaces the models base URL.
	Endpoint string
}

func (o Options) client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{}
}

func (o Options) endpoint(fallback string) string {
	if o.Endpoint != "" {
		return o.Endpoint
	}
	return fallback
}

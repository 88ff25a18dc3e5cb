package providers

import (
	"net/http"

	"github.com/localrivet/pagesummary/internal/errortypes"
)

// chatMessage is one entry of a chat-completions message array.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of a chat-completions response we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func chatMessages(req Request) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: req.UserMessage()},
	}
}

func bearer(apiKey string) http.Header {
	h := make(http.Header)
	h.Set("Authorization", "Bearer "+apiKey)
	return h
}

// chatSummary extracts choices[0].message.content from a chat exchange.
func chatSummary(provider string, ex exchange) (string, error) {
	var resp chatResponse
	if err := decode(provider, ex, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errortypes.EmptyResponse(provider, "The content may have been blocked or the response was empty.")
	}
	return resp.Choices[0].Message.Content, nil
}

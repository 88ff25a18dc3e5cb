package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localrivet/pagesummary/internal/errortypes"
	"github.com/localrivet/pagesummary/internal/logger"
	"github.com/localrivet/pagesummary/internal/settings"
	"github.com/localrivet/pagesummary/internal/summarizer"
	"github.com/localrivet/pagesummary/internal/tools"
)

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func newTestAPI(backend Backend) *API {
	return NewAPI(backend, HTTPOptions{Logger: logger.Discard()})
}

func TestSummarizeEndpoint(t *testing.T) {
	backend := newStubBackend()
	api := newTestAPI(backend)

	rec := doRequest(t, api, http.MethodPost, "/api/v1/summarize",
		`{"content":"Readable text","url":"https://example.com/a","summaryType":"concise"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp tools.SummarizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, tools.StatusSuccess, resp.Status)
	assert.Equal(t, "A short summary of the page", resp.Data.Summary)
	assert.Equal(t, "req-1", resp.Data.RequestID)
	assert.Equal(t, summarizer.StyleConcise, backend.lastReq.Style)
	assert.Equal(t, "https://example.com/a", backend.lastReq.SourceURL)
}

func TestSummarizeEndpointValidation(t *testing.T) {
	api := newTestAPI(newStubBackend())

	rec := doRequest(t, api, http.MethodPost, "/api/v1/summarize", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorCodeInvalidRequest, decodeError(t, rec).Code)

	rec = doRequest(t, api, http.MethodPost, "/api/v1/summarize", `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, summarizer.ErrEmptyContent.Error())

	rec = doRequest(t, api, http.MethodPost, "/api/v1/summarize", `{"content":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummarizeEndpointErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing credential", errortypes.MissingCredential("OpenAI"), http.StatusBadRequest, ErrorCodeMissingCredential},
		{"invalid provider", errortypes.InvalidProviderSelection("claude"), http.StatusBadRequest, ErrorCodeInvalidProvider},
		{"provider error", errortypes.ProviderReturned("Gemini", 400, "API key not valid"), http.StatusBadGateway, ErrorCodeProviderError},
		{"blocked", errortypes.BlockedResponse("Gemini", "SAFETY"), http.StatusBadGateway, ErrorCodeEmptyResponse},
		{"transport", errortypes.TransportFailure("OpenAI", fmt.Errorf("dial: refused")), http.StatusBadGateway, ErrorCodeBadGateway},
		{"deadline", errortypes.TransportFailure("OpenAI", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrorCodeGatewayTimeout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend := newStubBackend()
			backend.err = tc.err
			rec := doRequest(t, newTestAPI(backend), http.MethodPost, "/api/v1/summarize", `{"content":"text"}`)

			assert.Equal(t, tc.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tc.wantCode, resp.Code)
			assert.Equal(t, string(errortypes.KindOf(tc.err)), resp.Kind)
			assert.Equal(t, tc.err.Error(), resp.Message)
		})
	}
}

func TestSummarizeURLEndpoint(t *testing.T) {
	backend := newStubBackend()
	api := newTestAPI(backend)

	rec := doRequest(t, api, http.MethodPost, "/api/v1/summarize-url", `{"url":"https://example.com/a","summaryType":"investor"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp tools.SummarizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Example", resp.Data.Title)
	assert.Equal(t, summarizer.StyleInvestor, backend.lastStyle)

	rec = doRequest(t, api, http.MethodPost, "/api/v1/summarize-url", `{"url":" "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	backend := newStubBackend()
	api := newTestAPI(backend)

	rec := doRequest(t, api, http.MethodGet, "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got tools.SettingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Data)
	assert.Equal(t, "****1234", got.Data.OpenAI.APIKey)
	assert.NotContains(t, rec.Body.String(), "sk-live")

	// Saving the masked view back keeps the stored key.
	got.Data.APIType = settings.ProviderDeepSeek
	got.Data.DeepSeek.APIKey = " ds-key-0000 "
	body, err := json.Marshal(got.Data)
	require.NoError(t, err)

	rec = doRequest(t, api, http.MethodPut, "/api/v1/settings", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "sk-live-abcd1234", backend.stored.OpenAI.APIKey)
	assert.Equal(t, "ds-key-0000", backend.stored.DeepSeek.APIKey)
	assert.Equal(t, settings.ProviderDeepSeek, backend.stored.APIType)
	assert.NotContains(t, rec.Body.String(), "ds-key-0000")
}

func TestSaveSettingsPartialBody(t *testing.T) {
	backend := newStubBackend()
	api := newTestAPI(backend)

	rec := doRequest(t, api, http.MethodPut, "/api/v1/settings", `{"apiType":"gemini"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, settings.ProviderGemini, backend.stored.APIType)
	assert.Equal(t, "sk-live-abcd1234", backend.stored.OpenAI.APIKey)

	rec = doRequest(t, api, http.MethodPut, "/api/v1/settings", `{"openai":{"model":"gpt-4o"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "gpt-4o", backend.stored.OpenAI.Model)
	assert.Equal(t, "sk-live-abcd1234", backend.stored.OpenAI.APIKey)
	assert.Equal(t, settings.ProviderGemini, backend.stored.APIType)
}

func TestSaveSettingsUnknownProvider(t *testing.T) {
	backend := newStubBackend()
	api := newTestAPI(backend)

	rec := doRequest(t, api, http.MethodPut, "/api/v1/settings", `{"apiType":"claude"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorCodeInvalidRequest, decodeError(t, rec).Code)
	assert.Equal(t, settings.ProviderOpenAI, backend.stored.APIType)
}

func TestHealthEndpoint(t *testing.T) {
	backend := newStubBackend()
	api := newTestAPI(backend)

	rec := doRequest(t, api, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	backend.health = &summarizer.HealthReport{Status: summarizer.StatusUnhealthy}
	rec = doRequest(t, api, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoutes(t *testing.T) {
	api := newTestAPI(newStubBackend())

	rec := doRequest(t, api, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrorCodeResourceNotFound, decodeError(t, rec).Code)

	rec = doRequest(t, api, http.MethodDelete, "/api/v1/settings", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSAllowsExtensionOrigin(t *testing.T) {
	api := newTestAPI(newStubBackend())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/summarize", nil)
	req.Header.Set("Origin", "chrome-extension://abcdefghijklmnop")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	assert.Equal(t, "chrome-extension://abcdefghijklmnop", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/summarize", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

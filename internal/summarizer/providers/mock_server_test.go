package providers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockResponseConfig holds configuration for mock API responses
type MockResponseConfig struct {
	StatusCode   int
	ResponseBody interface{}
	Headers      map[string]string
}

// capturedRequest is what the mock server saw for one call
type capturedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   map[string]interface{}
}

// MockServer is a test server that returns the configured response and
// records the requests it receives.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []capturedRequest
}

// NewMockServer starts a MockServer; it is closed via t.Cleanup.
func NewMockServer(t *testing.T, config MockResponseConfig) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		captured := capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		}
		_ = json.Unmarshal(raw, &captured.Body)
		m.mu.Lock()
		m.requests = append(m.requests, captured)
		m.mu.Unlock()

		for k, v := range config.Headers {
			w.Header().Set(k, v)
		}
		if _, exists := config.Headers["Content-Type"]; !exists {
			w.Header().Set("Content-Type", "application/json")
		}

		status := config.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)

		if config.ResponseBody == nil {
			return
		}

		var respBytes []byte
		switch body := config.ResponseBody.(type) {
		case string:
			respBytes = []byte(body)
		case []byte:
			respBytes = body
		default:
			var err error
			respBytes, err = json.Marshal(body)
			if err != nil {
				t.Errorf("Failed to marshal mock response: %v", err)
				return
			}
		}
		_, _ = w.Write(respBytes)
	}))
	t.Cleanup(m.Close)
	return m
}

// Requests returns a copy of every captured request
func (m *MockServer) Requests() []capturedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]capturedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

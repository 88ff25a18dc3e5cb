package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/localrivet/pagesummary/internal/errortypes"
	"github.com/localrivet/pagesummary/internal/extract"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", errortypes.ValidationError(errors.New("bad"), "invalid"), http.StatusBadRequest, ErrorCodeInvalidRequest},
		{"no content", extract.ErrNoContent, http.StatusUnprocessableEntity, ErrorCodeNoContent},
		{"wrapped no content", fmt.Errorf("fetch: %w", extract.ErrNoContent), http.StatusUnprocessableEntity, ErrorCodeNoContent},
		{"page fetch", errortypes.NetworkError(errors.New("refused"), "failed to fetch page"), http.StatusBadGateway, ErrorCodeBadGateway},
		{"page fetch deadline", errortypes.NetworkError(context.DeadlineExceeded, "failed to fetch page"), http.StatusGatewayTimeout, ErrorCodeGatewayTimeout},
		{"database", errortypes.DatabaseError(errors.New("locked"), "failed to load settings"), http.StatusInternalServerError, ErrorCodeInternalError},
		{"plain", errors.New("boom"), http.StatusInternalServerError, ErrorCodeInternalError},
		{"empty response", errortypes.EmptyResponse("OpenAI", "x"), http.StatusBadGateway, ErrorCodeEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := StatusFor(tt.err)
			if status != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, status)
			}
			if code != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestHandleErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, nil, errortypes.DatabaseError(errors.New("disk I/O error at /secret/path"), "failed to load settings"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "error" {
		t.Errorf("Expected status 'error', got '%s'", resp.Status)
	}
	if resp.Message != "An unexpected error occurred" {
		t.Errorf("Expected generic message, got '%s'", resp.Message)
	}
	if resp.Details != nil {
		t.Errorf("Expected no details, got %v", resp.Details)
	}
}

func TestHandleErrorValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := errortypes.ValidationError(errors.New("unsupported URL"), "invalid page URL").WithField("url", "ftp://x")
	HandleError(rec, nil, err)

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Code != ErrorCodeInvalidRequest {
		t.Errorf("Expected code %s, got %s", ErrorCodeInvalidRequest, resp.Code)
	}
	if resp.Details["url"] != "ftp://x" {
		t.Errorf("Expected url detail, got %v", resp.Details)
	}
	if resp.Message != err.Error() {
		t.Errorf("Expected message %q, got %q", err.Error(), resp.Message)
	}
}

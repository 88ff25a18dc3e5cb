package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/localrivet/pagesummary/internal/errortypes"
	"github.com/localrivet/pagesummary/internal/extract"
	"github.com/localrivet/pagesummary/internal/tools"
)

// ErrorResponse represents the structure of error responses sent by the API.
// Status and Message follow the extension message protocol.
type ErrorResponse struct {
	Status  string                 `json:"status"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Kind    string                 `json:"kind,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes
const (
	ErrorCodeInvalidRequest    = "INVALID_REQUEST"
	ErrorCodeMissingCredential = "MISSING_CREDENTIAL"
	ErrorCodeInvalidProvider   = "INVALID_PROVIDER"
	ErrorCodeProviderError     = "PROVIDER_ERROR"
	ErrorCodeEmptyResponse     = "EMPTY_RESPONSE"
	ErrorCodeBadGateway        = "BAD_GATEWAY"
	ErrorCodeGatewayTimeout    = "GATEWAY_TIMEOUT"
	ErrorCodeNoContent         = "NO_CONTENT"
	ErrorCodeResourceNotFound  = "RESOURCE_NOT_FOUND"
	ErrorCodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	ErrorCodeInternalError     = "INTERNAL_ERROR"
)

// writeErrorResponse writes a structured error response to the HTTP response writer
func writeErrorResponse(w http.ResponseWriter, status int, resp ErrorResponse) {
	resp.Status = tools.StatusError

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// HandleBadRequest handles 400 Bad Request errors
func HandleBadRequest(w http.ResponseWriter, message string) {
	writeErrorResponse(w, http.StatusBadRequest, ErrorResponse{Code: ErrorCodeInvalidRequest, Message: message})
}

// HandleNotFound handles 404 Not Found errors
func HandleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeErrorResponse(w, http.StatusNotFound, ErrorResponse{Code: ErrorCodeResourceNotFound, Message: "Not found"})
}

// HandleMethodNotAllowed handles 405 Method Not Allowed errors
func HandleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeErrorResponse(w, http.StatusMethodNotAllowed, ErrorResponse{Code: ErrorCodeMethodNotAllowed, Message: "Method not allowed"})
}

// StatusFor returns the HTTP status and error code for err.
func StatusFor(err error) (int, string) {
	var summaryErr *errortypes.SummaryError
	if errors.As(err, &summaryErr) {
		switch summaryErr.Kind {
		case errortypes.KindMissingCredential:
			return http.StatusBadRequest, ErrorCodeMissingCredential
		case errortypes.KindInvalidProviderSelection:
			return http.StatusBadRequest, ErrorCodeInvalidProvider
		case errortypes.KindProviderReturnedError:
			return http.StatusBadGateway, ErrorCodeProviderError
		case errortypes.KindEmptyOrBlockedResponse:
			return http.StatusBadGateway, ErrorCodeEmptyResponse
		case errortypes.KindNetworkOrHTTPFailure:
			if errors.Is(err, context.DeadlineExceeded) {
				return http.StatusGatewayTimeout, ErrorCodeGatewayTimeout
			}
			return http.StatusBadGateway, ErrorCodeBadGateway
		}
	}

	if errors.Is(err, extract.ErrNoContent) {
		return http.StatusUnprocessableEntity, ErrorCodeNoContent
	}

	var appErr *errortypes.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case errortypes.ErrorTypeValidation:
			return http.StatusBadRequest, ErrorCodeInvalidRequest
		case errortypes.ErrorTypeNetwork:
			if errors.Is(err, context.DeadlineExceeded) {
				return http.StatusGatewayTimeout, ErrorCodeGatewayTimeout
			}
			return http.StatusBadGateway, ErrorCodeBadGateway
		}
	}

	return http.StatusInternalServerError, ErrorCodeInternalError
}

// errorToResponse converts an error to a standardized ErrorResponse. Summary
// errors keep their user-facing message verbatim; internal failures are not
// described to the client.
func errorToResponse(err error) ErrorResponse {
	_, code := StatusFor(err)
	resp := ErrorResponse{Code: code, Message: err.Error()}

	var summaryErr *errortypes.SummaryError
	if errors.As(err, &summaryErr) {
		resp.Message = summaryErr.Message
		resp.Kind = string(summaryErr.Kind)
		return resp
	}

	var appErr *errortypes.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case errortypes.ErrorTypeValidation, errortypes.ErrorTypeNetwork:
			resp.Details = appErr.Fields
		}
	}
	if code == ErrorCodeInternalError {
		resp.Message = "An unexpected error occurred"
	}
	return resp
}

// HandleError writes err with the status StatusFor assigns to it and logs it.
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, _ := StatusFor(err)
	if status >= http.StatusInternalServerError {
		errortypes.LogError(logger, err)
	} else if logger != nil {
		logger.Warn("Request failed", "status", status, "error", err)
	}
	writeErrorResponse(w, status, errorToResponse(err))
}

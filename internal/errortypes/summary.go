package errortypes

import (
	"errors"
	"fmt"
)

// Kind is the cause of a failed summarization request.
type Kind string

const (
	KindMissingCredential        Kind = "missing_credential"
	KindInvalidProviderSelection Kind = "invalid_provider_selection"
	KindNetworkOrHTTPFailure     Kind = "network_or_http_failure"
	KindProviderReturnedError    Kind = "provider_returned_error"
	KindEmptyOrBlockedResponse   Kind = "empty_or_blocked_response"
)

// SummaryError is the single error contract surfaced to the UI. Message is
// always non-empty and meant to be displayed verbatim.
type SummaryError struct {
	Kind     Kind
	Provider string
	Message  string

	// Reason is the provider's block reason, when one was reported.
	Reason string

	// StatusCode is the provider's HTTP status, zero when no response arrived.
	StatusCode int

	Err error
}

func (e *SummaryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Provider != "" {
		return fmt.Sprintf("%s summarization failed (%s)", e.Provider, e.Kind)
	}
	return fmt.Sprintf("summarization failed (%s)", e.Kind)
}

func (e *SummaryError) Unwrap() error {
	return e.Err
}

// MissingCredential reports that the selected provider has no API key.
func MissingCredential(provider string) *SummaryError {
	return &SummaryError{
		Kind:     KindMissingCredential,
		Provider: provider,
		Message:  fmt.Sprintf("%s API key is not set.", provider),
	}
}

// InvalidProviderSelection reports an active provider that is not supported.
func InvalidProviderSelection(selected string) *SummaryError {
	msg := "Invalid API type selected."
	if selected != "" {
		msg = fmt.Sprintf("Invalid API type selected: %q.", selected)
	}
	return &SummaryError{
		Kind:    KindInvalidProviderSelection,
		Message: msg,
	}
}

// TransportFailure reports a request that produced no usable HTTP exchange.
func TransportFailure(provider string, err error) *SummaryError {
	return &SummaryError{
		Kind:     KindNetworkOrHTTPFailure,
		Provider: provider,
		Message:  fmt.Sprintf("%s request failed: %v", provider, err),
		Err:      err,
	}
}

// HTTPFailure reports a non-success status whose body carried no error
// description.
func HTTPFailure(provider string, statusCode int) *SummaryError {
	return &SummaryError{
		Kind:       KindNetworkOrHTTPFailure,
		Provider:   provider,
		Message:    fmt.Sprintf("Unknown %s API error", provider),
		StatusCode: statusCode,
	}
}

// ProviderReturned reports an error object returned by the provider. An
// empty message falls back to a generic one naming the provider.
func ProviderReturned(provider string, statusCode int, message string) *SummaryError {
	if message == "" {
		message = fmt.Sprintf("Unknown %s API error", provider)
	}
	return &SummaryError{
		Kind:       KindProviderReturnedError,
		Provider:   provider,
		Message:    message,
		StatusCode: statusCode,
	}
}

// EmptyResponse reports a successful call without summary text. detail is
// appended to the standard prefix.
func EmptyResponse(provider, detail string) *SummaryError {
	return &SummaryError{
		Kind:     KindEmptyOrBlockedResponse,
		Provider: provider,
		Message:  fmt.Sprintf("No summary returned from %s. %s", provider, detail),
	}
}

// BlockedResponse reports a response withheld by the provider for reason.
func BlockedResponse(provider, reason string) *SummaryError {
	return &SummaryError{
		Kind:     KindEmptyOrBlockedResponse,
		Provider: provider,
		Message:  fmt.Sprintf("No summary returned from %s. Reason: %s", provider, reason),
		Reason:   reason,
	}
}

// KindOf returns the kind of the SummaryError in err's chain, or "".
func KindOf(err error) Kind {
	var summaryErr *SummaryError
	if errors.As(err, &summaryErr) {
		return summaryErr.Kind
	}
	return ""
}

// IsKind reports whether err carries a SummaryError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

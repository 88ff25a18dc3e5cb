package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/localrivet/pagesummary/internal/errortypes"
)

// credentialParams are query parameters that carry an API key.
var credentialParams = []string{"key"}

// apiError is the error envelope shared by all three providers. Error is
// usually an object with a message but may be any JSON value.
type apiError struct {
	Error json.RawMessage `json:"error"`
}

// message returns the provider's description of the error and whether the
// body reported one at all. null, false, 0 and "" do not count.
func (e apiError) message() (string, bool) {
	raw := bytes.TrimSpace(e.Error)
	switch string(raw) {
	case "", "null", "false", "0", `""`:
		return "", false
	}

	var described struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &described); err != nil {
		return "", true
	}
	return described.Message, true
}

// exchange is a completed HTTP round-trip.
type exchange struct {
	status int
	body   []byte
}

func (e exchange) ok() bool {
	return e.status >= 200 && e.status < 300
}

// postJSON sends payload to url and reads the whole response. Only failures
// that prevent a response from being read are returned as errors.
func postJSON(ctx context.Context, client *http.Client, provider, endpoint string, payload interface{}, header http.Header) (exchange, error) {
	reqJSON, err := json.Marshal(payload)
	if err != nil {
		return exchange{}, errortypes.TransportFailure(provider, fmt.Errorf("error marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqJSON))
	if err != nil {
		return exchange{}, errortypes.TransportFailure(provider, fmt.Errorf("error creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return exchange{}, errortypes.TransportFailure(provider, redactURLError(err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return exchange{}, errortypes.TransportFailure(provider, fmt.Errorf("error reading response body: %w", err))
	}

	return exchange{status: resp.StatusCode, body: respBody}, nil
}

// decode checks the exchange for a provider error and otherwise unmarshals
// the body into out. The error envelope wins over the status code so that
// the provider's own message reaches the caller.
func decode(provider string, ex exchange, out interface{}) error {
	var envelope apiError
	envelopeErr := json.Unmarshal(ex.body, &envelope)
	if envelopeErr == nil {
		if msg, ok := envelope.message(); ok {
			return errortypes.ProviderReturned(provider, ex.status, msg)
		}
	}
	if !ex.ok() {
		return errortypes.HTTPFailure(provider, ex.status)
	}
	if envelopeErr != nil {
		return errortypes.TransportFailure(provider, fmt.Errorf("error unmarshaling response: %w", envelopeErr))
	}
	if err := json.Unmarshal(ex.body, out); err != nil {
		return errortypes.TransportFailure(provider, fmt.Errorf("error unmarshaling response: %w", err))
	}
	return nil
}

// redactURLError masks credential query parameters in the URL a client
// error reports. The error chain is left intact.
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redactURL(urlErr.URL)
	}
	return err
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			return raw[:i]
		}
		return raw
	}

	query := u.Query()
	changed := false
	for _, name := range credentialParams {
		if query.Has(name) {
			query.Set(name, "REDACTED")
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

package completion

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ProviderError is returned when the completion call fails.
// StatusCode is the upstream status, or a 502/504 for transport failures.
type ProviderError struct {
	StatusCode int
	Payload    []byte
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code to surface to the caller
func (e *ProviderError) HTTPStatus() int {
	if e.StatusCode >= 400 && e.StatusCode <= 599 {
		return e.StatusCode
	}
	return http.StatusBadGateway
}

// UpstreamPayload returns the upstream body as JSON; non-JSON bodies are wrapped as a string
func (e *ProviderError) UpstreamPayload() json.RawMessage {
	if len(e.Payload) == 0 {
		return nil
	}
	if json.Valid(e.Payload) {
		return json.RawMessage(e.Payload)
	}
	quoted, err := json.Marshal(string(e.Payload))
	if err != nil {
		return nil
	}
	return quoted
}

// AsProviderError extracts a *ProviderError from the chain
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

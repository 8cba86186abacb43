package openai

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned before any network attempt when the endpoint
// or credential is missing.
var ErrNotConfigured = errors.New("openai client is not configured")

// RequestError is a transport-level or non-2xx failure from the completion
// endpoint. Status and body are retained for logs only; callers surface a
// generic upstream failure.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("completion request failed: status %d", e.Status)
}

// MalformedResponseError is a success status whose body lacks the expected
// choices/message/content fields. Terminal, never retried.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed completion response: " + e.Reason
}

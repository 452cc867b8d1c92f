package airtable

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
)

// Known error kinds. Upstream kinds are Airtable's error.type values; the
// lowercase ones are synthesized locally when no usable HTTP response exists.
const (
	KindAuthenticationRequired  = "AUTHENTICATION_REQUIRED"
	KindInvalidAPIKey           = "INVALID_API_KEY"
	KindInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	KindWorkspaceNotFound       = "WORKSPACE_NOT_FOUND"

	KindTimeout = "timeout_error"
	KindNetwork = "network_error"
	KindUnknown = "unknown_error"
)

// APIError is the normalized form of every failed Airtable call.
// StatusCode is 0 when no HTTP response was received.
type APIError struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("Airtable API Error (%s): %s", e.Kind, e.Message)
}

// AsAPIError reports whether err carries an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if stderrors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// errorBody matches both shapes Airtable uses:
//
//	{"error": {"type": "INVALID_API_KEY", "message": "..."}}
//	{"error": "NOT_FOUND"}
type errorBody struct {
	Error json.RawMessage `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func statusError(status int, rawURL string, body []byte) *APIError {
	fallback := fmt.Sprintf("%d %s for url: %s", status, http.StatusText(status), rawURL)

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Error) == 0 {
		return &APIError{Kind: KindUnknown, Message: fallback, StatusCode: status}
	}

	var detail errorDetail
	if err := json.Unmarshal(eb.Error, &detail); err == nil {
		kind := detail.Type
		if kind == "" {
			kind = KindUnknown
		}
		msg := detail.Message
		if msg == "" {
			msg = fallback
		}
		return &APIError{Kind: kind, Message: msg, StatusCode: status}
	}

	var code string
	if err := json.Unmarshal(eb.Error, &code); err == nil && code != "" {
		return &APIError{Kind: code, Message: fallback, StatusCode: status}
	}
	return &APIError{Kind: KindUnknown, Message: fallback, StatusCode: status}
}

func transportError(err error) *APIError {
	var ne net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &ne) && ne.Timeout()) {
		return &APIError{Kind: KindTimeout, Message: fmt.Sprintf("Request timed out: %v", err)}
	}
	return &APIError{Kind: KindNetwork, Message: fmt.Sprintf("Network error: %v", err)}
}

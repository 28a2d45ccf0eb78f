package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable wraps transport failures (DNS, refused connection,
// timeout). Nothing is retried.
var ErrUnavailable = errors.New("backend unavailable")

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	Status int
	Body   []byte

	fields map[string]json.RawMessage
	text   string
}

// NewAPIError decodes body as either a JSON object of fields or a bare
// JSON string.
func NewAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Body: body}
	if err := json.Unmarshal(body, &e.fields); err != nil {
		e.fields = nil
		var s string
		if json.Unmarshal(body, &s) == nil {
			e.text = s
		}
	}
	return e
}

func (e *APIError) Error() string {
	if d := e.Value("detail"); d != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, d)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Message returns the body's "detail" or fallback.
func (e *APIError) Message(fallback string) string {
	if d := e.Value("detail"); d != "" {
		return d
	}
	return fallback
}

// Field reports whether the body carries a non-empty validation entry for
// name, e.g. {"email": ["already exists"]}.
func (e *APIError) Field(name string) bool {
	raw, ok := e.fields[name]
	if !ok {
		return false
	}
	var list []any
	if json.Unmarshal(raw, &list) == nil {
		return len(list) > 0
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s) != ""
	}
	return string(raw) != "null"
}

// Value returns the string stored under key, or "".
func (e *APIError) Value(key string) string {
	raw, ok := e.fields[key]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// Text is the body when the API answered with a bare JSON string.
func (e *APIError) Text() string { return e.text }

// MessageOf extracts the user-facing message of err, or fallback when err
// is not an API error.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message(fallback)
	}
	return fallback
}

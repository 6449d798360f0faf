package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// StatusError reports a non-2xx response from the service.
type StatusError struct {
	Code   int
	Path   string
	Detail string
}

func (e *StatusError) Error() string {
	if strings.TrimSpace(e.Detail) != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Code, e.Detail)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// Unauthorized reports whether the response indicates an invalid or expired
// credential. Callers route these through the session's invalidation path.
func (e *StatusError) Unauthorized() bool {
	return e.Code == http.StatusUnauthorized
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Unauthorized()
}

// ValidationError carries the service's per-field validation messages from a
// 400 response, keyed by submitted field name.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// First returns the leading message for a field, or empty when the field
// passed validation.
func (e *ValidationError) First(field string) string {
	msgs := e.Fields[field]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

// AsValidationError unwraps err into a *ValidationError when present.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// decodeErrorBody turns an error response body into the most specific error
// available. The service answers with either {"detail": "..."} or a
// field-to-messages map for validation failures.
func decodeErrorBody(status int, path string, body []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return &StatusError{Code: status, Path: path}
	}

	if detail, ok := raw["detail"]; ok {
		var msg string
		if err := json.Unmarshal(detail, &msg); err == nil {
			return &StatusError{Code: status, Path: path, Detail: msg}
		}
	}

	if status == http.StatusBadRequest {
		fields := make(map[string][]string, len(raw))
		for name, val := range raw {
			var msgs []string
			if err := json.Unmarshal(val, &msgs); err == nil {
				fields[name] = msgs
				continue
			}
			var msg string
			if err := json.Unmarshal(val, &msg); err == nil {
				fields[name] = []string{msg}
			}
		}
		if len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
	}

	return &StatusError{Code: status, Path: path}
}

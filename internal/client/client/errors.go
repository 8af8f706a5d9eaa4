package client

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation failed")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)

// APIError is a non-2xx response. Payload holds the decoded JSON body when
// there was one; Message is the best human-readable line found in it.
type APIError struct {
	Method     string
	Route      string
	StatusCode int
	Payload    any
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Route, e.StatusCode, msg)
}

// Is lets callers match status classes with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnavailable:
		return e.StatusCode == http.StatusBadGateway ||
			e.StatusCode == http.StatusServiceUnavailable ||
			e.StatusCode == http.StatusGatewayTimeout
	}
	return false
}

// DisplayMessage returns the backend's message carried by err, or fallback
// when err carries none.
func DisplayMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// backendMessage digs a message out of a decoded error body. DRF bodies look
// like {"detail": "..."}, {"non_field_errors": ["..."]} or
// {"username": ["..."]}.
func backendMessage(payload any) string {
	switch p := payload.(type) {
	case string:
		return strings.TrimSpace(p)
	case []any:
		return firstString(p)
	case map[string]any:
		for _, k := range []string{"detail", "message", "error", "non_field_errors"} {
			if s := firstString(p[k]); s != "" {
				return s
			}
		}
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s := firstString(p[k]); s != "" {
				return k + ": " + s
			}
		}
	}
	return ""
}

func firstString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		for _, item := range val {
			if s := firstString(item); s != "" {
				return s
			}
		}
	}
	return ""
}

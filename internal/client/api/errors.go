package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrMalformedResponse = errors.New("malformed response")

	// ErrSessionExpired is terminal: the refresh token was rejected and the
	// stored credentials are gone.
	ErrSessionExpired = errors.New("session expired")

	errNoRefreshToken = errors.New("no refresh token stored")
)

// HTTPError is a non-2xx response. It unwraps to ErrUnauthorized,
// ErrForbidden or ErrNotFound for those status codes.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// newHTTPError extracts the backend's "message" field, which is either a
// string or a list of validation messages.
func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: status}

	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if json.Unmarshal(body, &payload) != nil || len(payload.Message) == 0 {
		return e
	}

	var one string
	if json.Unmarshal(payload.Message, &one) == nil {
		e.Message = one
		return e
	}
	var many []string
	if json.Unmarshal(payload.Message, &many) == nil {
		e.Message = strings.Join(many, "; ")
	}
	return e
}

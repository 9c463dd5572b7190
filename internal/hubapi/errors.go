package hubapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoHubURL is returned when no Hub API URL is configured yet.
	ErrNoHubURL = errors.New("hub api url is not configured")

	// ErrNotSignedIn is returned by calls that need the signed-in user's tokens.
	ErrNotSignedIn = errors.New("not signed in")
)

// APIError is a non-success answer from the Hub API.
type APIError struct {
	Code        int    `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description"`
	StatusCode  int    `json:"-"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Description != "" && e.Description != msg {
		return fmt.Sprintf("hub api %d: %s: %s", e.StatusCode, msg, e.Description)
	}
	return fmt.Sprintf("hub api %d: %s", e.StatusCode, msg)
}

// StatusCode returns the HTTP status of an *APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// HasErrorCode reports whether err carries the given application error code.
func HasErrorCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// IsNotFound reports a 404 answer.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

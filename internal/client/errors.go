package client

import (
	"errors"
	"net/http"
)

// APIError is any failed request. A zero StatusCode with a non-nil Err means
// the request never reached the server (connection refused, DNS, timeout).
type APIError struct {
	StatusCode int
	Message    string // server-provided error/message, when the body had one
	Err        error  // transport error, when there was no response at all
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Err != nil {
		return "Network error: cannot connect to server"
	}
	if e.Message != "" {
		return e.Message
	}
	return fallbackMessage(e.StatusCode)
}

// Unwrap exposes the transport error for errors.Is checks.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether the failure happened before any HTTP response.
func (e *APIError) IsNetwork() bool {
	return e.Err != nil
}

// fallbackMessage derives a readable message from the HTTP status code when
// the server body carried none.
func fallbackMessage(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "Invalid data"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not found"
	default:
		if statusCode >= 500 {
			return "Server error"
		}
		return "Request failed"
	}
}

// DisplayMessage converts any error from this package into the string shown
// to the user. Non-API errors pass through unchanged.
func DisplayMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

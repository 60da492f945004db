package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an RFC 7807 problem returned by the API, or a failure status
// without a decodable body.
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type,omitempty"`
	Title      string `json:"title"`
	Detail     string `json:"detail,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return e.Title
}

// IsNotFound returns true if this is a not found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// UnhealthyError reports a failure status whose body still carried data.
// The data was decoded into the caller's result.
type UnhealthyError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *UnhealthyError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Status, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

// IsUnhealthy reports whether err is an UnhealthyError.
func IsUnhealthy(err error) bool {
	var u *UnhealthyError
	return errors.As(err, &u)
}

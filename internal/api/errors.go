package api

import (
	"errors"
	"fmt"
)

// Common Trove API errors.
var (
	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when authentication fails.
	ErrUnauthorized = errors.New("unauthorized — check your Trove token")
	// ErrForbidden is returned when authorization fails.
	ErrForbidden = errors.New("forbidden — token may lack access to this resource")
	// ErrConflict is returned when a resource already exists.
	ErrConflict = errors.New("conflict — resource already exists")
)

// APIError is a structured error decoded from the server's error/detail pair.
// Callers prefer it over the generic status message when present.
type APIError struct {
	Status int    `json:"-"`
	Code   string `json:"error"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Detail)
	}
	return e.Code
}

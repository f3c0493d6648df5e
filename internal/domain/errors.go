package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrServerOffline indicates the backend is unreachable
	ErrServerOffline = errors.New("backend is unreachable")

	// ErrUnauthorized indicates the backend rejected the user's identity
	ErrUnauthorized = errors.New("not authorized")

	// ErrNoSession indicates nobody is signed in on this machine
	ErrNoSession = errors.New("no active session")
)

// APIError is a non-2xx backend response. Message is the backend's
// `{ message }` field and is shown to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Is maps well-known statuses onto the sentinel errors
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == 404
	case ErrUnauthorized:
		return e.Status == 401 || e.Status == 403
	}
	return false
}

// ValidationError reports invalid form input. It never reaches the backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UserMessage returns the text to show for err. Backend rejections and
// validation failures are surfaced verbatim; anything else gets the
// fallback prefix.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}
	if errors.Is(err, ErrServerOffline) {
		if fallback == "" {
			return "server unreachable"
		}
		return fallback + ": server unreachable"
	}
	if fallback == "" {
		return err.Error()
	}
	return fallback + ": " + err.Error()
}

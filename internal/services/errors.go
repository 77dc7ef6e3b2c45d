package services

import (
	"fmt"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
)

// RemoteAPIError carries the HTTP status and message of a failed call to the
// hosting API. It wraps a sentinel from the shared package so callers can
// classify with errors.Is.
type RemoteAPIError struct {
	Status  int
	Message string
	err     error
}

// NewRemoteAPIError builds a RemoteAPIError wrapping [shared.ErrAPIRequest].
func NewRemoteAPIError(status int, message string) *RemoteAPIError {
	return &RemoteAPIError{Status: status, Message: message, err: shared.ErrAPIRequest}
}

// NewAuthAPIError builds a RemoteAPIError wrapping [shared.ErrTokenExpired],
// used for 401/403 responses that require reauthorization.
func NewAuthAPIError(status int, message string) *RemoteAPIError {
	return &RemoteAPIError{Status: status, Message: message, err: shared.ErrTokenExpired}
}

// NewNotFoundAPIError builds a RemoteAPIError wrapping the given not-found sentinel.
func NewNotFoundAPIError(message string, sentinel error) *RemoteAPIError {
	return &RemoteAPIError{Status: 404, Message: message, err: sentinel}
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("remote API error (status %d): %s", e.Status, e.Message)
}

func (e *RemoteAPIError) Unwrap() error {
	if e.err != nil {
		return e.err
	}
	return shared.ErrAPIRequest
}

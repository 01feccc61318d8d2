// Package apperr defines the error kinds shared by every layer of gistlens.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidIdentifier   = errors.New("invalid gist id or url")
	ErrNotFound            = errors.New("not found")
	ErrRateLimited         = errors.New("api rate limit exceeded")
	ErrMissingRequiredFile = errors.New("required file missing")
)

// TransportError reports a failed HTTP exchange. Status is zero when no
// response was received at all.
type TransportError struct {
	Status int
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("transport error: %v", e.Err)
		}
		return "transport error"
	}
	return fmt.Sprintf("http error: %d", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Message renders err as the single human-readable line shown to a user.
func Message(err error) string {
	var te *TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidIdentifier):
		return "Invalid Gist ID or URL format"
	case errors.Is(err, ErrNotFound):
		return "Gist not found. Please check if the ID is correct."
	case errors.Is(err, ErrRateLimited):
		return "API rate limit exceeded. Please try again later."
	case errors.Is(err, ErrMissingRequiredFile):
		return "HTML file not found in Gist. Make sure the Gist contains a .html or .htm file"
	case errors.As(err, &te):
		return te.Error()
	default:
		return err.Error()
	}
}

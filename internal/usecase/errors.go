package usecase

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP status codes by the API layer.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ErrSelectionClosed is returned for team edits and contest joins once the
// match is no longer upcoming, and for contests opened on a finished match.
var ErrSelectionClosed = fmt.Errorf("%w: match is not open", ErrConflict)

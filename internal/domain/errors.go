package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource (trip, client, booking, plan group) does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation would violate a uniqueness rule:
// booking the same client twice on one trip, or assigning the same person to
// two room slots. Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. negative amount, missing required field).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

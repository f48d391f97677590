// Sentinel errors shared across repositories and services. Handlers
// translate these into HTTP status codes: ErrForbidden becomes 403,
// ErrNotFound 404 and ErrValidation 422. Anything else is a 500.
package domain

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, or lacks the capability grant for.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned (usually wrapped) when input fails a business
// validation rule.
var ErrValidation = errors.New("validation failed")

package domain

import "errors"

// Error kinds shared by services and handlers. Anything not matching one of
// these is treated as an internal failure.
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

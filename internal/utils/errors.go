package utils

import "errors"

// Error taxonomy used across services. Concrete failures wrap one of these
// sentinels with %w so handlers can classify with errors.Is.
var (
	ErrValidation = errors.New("VALIDATION_ERROR")
	ErrNotFound   = errors.New("NOT_FOUND")
	ErrConflict   = errors.New("CONFLICT")
	ErrUpload     = errors.New("UPLOAD_FAILED")
)

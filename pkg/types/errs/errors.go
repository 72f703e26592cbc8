package errs

import "errors"

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrValidation         = errors.New("validation failed")
	ErrMalformedObjectKey = errors.New("malformed object key")
	ErrInvalidPageToken   = errors.New("invalid page token")
)

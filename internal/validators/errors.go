package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	// ErrInvalidData covers request-shape violations: lengths, missing
	// fields, malformed ids.
	ErrInvalidData = errors.New("invalid data provided")

	ErrInvalidEmail     = errors.New("invalid e-mail address")
	ErrWeakPassword     = errors.New("password does not satisfy the policy")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

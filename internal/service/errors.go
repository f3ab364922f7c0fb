package service

import "errors"

// Sentinel errors the HTTP layer maps to status codes. Services wrap them
// with fmt.Errorf("%w: ...") so errors.Is still matches.
var (
	ErrValidation         = errors.New("validation")          // 400
	ErrInvalidCredentials = errors.New("invalid credentials") // 401
	ErrNotFound           = errors.New("not found")           // 404
	ErrConflict           = errors.New("conflict")            // 400 (duplicate email)
)

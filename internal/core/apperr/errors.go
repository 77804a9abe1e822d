package apperr

import "errors"

// The full failure taxonomy of the core. Every denial or validation path
// returns one of these sentinels; record-store failures propagate unchanged
// and anything unrecognized is a server error at the boundary.
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("not authorized")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyInitialized = errors.New("admin already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
)

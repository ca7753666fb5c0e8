package errors

import (
	stderrors "errors"
	"fmt"
)

// Request and pipeline failures, classified with errors.Is at the HTTP edge.
var (
	ErrValidation    = fmt.Errorf("validation error")
	ErrUnauthorized  = fmt.Errorf("unauthorized")
	ErrNotFound      = fmt.Errorf("not found")
	ErrUpstreamModel = fmt.Errorf("upstream model error")
	ErrPersistence   = fmt.Errorf("persistence error")
	ErrConflict      = fmt.Errorf("concurrent session update")
)

// Subject lifecycle and credentials, used by the admin tooling.
var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

package session

import "errors"

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNoToken            = errors.New("login response carried no token")
)

package httpapi

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a gateway failure so callers can branch without
// inspecting transport details.
type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"
	KindValidation ErrorKind = "validation"
	KindServer     ErrorKind = "server"
	KindNotFound   ErrorKind = "not_found"
)

type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func isKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

func IsNetwork(err error) bool    { return isKind(err, KindNetwork) }
func IsValidation(err error) bool { return isKind(err, KindValidation) }
func IsServer(err error) bool     { return isKind(err, KindServer) }
func IsNotFound(err error) bool   { return isKind(err, KindNotFound) }

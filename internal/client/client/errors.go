package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels for errors.Is matching against *APIError.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
	ErrValidation   = errors.New("validation error")
)

// ErrorKind classifies a failed API call.
type ErrorKind int

const (
	KindUnauthorized ErrorKind = iota + 1
	KindServer
	KindNetwork
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindUnauthorized:
		return ErrUnauthorized
	case KindServer:
		return ErrServer
	case KindNetwork:
		return ErrNetwork
	case KindValidation:
		return ErrValidation
	default:
		return nil
	}
}

// APIError is returned by every HTTPClient call that did not succeed.
// Status is zero for network errors.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s error (%d): %s", e.Kind, e.Status, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) and friends match by kind.
func (e *APIError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is an API 401/403.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// classifyStatus maps a non-2xx HTTP status onto an ErrorKind.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindUnauthorized
	case status >= http.StatusInternalServerError:
		return KindServer
	default:
		return KindValidation
	}
}

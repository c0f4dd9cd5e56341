package services

import "errors"

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrEmptyToken         = errors.New("server returned no token")

	// ErrInvalidKeysFormat is returned when an import is not a key map.
	ErrInvalidKeysFormat = errors.New("invalid keys format")

	ErrBackupNotConfigured = errors.New("backup storage is not configured")
)

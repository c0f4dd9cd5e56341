// Package common contains shared constants and sentinel errors used across
// the spillway client components.
package common

// Header names attached to outbound API requests.
const (
	AuthorizationHeaderName = "Authorization"
	EncryptionKeyHeaderName = "X-Encryption-Key"
	RequestIDHeaderName     = "X-Request-ID"

	BearerPrefix = "Bearer "
)

// Storage keys of the durable client state (metadata table).
const (
	TokenStorageKey    = "token"
	UsernameStorageKey = "username"
)

// DefaultAPIBaseURL is the backend address used when nothing else is configured.
const DefaultAPIBaseURL = "http://localhost:8081"

package models

import "time"

// EncryptionKey is a locally held per-video encryption key.
// The key itself is base64 of 32 random bytes and never leaves the client
// except as the X-Encryption-Key header on upload or in an explicit export.
type EncryptionKey struct {
	VideoID   string    `json:"-" yaml:"-"`
	Key       string    `json:"key" yaml:"key"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	LastUsed  time.Time `json:"lastUsed" yaml:"lastUsed"`
}

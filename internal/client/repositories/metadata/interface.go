// Package metadata stores small string values (session token, username)
// in the local client database.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// GetMany returns the present keys among keys; absent ones are omitted.
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, key string, value string) error
	// Delete removes every listed key in one statement. Unknown keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}

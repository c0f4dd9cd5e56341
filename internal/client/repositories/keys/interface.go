package keys

import (
	"context"
	"time"

	"github.com/dmitrijs2005/spillway/internal/client/models"
)

type Repository interface {
	// Upsert inserts the record or overwrites the one with the same VideoID.
	Upsert(ctx context.Context, key *models.EncryptionKey) error

	// Get returns common.ErrorNotFound when no key is stored for videoID.
	Get(ctx context.Context, videoID string) (*models.EncryptionKey, error)

	// Touch updates last_used; a missing record is not an error.
	Touch(ctx context.Context, videoID string, at time.Time) error

	Delete(ctx context.Context, videoID string) error
	List(ctx context.Context) ([]models.EncryptionKey, error)
	Clear(ctx context.Context) error

	// Import writes all records atomically. With replace set, existing
	// records are removed first.
	Import(ctx context.Context, keys []models.EncryptionKey, replace bool) error
}

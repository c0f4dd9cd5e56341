package keys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/spillway/internal/client/models"
	"github.com/dmitrijs2005/spillway/internal/common"
	"github.com/dmitrijs2005/spillway/internal/dbx"
)

const timeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func upsert(ctx context.Context, q dbx.DBTX, k *models.EncryptionKey) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO encryption_keys (video_id, key, created_at, last_used) VALUES (?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			key = excluded.key,
			created_at = excluded.created_at,
			last_used = excluded.last_used
	`, k.VideoID, k.Key, k.CreatedAt.UTC().Format(timeLayout), k.LastUsed.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to upsert key[%s]: %w", k.VideoID, err)
	}
	return nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, k *models.EncryptionKey) error {
	return upsert(ctx, r.db, k)
}

func (r *SQLiteRepository) Get(ctx context.Context, videoID string) (*models.EncryptionKey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT video_id, key, created_at, last_used FROM encryption_keys WHERE video_id = ?`, videoID)

	k, err := scanKey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key[%s]: %w", videoID, err)
	}
	return k, nil
}

func (r *SQLiteRepository) Touch(ctx context.Context, videoID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE encryption_keys SET last_used = ? WHERE video_id = ?`, at.UTC().Format(timeLayout), videoID)
	if err != nil {
		return fmt.Errorf("failed to touch key[%s]: %w", videoID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, videoID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM encryption_keys WHERE video_id = ?`, videoID)
	if err != nil {
		return fmt.Errorf("failed to delete key[%s]: %w", videoID, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM encryption_keys`); err != nil {
		return fmt.Errorf("failed to clear keys: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.EncryptionKey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT video_id, key, created_at, last_used FROM encryption_keys ORDER BY created_at, video_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	result := []models.EncryptionKey{}
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan key row: %w", err)
		}
		result = append(result, *k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate key rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Import(ctx context.Context, keys []models.EncryptionKey, replace bool) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if replace {
			if _, err := tx.ExecContext(ctx, `DELETE FROM encryption_keys`); err != nil {
				return fmt.Errorf("failed to clear keys: %w", err)
			}
		}
		for i := range keys {
			if err := upsert(ctx, tx, &keys[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanKey(s scanner) (*models.EncryptionKey, error) {
	var (
		k                 models.EncryptionKey
		created, lastUsed string
	)
	if err := s.Scan(&k.VideoID, &k.Key, &created, &lastUsed); err != nil {
		return nil, err
	}

	var err error
	if k.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	if k.LastUsed, err = time.Parse(timeLayout, lastUsed); err != nil {
		return nil, fmt.Errorf("bad last_used %q: %w", lastUsed, err)
	}
	return &k, nil
}

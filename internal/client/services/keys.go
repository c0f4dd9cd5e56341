package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/spillway/internal/client/models"
	"github.com/dmitrijs2005/spillway/internal/client/repositories/keys"
	"github.com/dmitrijs2005/spillway/internal/common"
	"github.com/dmitrijs2005/spillway/internal/cryptox"
	"github.com/dmitrijs2005/spillway/internal/logging"
	"gopkg.in/yaml.v3"
)

// ExportFormat selects the encoding of ExportKeys.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// KeyStats summarises the local key store. Time fields are nil when empty.
type KeyStats struct {
	TotalKeys int
	OldestKey *time.Time
	NewestKey *time.Time
	LastUsed  *time.Time
}

// KeyService manages per-video encryption keys held on this machine.
//
// Exports are a map of video id to {key, createdAt, lastUsed}. ImportKeys
// accepts the JSON or YAML form; merge keeps existing keys and overlays the
// imported ones, replace wipes the store first.
type KeyService interface {
	GenerateKey() string
	StoreKey(ctx context.Context, videoID, key string) error
	GetKey(ctx context.Context, videoID string) (string, bool, error)
	HasKey(ctx context.Context, videoID string) (bool, error)
	RemoveKey(ctx context.Context, videoID string) error
	AllKeys(ctx context.Context) (map[string]models.EncryptionKey, error)
	ClearAllKeys(ctx context.Context) error
	ExportKeys(ctx context.Context, format ExportFormat) ([]byte, error)
	ImportKeys(ctx context.Context, data []byte, merge bool) (int, error)
	ExportSealed(ctx context.Context, passphrase []byte) ([]byte, error)
	ImportSealed(ctx context.Context, data, passphrase []byte, merge bool) (int, error)
	Stats(ctx context.Context) (KeyStats, error)
}

type keyService struct {
	repo keys.Repository
	now  func() time.Time
	log  logging.Logger
}

type KeyServiceOption func(*keyService)

func WithKeyClock(now func() time.Time) KeyServiceOption {
	return func(s *keyService) { s.now = now }
}

func WithKeyLogger(l logging.Logger) KeyServiceOption {
	return func(s *keyService) { s.log = l }
}

func NewKeyService(repo keys.Repository, opts ...KeyServiceOption) KeyService {
	s := &keyService{repo: repo, now: time.Now, log: logging.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GenerateKey returns a fresh base64 encoded 256-bit key.
func (s *keyService) GenerateKey() string {
	return cryptox.GenerateVideoKey()
}

// StoreKey saves key for videoID. Empty arguments are ignored.
func (s *keyService) StoreKey(ctx context.Context, videoID, key string) error {
	if videoID == "" || key == "" {
		return nil
	}
	now := s.now().UTC()
	if err := s.repo.Upsert(ctx, &models.EncryptionKey{VideoID: videoID, Key: key, CreatedAt: now, LastUsed: now}); err != nil {
		return fmt.Errorf("store key: %w", err)
	}
	return nil
}

// GetKey returns the key for videoID and marks it as used.
func (s *keyService) GetKey(ctx context.Context, videoID string) (string, bool, error) {
	if videoID == "" {
		return "", false, nil
	}
	k, err := s.repo.Get(ctx, videoID)
	if errors.Is(err, common.ErrorNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get key: %w", err)
	}
	if err := s.repo.Touch(ctx, videoID, s.now().UTC()); err != nil {
		s.log.Warn(ctx, "failed to update key usage", "video_id", videoID, "error", err)
	}
	return k.Key, true, nil
}

// HasKey reports whether a key exists without marking it as used.
func (s *keyService) HasKey(ctx context.Context, videoID string) (bool, error) {
	if videoID == "" {
		return false, nil
	}
	_, err := s.repo.Get(ctx, videoID)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has key: %w", err)
	}
	return true, nil
}

func (s *keyService) RemoveKey(ctx context.Context, videoID string) error {
	if videoID == "" {
		return nil
	}
	return s.repo.Delete(ctx, videoID)
}

func (s *keyService) AllKeys(ctx context.Context) (map[string]models.EncryptionKey, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	out := make(map[string]models.EncryptionKey, len(list))
	for _, k := range list {
		out[k.VideoID] = k
	}
	return out, nil
}

func (s *keyService) ClearAllKeys(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// ExportKeys encodes every key. JSON output is indented by two spaces.
func (s *keyService) ExportKeys(ctx context.Context, format ExportFormat) ([]byte, error) {
	all, err := s.AllKeys(ctx)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatYAML:
		return yaml.Marshal(all)
	case FormatJSON, "":
		return json.MarshalIndent(all, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// ImportKeys loads an export produced by ExportKeys and returns the number of
// keys written. Nothing is written when data is malformed.
func (s *keyService) ImportKeys(ctx context.Context, data []byte, merge bool) (int, error) {
	parsed, err := parseKeys(data)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	list := make([]models.EncryptionKey, 0, len(parsed))
	for id, k := range parsed {
		if id == "" || k.Key == "" {
			return 0, ErrInvalidKeysFormat
		}
		k.VideoID = id
		if k.CreatedAt.IsZero() {
			k.CreatedAt = now
		}
		if k.LastUsed.IsZero() {
			k.LastUsed = k.CreatedAt
		}
		list = append(list, k)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].VideoID < list[j].VideoID })

	if err := s.repo.Import(ctx, list, !merge); err != nil {
		return 0, fmt.Errorf("import keys: %w", err)
	}
	s.log.Info(ctx, "keys imported", "count", len(list), "merge", merge)
	return len(list), nil
}

func parseKeys(data []byte) (map[string]models.EncryptionKey, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrInvalidKeysFormat
	}

	var parsed map[string]models.EncryptionKey
	var err error
	if trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &parsed)
	} else {
		err = yaml.Unmarshal(trimmed, &parsed)
	}
	if err != nil || parsed == nil {
		return nil, ErrInvalidKeysFormat
	}
	return parsed, nil
}

// ExportSealed returns the JSON export encrypted under passphrase.
func (s *keyService) ExportSealed(ctx context.Context, passphrase []byte) ([]byte, error) {
	plain, err := s.ExportKeys(ctx, FormatJSON)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(plain)
	return cryptox.SealExport(plain, passphrase)
}

// ImportSealed decrypts a sealed export and imports it.
func (s *keyService) ImportSealed(ctx context.Context, data, passphrase []byte, merge bool) (int, error) {
	plain, err := cryptox.OpenExport(data, passphrase)
	if err != nil {
		return 0, err
	}
	defer common.WipeByteArray(plain)
	return s.ImportKeys(ctx, plain, merge)
}

func (s *keyService) Stats(ctx context.Context) (KeyStats, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return KeyStats{}, fmt.Errorf("key stats: %w", err)
	}

	st := KeyStats{TotalKeys: len(list)}
	for _, k := range list {
		created, used := k.CreatedAt, k.LastUsed
		if st.OldestKey == nil || created.Before(*st.OldestKey) {
			st.OldestKey = &created
		}
		if st.NewestKey == nil || created.After(*st.NewestKey) {
			st.NewestKey = &created
		}
		if st.LastUsed == nil || used.After(*st.LastUsed) {
			st.LastUsed = &used
		}
	}
	return st, nil
}

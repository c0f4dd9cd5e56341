package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/spillway/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/spillway/internal/common"
	"github.com/dmitrijs2005/spillway/internal/logging"
)

// HeaderSetter is the part of the API gateway the session writes into.
type HeaderSetter interface {
	SetDefaultHeader(name, value string)
	DeleteDefaultHeader(name string)
}

// Store owns the current bearer token, its decoded claims and the username
// typed at login. It is safe for concurrent use.
type Store struct {
	repo    metadata.Repository
	headers HeaderSetter
	now     func() time.Time
	log     logging.Logger

	mu       sync.RWMutex
	token    string
	claims   Claims
	username string
}

type Option func(*Store)

// WithClock injects the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates an empty, unauthenticated session. headers may be nil.
func NewStore(repo metadata.Repository, headers HeaderSetter, opts ...Option) *Store {
	s := &Store{
		repo:    repo,
		headers: headers,
		now:     time.Now,
		log:     logging.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetToken installs token as the current session. It is rejected with
// common.ErrInvalidToken when undecodable and common.ErrTokenExpired when
// already expired. The token is persisted before it is activated, so the
// session is left untouched on any error.
func (s *Store) SetToken(ctx context.Context, token string) error {
	claims, ok := DecodeClaims(token)
	if !ok {
		return common.ErrInvalidToken
	}
	if !claims.valid(s.now()) {
		return common.ErrTokenExpired
	}

	if err := s.repo.Set(ctx, common.TokenStorageKey, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.claims = claims
	s.setHeaderLocked()
	s.mu.Unlock()

	s.log.Debug(ctx, "session token set", "subject", claims.Subject, "expires_at", claims.ExpiresAt)
	return nil
}

// ClearToken drops the token from memory, durable storage and the gateway headers.
func (s *Store) ClearToken(ctx context.Context) error {
	s.mu.Lock()
	s.dropLocked()
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, common.TokenStorageKey); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// SetUsername records the name the user logged in with.
func (s *Store) SetUsername(ctx context.Context, username string) error {
	s.mu.Lock()
	s.username = username
	s.mu.Unlock()

	if err := s.repo.Set(ctx, common.UsernameStorageKey, username); err != nil {
		return fmt.Errorf("persist username: %w", err)
	}
	return nil
}

// Clear ends the session entirely: token and username.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.dropLocked()
	s.username = ""
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, common.TokenStorageKey, common.UsernameStorageKey); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// IsAuthenticated is true iff a token is held and its expiry is strictly in
// the future. An expired token is dropped from memory and headers on the spot.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.validToken()
	return ok
}

// Initialize restores the persisted session at start-up. An expired or
// undecodable token is removed from storage together with the username.
func (s *Store) Initialize(ctx context.Context) error {
	stored, err := s.repo.GetMany(ctx, common.TokenStorageKey, common.UsernameStorageKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	token := stored[common.TokenStorageKey]
	if token == "" {
		return nil
	}

	claims, ok := DecodeClaims(token)
	if !ok || !claims.valid(s.now()) {
		s.log.Info(ctx, "discarding stored session", "decodable", ok)
		return s.Clear(ctx)
	}

	s.mu.Lock()
	s.token = token
	s.claims = claims
	s.username = stored[common.UsernameStorageKey]
	s.setHeaderLocked()
	s.mu.Unlock()
	return nil
}

// Interceptor returns a request hook that sets "Authorization: Bearer <token>"
// while the session is valid and strips the header otherwise.
func (s *Store) Interceptor() func(*http.Request) error {
	return func(req *http.Request) error {
		if token, ok := s.validToken(); ok {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		} else {
			req.Header.Del(common.AuthorizationHeaderName)
		}
		return nil
	}
}

// Token returns the current token, "" when unauthenticated.
func (s *Store) Token() string {
	t, _ := s.validToken()
	return t
}

// Claims returns the decoded claims of the current token.
func (s *Store) Claims() Claims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims
}

// Username returns the login name, falling back to the token subject.
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.username != "" {
		return s.username
	}
	return s.claims.Subject
}

// Reset wipes in-memory state and gateway headers without touching storage.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked()
	s.username = ""
}

func (s *Store) validToken() (string, bool) {
	s.mu.RLock()
	token, claims := s.token, s.claims
	s.mu.RUnlock()

	if token == "" {
		return "", false
	}
	if claims.valid(s.now()) {
		return token, true
	}

	s.mu.Lock()
	if s.token == token {
		s.dropLocked()
	}
	s.mu.Unlock()
	return "", false
}

func (s *Store) setHeaderLocked() {
	if s.headers != nil {
		s.headers.SetDefaultHeader(common.AuthorizationHeaderName, common.BearerPrefix+s.token)
	}
}

func (s *Store) dropLocked() {
	s.token = ""
	s.claims = Claims{}
	if s.headers != nil {
		s.headers.DeleteDefaultHeader(common.AuthorizationHeaderName)
	}
}

package session

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/spillway/internal/client/client"
	"github.com/dmitrijs2005/spillway/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu     sync.Mutex
	data   map[string]string
	setErr error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{data: map[string]string{}} }

func (f *fakeRepo) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeRepo) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeRepo) GetMany(_ context.Context, keys ...string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]string{}
	for _, k := range keys {
		if v, ok := f.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeRepo) List(context.Context) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]string{}
	for k, v := range f.data {
		out[k] = v
	}
	return out, nil
}

func (f *fakeRepo) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = map[string]string{}
	return nil
}

type fakeHeaders struct {
	h http.Header
}

func newFakeHeaders() *fakeHeaders { return &fakeHeaders{h: http.Header{}} }

func (f *fakeHeaders) SetDefaultHeader(name, value string) { f.h.Set(name, value) }
func (f *fakeHeaders) DeleteDefaultHeader(name string)     { f.h.Del(name) }

var base = time.Unix(1_700_000_000, 0)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func makeToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	return makeToken(t, jwt.MapClaims{"sub": "bob", "email": "bob@example.com", "roles": []string{"USER"}, "exp": exp.Unix()})
}

func newTestStore(t *testing.T) (*Store, *fakeRepo, *fakeHeaders, *clock) {
	t.Helper()
	repo := newFakeRepo()
	headers := newFakeHeaders()
	clk := &clock{now: base}
	return NewStore(repo, headers, WithClock(clk.Now)), repo, headers, clk
}

func TestDecodeClaims_ValidToken(t *testing.T) {
	tok := makeToken(t, jwt.MapClaims{
		"sub": "u-1", "email": "a@b.c", "authorities": []string{"USER", "ADMIN"},
		"exp": base.Add(time.Hour).Unix(), "iat": base.Unix(),
	})

	c, ok := DecodeClaims(tok)
	require.True(t, ok)
	assert.Equal(t, "u-1", c.Subject)
	assert.Equal(t, "a@b.c", c.Email)
	assert.Equal(t, []string{"USER", "ADMIN"}, c.Roles)
	assert.True(t, c.ExpiresAt.Equal(base.Add(time.Hour)))
	assert.True(t, c.IssuedAt.Equal(base))
}

func TestDecodeClaims_MalformedTokensFailSoft(t *testing.T) {
	b64 := base64.RawURLEncoding.EncodeToString
	malformed := []string{
		"",
		"abc",
		"a.b",
		"a.b.c",
		"....",
		"eyJ.eyJ.sig",
		b64([]byte(`{"alg":"HS256"}`)) + "." + b64([]byte(`not json`)) + ".sig",
		b64([]byte(`{"alg":"HS256"}`)) + "." + b64([]byte(`{"exp":"tomorrow"}`)) + ".sig",
		b64([]byte(`{"alg":"HS256"}`)) + "." + b64([]byte(`{"sub":42}`)) + ".sig",
		b64([]byte(`[]`)) + "." + b64([]byte(`{}`)) + ".sig",
		"\x00\xff.\x00.\x00",
	}

	for _, tok := range malformed {
		var c Claims
		var ok bool
		require.NotPanics(t, func() { c, ok = DecodeClaims(tok) }, "token %q", tok)
		assert.False(t, ok, "token %q", tok)
		assert.True(t, c.Empty(), "token %q", tok)
	}
}

func TestIsAuthenticated_FalseForExpiryAtOrBeforeNow(t *testing.T) {
	for _, offset := range []time.Duration{0, -time.Second, -time.Hour, -24 * 365 * time.Hour} {
		s, _, headers, clk := newTestStore(t)

		exp := base.Add(time.Hour)
		require.NoError(t, s.SetToken(context.Background(), tokenExpiringAt(t, exp)))
		require.True(t, s.IsAuthenticated())

		clk.now = exp.Add(-offset)
		assert.False(t, s.IsAuthenticated(), "offset %v", offset)
		assert.Empty(t, s.Token())
		assert.Empty(t, headers.h.Get("Authorization"))
	}
}

func TestIsAuthenticated_TrueJustBeforeExpiry(t *testing.T) {
	s, _, _, clk := newTestStore(t)
	exp := base.Add(time.Hour)
	require.NoError(t, s.SetToken(context.Background(), tokenExpiringAt(t, exp)))

	clk.now = exp.Add(-time.Second)
	assert.True(t, s.IsAuthenticated())
}

func TestIsAuthenticated_FalseWithoutToken(t *testing.T) {
	s, _, _, _ := newTestStore(t)
	assert.False(t, s.IsAuthenticated())
	assert.True(t, s.Claims().Empty())
}

func TestSetToken_RejectsBadTokens(t *testing.T) {
	s, repo, headers, _ := newTestStore(t)
	ctx := context.Background()

	require.ErrorIs(t, s.SetToken(ctx, "garbage"), common.ErrInvalidToken)
	require.ErrorIs(t, s.SetToken(ctx, tokenExpiringAt(t, base)), common.ErrTokenExpired)
	require.ErrorIs(t, s.SetToken(ctx, makeToken(t, jwt.MapClaims{"sub": "bob"})), common.ErrTokenExpired)

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, repo.data)
	assert.Empty(t, headers.h)
}

func TestSetToken_PersistsAndSetsHeader(t *testing.T) {
	s, repo, headers, _ := newTestStore(t)
	tok := tokenExpiringAt(t, base.Add(time.Hour))

	require.NoError(t, s.SetToken(context.Background(), tok))

	assert.Equal(t, tok, repo.data[common.TokenStorageKey])
	assert.Equal(t, "Bearer "+tok, headers.h.Get("Authorization"))
	assert.Equal(t, "bob", s.Claims().Subject)
	assert.Equal(t, []string{"USER"}, s.Claims().Roles)
	assert.Equal(t, tok, s.Token())
}

func TestSetToken_PersistFailureReported(t *testing.T) {
	s, repo, headers, _ := newTestStore(t)
	repo.setErr = errors.New("disk full")

	err := s.SetToken(context.Background(), tokenExpiringAt(t, base.Add(time.Hour)))
	require.ErrorContains(t, err, "disk full")

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Empty(t, headers.h.Values("Authorization"))
}

func TestClearToken_RemovesEverywhere(t *testing.T) {
	s, repo, headers, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetToken(ctx, tokenExpiringAt(t, base.Add(time.Hour))))

	require.NoError(t, s.ClearToken(ctx))

	assert.False(t, s.IsAuthenticated())
	assert.NotContains(t, repo.data, common.TokenStorageKey)
	assert.Empty(t, headers.h.Values("Authorization"))
}

func TestInitialize_RestoresValidSession(t *testing.T) {
	s, repo, headers, _ := newTestStore(t)
	tok := tokenExpiringAt(t, base.Add(time.Hour))
	repo.data[common.TokenStorageKey] = tok
	repo.data[common.UsernameStorageKey] = "bobby"

	require.NoError(t, s.Initialize(context.Background()))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "bobby", s.Username())
	assert.Equal(t, "Bearer "+tok, headers.h.Get("Authorization"))
}

func TestInitialize_DiscardsExpiredOrBroken(t *testing.T) {
	for name, tok := range map[string]string{
		"expired": tokenExpiringAt(t, base.Add(-time.Minute)),
		"broken":  "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			s, repo, headers, _ := newTestStore(t)
			repo.data[common.TokenStorageKey] = tok
			repo.data[common.UsernameStorageKey] = "bob"

			require.NoError(t, s.Initialize(context.Background()))

			assert.False(t, s.IsAuthenticated())
			assert.Empty(t, repo.data)
			assert.Empty(t, headers.h)
			assert.Empty(t, s.Username())
		})
	}
}

func TestInitialize_NothingStored(t *testing.T) {
	s, _, _, _ := newTestStore(t)
	require.NoError(t, s.Initialize(context.Background()))
	assert.False(t, s.IsAuthenticated())
}

func TestUsername_FallsBackToSubject(t *testing.T) {
	s, _, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetToken(ctx, tokenExpiringAt(t, base.Add(time.Hour))))
	assert.Equal(t, "bob", s.Username())

	require.NoError(t, s.SetUsername(ctx, "Bob"))
	assert.Equal(t, "Bob", s.Username())

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Username())
}

func TestReset_InMemoryOnly(t *testing.T) {
	s, repo, headers, _ := newTestStore(t)
	require.NoError(t, s.SetToken(context.Background(), tokenExpiringAt(t, base.Add(time.Hour))))

	s.Reset()

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, headers.h)
	assert.Contains(t, repo.data, common.TokenStorageKey)
}

func TestSetThenClear_NoAuthorizationOnLaterRequests(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	gw, err := client.NewHTTPClient(ts.URL)
	require.NoError(t, err)
	clk := &clock{now: base}
	s := NewStore(newFakeRepo(), gw, WithClock(clk.Now))
	gw.AddInterceptor(s.Interceptor())
	ctx := context.Background()

	tok := tokenExpiringAt(t, base.Add(time.Hour))
	require.NoError(t, s.SetToken(ctx, tok))
	_, err = gw.Genres(ctx)
	require.NoError(t, err)

	require.NoError(t, s.ClearToken(ctx))
	_, err = gw.Genres(ctx)
	require.NoError(t, err)
	_, err = gw.Genres(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer " + tok, "", ""}, seen)
	assert.Empty(t, gw.DefaultHeader("Authorization"))
}

func TestInterceptor_StripsExpiredToken(t *testing.T) {
	s, _, _, clk := newTestStore(t)
	exp := base.Add(time.Minute)
	require.NoError(t, s.SetToken(context.Background(), tokenExpiringAt(t, exp)))

	req := httptest.NewRequest(http.MethodGet, "/video/my-videos", nil)
	require.NoError(t, s.Interceptor()(req))
	assert.NotEmpty(t, req.Header.Get("Authorization"))

	clk.now = exp
	req = httptest.NewRequest(http.MethodGet, "/video/my-videos", nil)
	req.Header.Set("Authorization", "Bearer stale")
	require.NoError(t, s.Interceptor()(req))
	assert.Empty(t, req.Header.Values("Authorization"))
}

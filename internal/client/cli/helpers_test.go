package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/spillway/internal/client/client"
	"github.com/dmitrijs2005/spillway/internal/client/config"
	"github.com/dmitrijs2005/spillway/internal/client/poller"
	"github.com/dmitrijs2005/spillway/internal/client/services"
	"github.com/dmitrijs2005/spillway/internal/client/session"
	"github.com/dmitrijs2005/spillway/internal/client/stores"
	"github.com/dmitrijs2005/spillway/internal/client/views"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// harness is an App wired like the real binary, talking to a chi backend
// and an in-memory database.
type harness struct {
	app *App
	out *bytes.Buffer

	mu   sync.Mutex
	hits []string
}

func (h *harness) requests() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.hits...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func makeToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

// loginRoute accepts any credentials except the password "wrong".
func loginRoute(t *testing.T) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(req.Body).Decode(&body)
			if body["password"] == "wrong" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"jwt": makeToken(t, body["username"], time.Now().Add(time.Hour))})
		})
	}
}

func newHarness(t *testing.T, input string, routes ...func(chi.Router)) *harness {
	t.Helper()
	ctx := context.Background()
	h := &harness{out: &bytes.Buffer{}}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			h.mu.Lock()
			h.hits = append(h.hits, req.Method+" "+req.URL.Path)
			h.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	for _, add := range routes {
		add(r)
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	repos, err := client.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	api, err := client.NewHTTPClient(srv.URL)
	require.NoError(t, err)
	sess := session.NewStore(repos.Metadata, api)
	api.AddInterceptor(sess.Interceptor())

	videos := stores.NewVideoStore(api, stores.WithPollerOptions(poller.WithInterval(0)))
	search := stores.NewSearchStore(api)
	auth := services.NewAuthService(api, sess, nil)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = srv.URL

	h.app = NewApp(Deps{
		Config:    cfg,
		Auth:      auth,
		Keys:      services.NewKeyService(repos.Keys),
		Videos:    videos,
		Playlists: stores.NewPlaylistStore(api),
		Search:    search,
		Sharing:   stores.NewSharingStore(api),
		List:      views.NewVideoList(videos, search, auth, views.DefaultOptions(), nil),
	}, strings.NewReader(input), h.out)
	return h
}

// stubInputs replaces the interactive prompts. Text answers are consumed
// in order; every password prompt returns password.
func stubInputs(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(string, io.Writer) ([]byte, error) { return []byte(password), nil }
}

func (h *harness) login(t *testing.T, user string) {
	t.Helper()
	stubInputs(t, "pw")
	require.NoError(t, h.app.Login(context.Background(), user))
}

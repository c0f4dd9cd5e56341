package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/spillway/internal/client/models"
	"github.com/dmitrijs2005/spillway/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadBackend serves metadata creation, file upload and a scripted
// status sequence.
type uploadBackend struct {
	mu       sync.Mutex
	created  models.VideoUploadRequest
	key      string
	fileBody string
	fileCode int
	statuses []models.ConversionStatus
}

func (b *uploadBackend) routes(r chi.Router) {
	r.Post("/upload/video/metadata", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		_ = json.NewDecoder(req.Body).Decode(&b.created)
		title := b.created.Title
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, models.Video{ID: "v1", Title: title, ConversionStatus: models.ConversionPending})
	})
	r.Post("/upload/video/{id}/file", func(w http.ResponseWriter, req *http.Request) {
		f, _, err := req.FormFile("file")
		if err == nil {
			data, _ := io.ReadAll(f)
			b.mu.Lock()
			b.fileBody = string(data)
			b.mu.Unlock()
		}
		b.mu.Lock()
		b.key = req.Header.Get(common.EncryptionKeyHeaderName)
		code := b.fileCode
		b.mu.Unlock()
		if code != 0 {
			writeJSON(w, code, map[string]string{"message": "storage is full"})
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/video/{id}/status", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		st := models.ConversionCompleted
		if len(b.statuses) > 0 {
			st = b.statuses[0]
			b.statuses = b.statuses[1:]
		}
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, models.ConversionProgress{Status: st, Progress: 50})
	})
}

func tempVideo(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestUpload_CreatesUploadsAndWaits(t *testing.T) {
	b := &uploadBackend{statuses: []models.ConversionStatus{models.ConversionPending, models.ConversionInProgress}}
	h := newHarness(t, "", loginRoute(t), b.routes)
	h.login(t, "alice")
	ctx := context.Background()

	path := tempVideo(t, "holiday.mp4", "video-bytes")
	require.NoError(t, h.app.Upload(ctx, path, UploadOptions{Genre: "Travel", Wait: true}))

	assert.Equal(t, "holiday", b.created.Title, "title defaults to the file name")
	assert.Equal(t, "Travel", b.created.Genre)
	assert.Equal(t, "video-bytes", b.fileBody)
	require.NotEmpty(t, b.key)

	stored, ok, err := h.app.Keys.GetKey(ctx, "v1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, b.key, stored, "the key sent to the server is kept locally")

	assert.Contains(t, h.out.String(), "Video v1 is ready")
	assert.Equal(t, 100, h.app.Videos.UploadProgress())
	assert.True(t, h.app.Videos.IsReady("v1"))
}

func TestUpload_NoWait(t *testing.T) {
	b := &uploadBackend{}
	h := newHarness(t, "", loginRoute(t), b.routes)
	h.login(t, "alice")

	path := tempVideo(t, "a.mp4", "x")
	require.NoError(t, h.app.Upload(context.Background(), path, UploadOptions{Title: "A"}))

	assert.Contains(t, h.out.String(), "status v1")
	for _, req := range h.requests() {
		assert.NotEqual(t, "GET /video/v1/status", req)
	}
}

func TestUpload_FailedFileDropsKey(t *testing.T) {
	b := &uploadBackend{fileCode: http.StatusInsufficientStorage}
	h := newHarness(t, "", loginRoute(t), b.routes)
	h.login(t, "alice")
	ctx := context.Background()

	err := h.app.Upload(ctx, tempVideo(t, "a.mp4", "x"), UploadOptions{Wait: true})
	require.EqualError(t, err, "storage is full")

	has, err := h.app.Keys.HasKey(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestUpload_ConversionFailure(t *testing.T) {
	b := &uploadBackend{statuses: []models.ConversionStatus{models.ConversionFailed}}
	h := newHarness(t, "", loginRoute(t), b.routes)
	h.login(t, "alice")

	err := h.app.Upload(context.Background(), tempVideo(t, "a.mp4", "x"), UploadOptions{Wait: true})
	require.EqualError(t, err, "Video conversion failed")
	assert.True(t, h.app.Videos.IsFailed("v1"))
}

func TestUpload_MissingFile(t *testing.T) {
	h := newHarness(t, "")
	err := h.app.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"), UploadOptions{})
	require.Error(t, err)
	assert.Empty(t, h.requests())

	err = h.app.Upload(context.Background(), t.TempDir(), UploadOptions{})
	require.ErrorContains(t, err, "is a directory")
}

func TestUploadInteractive(t *testing.T) {
	b := &uploadBackend{}
	path := tempVideo(t, "ep.mp4", "x")
	// Description, season and episode are read from the raw input, the rest
	// through the prompt seam.
	h := newHarness(t, "A pilot\n\n1\n2\n", loginRoute(t), b.routes)
	h.login(t, "alice")
	stubInputs(t, "", path, "Pilot", "episode", "Drama")

	require.NoError(t, h.app.UploadInteractive(context.Background()))
	assert.Equal(t, "Pilot", b.created.Title)
	assert.Equal(t, models.VideoTypeEpisode, b.created.Type)
	assert.Equal(t, "Drama", b.created.Genre)
	assert.Equal(t, "A pilot", b.created.Description)
	require.NotNil(t, b.created.SeasonNumber)
	require.NotNil(t, b.created.EpisodeNumber)
	assert.Equal(t, 1, *b.created.SeasonNumber)
	assert.Equal(t, 2, *b.created.EpisodeNumber)
}

func TestShowVideoAndStatus(t *testing.T) {
	length := 90
	h := newHarness(t, "", func(r chi.Router) {
		r.Get("/video/{id}", func(w http.ResponseWriter, req *http.Request) {
			if chi.URLParam(req, "id") != "v1" {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "Video not found"})
				return
			}
			writeJSON(w, http.StatusOK, models.Video{ID: "v1", Title: "Clip", Genre: "Comedy", Length: &length, ConversionStatus: models.ConversionCompleted})
		})
		r.Get("/video/{id}/status", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, models.ConversionProgress{Status: models.ConversionFailed, Error: "codec"})
		})
	})
	ctx := context.Background()
	require.NoError(t, h.app.Keys.StoreKey(ctx, "v1", "k"))

	require.NoError(t, h.app.ShowVideo(ctx, "v1"))
	out := h.out.String()
	assert.Contains(t, out, "Clip")
	assert.Contains(t, out, "Comedy")
	assert.Contains(t, out, "1m30s")
	assert.Contains(t, out, "encryption key stored locally")

	require.EqualError(t, h.app.ShowVideo(ctx, "v2"), "Video not found")

	h.out.Reset()
	require.NoError(t, h.app.VideoStatus(ctx, "v1"))
	assert.Contains(t, h.out.String(), "failed")
	assert.Contains(t, h.out.String(), "codec")
}

func TestUpdateVideo_KeepsEmptyAnswers(t *testing.T) {
	var got models.VideoUpdateRequest
	h := newHarness(t, "", func(r chi.Router) {
		r.Get("/video/{id}", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, models.Video{ID: "v1", Title: "Old", Genre: "Drama", Description: "d"})
		})
		r.Put("/video/{id}", func(w http.ResponseWriter, req *http.Request) {
			_ = json.NewDecoder(req.Body).Decode(&got)
			writeJSON(w, http.StatusOK, models.Video{ID: "v1", Title: got.Title})
		})
	})
	stubInputs(t, "", "New", "", "")

	require.NoError(t, h.app.UpdateVideo(context.Background(), "v1"))
	assert.Equal(t, models.VideoUpdateRequest{Title: "New", Genre: "Drama", Description: "d"}, got)
	cur, ok := h.app.Videos.Current()
	require.True(t, ok)
	assert.Equal(t, "New", cur.Title)
}

func TestDeleteVideo_ForgetsKey(t *testing.T) {
	h := newHarness(t, "", func(r chi.Router) {
		r.Delete("/video/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	})
	ctx := context.Background()
	require.NoError(t, h.app.Keys.StoreKey(ctx, "v1", "k"))

	require.NoError(t, h.app.DeleteVideo(ctx, "v1"))
	has, err := h.app.Keys.HasKey(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, has)
	assert.Contains(t, h.out.String(), "Deleted v1")
}

func TestHome_FallsBackToRecent(t *testing.T) {
	h := newHarness(t, "", func(r chi.Router) {
		r.Get("/search/videos/recent", func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "10", req.URL.Query().Get("limit"))
			writeJSON(w, http.StatusOK, []models.Video{{ID: "r1", Title: "Fresh"}})
		})
	})

	h.app.Home(context.Background())
	assert.Contains(t, h.out.String(), "Recent uploads (1)")
	assert.Contains(t, h.out.String(), "Fresh")
}

func TestParseVideoType(t *testing.T) {
	got, err := parseVideoType(" clip ")
	require.NoError(t, err)
	assert.Equal(t, models.VideoTypeClip, got)

	got, err = parseVideoType("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = parseVideoType("documentary")
	require.Error(t, err)
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/spillway/internal/client/models"
	"github.com/dmitrijs2005/spillway/internal/common"
	"github.com/dmitrijs2005/spillway/internal/logging"
	"github.com/dmitrijs2005/spillway/internal/netx"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestInterceptor may inspect or modify an outgoing request. Returning an
// error aborts the call with that error.
type RequestInterceptor func(req *http.Request) error

// HTTPClient is the REST implementation of Client. It owns its default
// header set and its interceptor chain; nothing is shared between instances.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	log     logging.Logger

	mu           sync.RWMutex
	headers      http.Header
	interceptors []RequestInterceptor

	newRequestID func() string
}

var _ Client = (*HTTPClient)(nil)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithRateLimit throttles outbound requests. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithInterceptor appends a request interceptor.
func WithInterceptor(i RequestInterceptor) Option {
	return func(c *HTTPClient) { c.interceptors = append(c.interceptors, i) }
}

// WithRequestIDGenerator overrides the X-Request-ID source.
func WithRequestIDGenerator(f func() string) Option {
	return func(c *HTTPClient) { c.newRequestID = f }
}

// NewHTTPClient builds a client rooted at baseURL (scheme and host required).
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host required", baseURL)
	}

	c := &HTTPClient{
		baseURL:      u,
		http:         &http.Client{},
		log:          logging.NewNop(),
		headers:      http.Header{},
		newRequestID: func() string { return uuid.NewString() },
	}
	c.headers.Set("Accept", "application/json")

	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the API root this client talks to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL.String()
}

// SetDefaultHeader sets a header sent with every subsequent request.
func (c *HTTPClient) SetDefaultHeader(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Set(name, value)
}

// DeleteDefaultHeader removes a default header.
func (c *HTTPClient) DeleteDefaultHeader(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Del(name)
}

// DefaultHeader returns the current value of a default header, "" if unset.
func (c *HTTPClient) DefaultHeader(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.headers.Get(name)
}

// AddInterceptor appends a request interceptor after construction.
func (c *HTTPClient) AddInterceptor(i RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interceptors = append(c.interceptors, i)
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	length      int64
	contentType string
	header      http.Header
}

func jsonRequest(method, path string, payload any) (*request, error) {
	r := &request{method: method, path: path}
	if payload == nil {
		return r, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	r.body = bytes.NewReader(b)
	r.length = int64(len(b))
	r.contentType = "application/json"
	return r, nil
}

func (c *HTTPClient) newHTTPRequest(ctx context.Context, r *request) (*http.Request, error) {
	u, err := url.Parse(c.baseURL.String() + r.path)
	if err != nil {
		return nil, err
	}
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), r.body)
	if err != nil {
		return nil, err
	}
	if r.body != nil {
		req.ContentLength = r.length
	}

	c.mu.RLock()
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	interceptors := append([]RequestInterceptor(nil), c.interceptors...)
	c.mu.RUnlock()

	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	for k, vs := range r.header {
		req.Header[k] = vs
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(common.RequestIDHeaderName, id)
	}

	for _, i := range interceptors {
		if err := i(req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// do executes r and decodes a JSON response into out (when non-nil and the
// body is not empty). Every failure is returned as *APIError.
func (c *HTTPClient) do(ctx context.Context, r *request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &APIError{Kind: KindNetwork, Message: err.Error(), Err: err}
		}
	}

	ctx = logging.WithRequestID(ctx, c.newRequestID())
	req, err := c.newHTTPRequest(ctx, r)
	if err != nil {
		return &APIError{Kind: KindNetwork, Message: err.Error(), Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "api request failed",
			"method", r.method, "path", r.path, "duration", time.Since(start), "error", err)
		return &APIError{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.log.Debug(ctx, "api request",
		"method", r.method, "path", r.path, "status", resp.StatusCode, "duration", time.Since(start))
	if err != nil {
		return &APIError{Kind: KindNetwork, Status: resp.StatusCode, Message: err.Error(), Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{
			Kind:    classifyStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: extractMessage(resp.StatusCode, body),
		}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Kind: KindValidation, Status: resp.StatusCode,
			Message: fmt.Sprintf("malformed response: %v", err), Err: err}
	}
	return nil
}

// extractMessage pulls a human readable message out of an error body:
// JSON "message" or "error" fields first, then the raw text, then the status text.
func extractMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	var s string
	if err := json.Unmarshal(body, &s); err == nil && s != "" {
		return s
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(status)
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, &request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *HTTPClient) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	r, err := jsonRequest(method, path, payload)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

func esc(s string) string {
	return url.PathEscape(s)
}

// Auth

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	if out.JWT == "" {
		return nil, &APIError{Kind: KindValidation, Status: http.StatusOK, Message: "login response carries no token"}
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegistrationRequest) (*models.RegistrationResponse, error) {
	var out models.RegistrationResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ConfirmEmail(ctx context.Context, token string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.getJSON(ctx, "/auth/confirm", url.Values{"token": {token}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResendConfirmation(ctx context.Context, email string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	err := c.sendJSON(ctx, http.MethodPost, "/auth/resend-confirmation", models.ResendConfirmationRequest{Email: email}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Videos

func (c *HTTPClient) CreateVideoMetadata(ctx context.Context, req models.VideoUploadRequest) (*models.Video, error) {
	var out models.Video
	if err := c.sendJSON(ctx, http.MethodPost, "/upload/video/metadata", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadVideoFile streams file as the multipart "file" field. When
// encryptionKey is non-empty it is sent as X-Encryption-Key so the backend
// encrypts the transcoded output with it.
func (c *HTTPClient) UploadVideoFile(ctx context.Context, videoID string, file UploadFile, encryptionKey string, onProgress func(percent int)) error {
	if file.Reader == nil {
		return &APIError{Kind: KindValidation, Message: "no file to upload"}
	}

	body, err := netx.NewMultipartFile("file", file.Name, file.Reader, file.Size)
	if err != nil {
		return &APIError{Kind: KindValidation, Message: err.Error(), Err: err}
	}

	var reader io.Reader = body
	if onProgress != nil {
		reader = netx.NewProgressReader(body, body.Length, onProgress)
	}

	r := &request{
		method:      http.MethodPost,
		path:        "/upload/video/" + esc(videoID) + "/file",
		body:        reader,
		length:      body.Length,
		contentType: body.ContentType,
	}
	if encryptionKey != "" {
		r.header = http.Header{common.EncryptionKeyHeaderName: {encryptionKey}}
	}
	return c.do(ctx, r, nil)
}

func (c *HTTPClient) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	var out models.Video
	if err := c.getJSON(ctx, "/video/"+esc(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateVideo(ctx context.Context, id string, req models.VideoUpdateRequest) (*models.Video, error) {
	var out models.Video
	if err := c.sendJSON(ctx, http.MethodPut, "/video/"+esc(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteVideo(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/video/"+esc(id), nil, nil)
}

func (c *HTTPClient) MyVideos(ctx context.Context) ([]models.Video, error) {
	out := []models.Video{}
	if err := c.getJSON(ctx, "/video/my-videos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) VideoStatus(ctx context.Context, id string) (*models.ConversionProgress, error) {
	var out models.ConversionProgress
	if err := c.getJSON(ctx, "/video/"+esc(id)+"/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search

func (c *HTTPClient) SearchVideos(ctx context.Context, req models.VideoSearchRequest) (*models.Page[models.Video], error) {
	var out models.Page[models.Video]
	if err := c.sendJSON(ctx, http.MethodPost, "/search/videos", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SearchPlaylists(ctx context.Context, req models.PlaylistSearchRequest) (*models.Page[models.Playlist], error) {
	var out models.Page[models.Playlist]
	if err := c.sendJSON(ctx, http.MethodPost, "/search/playlists", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Genres(ctx context.Context) ([]string, error) {
	out := []string{}
	if err := c.getJSON(ctx, "/search/genres", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) RecentVideos(ctx context.Context, limit int) ([]models.Video, error) {
	out := []models.Video{}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.getJSON(ctx, "/search/videos/recent", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) PopularPlaylists(ctx context.Context, limit int) ([]models.Playlist, error) {
	out := []models.Playlist{}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.getJSON(ctx, "/search/playlists/popular", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) QuickSearch(ctx context.Context, query string, page, size int) (*models.Page[models.Video], error) {
	var out models.Page[models.Video]
	q := url.Values{"q": {query}, "page": {strconv.Itoa(page)}, "size": {strconv.Itoa(size)}}
	if err := c.getJSON(ctx, "/search/videos/quick", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Playlists

func (c *HTTPClient) CreatePlaylist(ctx context.Context, req models.PlaylistCreateRequest) (*models.Playlist, error) {
	var out models.Playlist
	if err := c.sendJSON(ctx, http.MethodPost, "/playlist", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	var out models.Playlist
	if err := c.getJSON(ctx, "/playlist/"+esc(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) MyPlaylists(ctx context.Context) ([]models.Playlist, error) {
	out := []models.Playlist{}
	if err := c.getJSON(ctx, "/playlist/my-playlists", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdatePlaylist(ctx context.Context, id string, req models.PlaylistCreateRequest) (*models.Playlist, error) {
	var out models.Playlist
	if err := c.sendJSON(ctx, http.MethodPut, "/playlist/"+esc(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeletePlaylist(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/playlist/"+esc(id), nil, nil)
}

func (c *HTTPClient) PlaylistVideos(ctx context.Context, id string) ([]models.Video, error) {
	out := []models.Video{}
	if err := c.getJSON(ctx, "/playlist/"+esc(id)+"/videos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AddVideoToPlaylist(ctx context.Context, playlistID, videoID string, details *models.PlaylistVideoDetails) error {
	var payload any
	if details != nil {
		payload = details
	}
	return c.sendJSON(ctx, http.MethodPost, "/playlist/"+esc(playlistID)+"/videos/"+esc(videoID), payload, nil)
}

func (c *HTTPClient) RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/playlist/"+esc(playlistID)+"/videos/"+esc(videoID), nil, nil)
}

// Sharing

func (c *HTTPClient) ShareVideo(ctx context.Context, req models.ShareRequest) (*models.Share, error) {
	var out models.Share
	if err := c.sendJSON(ctx, http.MethodPost, "/video/sharing", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SharesCreatedByMe(ctx context.Context) ([]models.Share, error) {
	out := []models.Share{}
	if err := c.getJSON(ctx, "/video/sharing/created-by-me", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) SharesWithMe(ctx context.Context) ([]models.Share, error) {
	out := []models.Share{}
	if err := c.getJSON(ctx, "/video/sharing/shared-with-me", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) SharesForVideo(ctx context.Context, videoID string) ([]models.Share, error) {
	out := []models.Share{}
	if err := c.getJSON(ctx, "/video/sharing/video/"+esc(videoID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetShare(ctx context.Context, shareID string) (*models.Share, error) {
	var out models.Share
	if err := c.getJSON(ctx, "/video/sharing/"+esc(shareID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RevokeShare(ctx context.Context, shareID string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/video/sharing/"+esc(shareID), nil, nil)
}

// AsAPIError unwraps err into *APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

package stores

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/spillway/internal/client/client"
	"github.com/dmitrijs2005/spillway/internal/client/models"
)

var errNotStubbed = errors.New("not stubbed")

func unauthorized() error {
	return &client.APIError{Kind: client.KindUnauthorized, Status: http.StatusUnauthorized, Message: "Unauthorized"}
}

func validation(msg string) error {
	return &client.APIError{Kind: client.KindValidation, Status: http.StatusBadRequest, Message: msg}
}

// fakeAPI implements client.Client with per-method hooks. Unset hooks fail.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	createVideo      func(models.VideoUploadRequest) (*models.Video, error)
	upload           func(id string, key string, onProgress func(int)) error
	getVideo         func(id string) (*models.Video, error)
	updateVideo      func(id string, req models.VideoUpdateRequest) (*models.Video, error)
	deleteVideo      func(id string) error
	myVideos         func() ([]models.Video, error)
	videoStatus      func(id string) (*models.ConversionProgress, error)
	searchVideos     func(models.VideoSearchRequest) (*models.Page[models.Video], error)
	searchPlaylists  func(models.PlaylistSearchRequest) (*models.Page[models.Playlist], error)
	genres           func() ([]string, error)
	recent           func(limit int) ([]models.Video, error)
	popular          func(limit int) ([]models.Playlist, error)
	quick            func(q string, page, size int) (*models.Page[models.Video], error)
	createPlaylist   func(models.PlaylistCreateRequest) (*models.Playlist, error)
	getPlaylist      func(id string) (*models.Playlist, error)
	myPlaylists      func() ([]models.Playlist, error)
	updatePlaylist   func(id string, req models.PlaylistCreateRequest) (*models.Playlist, error)
	deletePlaylist   func(id string) error
	playlistVideos   func(id string) ([]models.Video, error)
	addToPlaylist    func(pid, vid string, d *models.PlaylistVideoDetails) error
	removeFromPlayls func(pid, vid string) error
	shareVideo       func(models.ShareRequest) (*models.Share, error)
	createdByMe      func() ([]models.Share, error)
	withMe           func() ([]models.Share, error)
	forVideo         func(id string) ([]models.Share, error)
	getShare         func(id string) (*models.Share, error)
	revokeShare      func(id string) error
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Login(context.Context, models.LoginRequest) (*models.LoginResponse, error) {
	return nil, errNotStubbed
}

func (f *fakeAPI) Register(context.Context, models.RegistrationRequest) (*models.RegistrationResponse, error) {
	return nil, errNotStubbed
}

func (f *fakeAPI) ConfirmEmail(context.Context, string) (*models.MessageResponse, error) {
	return nil, errNotStubbed
}

func (f *fakeAPI) ResendConfirmation(context.Context, string) (*models.MessageResponse, error) {
	return nil, errNotStubbed
}

func (f *fakeAPI) CreateVideoMetadata(_ context.Context, req models.VideoUploadRequest) (*models.Video, error) {
	f.record("CreateVideoMetadata")
	if f.createVideo == nil {
		return nil, errNotStubbed
	}
	return f.createVideo(req)
}

func (f *fakeAPI) UploadVideoFile(_ context.Context, id string, _ client.UploadFile, key string, onProgress func(int)) error {
	f.record("UploadVideoFile")
	if f.upload == nil {
		return errNotStubbed
	}
	return f.upload(id, key, onProgress)
}

func (f *fakeAPI) GetVideo(_ context.Context, id string) (*models.Video, error) {
	f.record("GetVideo")
	if f.getVideo == nil {
		return nil, errNotStubbed
	}
	return f.getVideo(id)
}

func (f *fakeAPI) UpdateVideo(_ context.Context, id string, req models.VideoUpdateRequest) (*models.Video, error) {
	f.record("UpdateVideo")
	if f.updateVideo == nil {
		return nil, errNotStubbed
	}
	return f.updateVideo(id, req)
}

func (f *fakeAPI) DeleteVideo(_ context.Context, id string) error {
	f.record("DeleteVideo")
	if f.deleteVideo == nil {
		return errNotStubbed
	}
	return f.deleteVideo(id)
}

func (f *fakeAPI) MyVideos(context.Context) ([]models.Video, error) {
	f.record("MyVideos")
	if f.myVideos == nil {
		return nil, errNotStubbed
	}
	return f.myVideos()
}

func (f *fakeAPI) VideoStatus(_ context.Context, id string) (*models.ConversionProgress, error) {
	f.record("VideoStatus")
	if f.videoStatus == nil {
		return nil, errNotStubbed
	}
	return f.videoStatus(id)
}

func (f *fakeAPI) SearchVideos(_ context.Context, req models.VideoSearchRequest) (*models.Page[models.Video], error) {
	f.record("SearchVideos")
	if f.searchVideos == nil {
		return nil, errNotStubbed
	}
	return f.searchVideos(req)
}

func (f *fakeAPI) SearchPlaylists(_ context.Context, req models.PlaylistSearchRequest) (*models.Page[models.Playlist], error) {
	f.record("SearchPlaylists")
	if f.searchPlaylists == nil {
		return nil, errNotStubbed
	}
	return f.searchPlaylists(req)
}

func (f *fakeAPI) Genres(context.Context) ([]string, error) {
	f.record("Genres")
	if f.genres == nil {
		return nil, errNotStubbed
	}
	return f.genres()
}

func (f *fakeAPI) RecentVideos(_ context.Context, limit int) ([]models.Video, error) {
	f.record("RecentVideos")
	if f.recent == nil {
		return nil, errNotStubbed
	}
	return f.recent(limit)
}

func (f *fakeAPI) PopularPlaylists(_ context.Context, limit int) ([]models.Playlist, error) {
	f.record("PopularPlaylists")
	if f.popular == nil {
		return nil, errNotStubbed
	}
	return f.popular(limit)
}

func (f *fakeAPI) QuickSearch(_ context.Context, q string, page, size int) (*models.Page[models.Video], error) {
	f.record("QuickSearch")
	if f.quick == nil {
		return nil, errNotStubbed
	}
	return f.quick(q, page, size)
}

func (f *fakeAPI) CreatePlaylist(_ context.Context, req models.PlaylistCreateRequest) (*models.Playlist, error) {
	f.record("CreatePlaylist")
	if f.createPlaylist == nil {
		return nil, errNotStubbed
	}
	return f.createPlaylist(req)
}

func (f *fakeAPI) GetPlaylist(_ context.Context, id string) (*models.Playlist, error) {
	f.record("GetPlaylist")
	if f.getPlaylist == nil {
		return nil, errNotStubbed
	}
	return f.getPlaylist(id)
}

func (f *fakeAPI) MyPlaylists(context.Context) ([]models.Playlist, error) {
	f.record("MyPlaylists")
	if f.myPlaylists == nil {
		return nil, errNotStubbed
	}
	return f.myPlaylists()
}

func (f *fakeAPI) UpdatePlaylist(_ context.Context, id string, req models.PlaylistCreateRequest) (*models.Playlist, error) {
	f.record("UpdatePlaylist")
	if f.updatePlaylist == nil {
		return nil, errNotStubbed
	}
	return f.updatePlaylist(id, req)
}

func (f *fakeAPI) DeletePlaylist(_ context.Context, id string) error {
	f.record("DeletePlaylist")
	if f.deletePlaylist == nil {
		return errNotStubbed
	}
	return f.deletePlaylist(id)
}

func (f *fakeAPI) PlaylistVideos(_ context.Context, id string) ([]models.Video, error) {
	f.record("PlaylistVideos")
	if f.playlistVideos == nil {
		return nil, errNotStubbed
	}
	return f.playlistVideos(id)
}

func (f *fakeAPI) AddVideoToPlaylist(_ context.Context, pid, vid string, d *models.PlaylistVideoDetails) error {
	f.record("AddVideoToPlaylist")
	if f.addToPlaylist == nil {
		return errNotStubbed
	}
	return f.addToPlaylist(pid, vid, d)
}

func (f *fakeAPI) RemoveVideoFromPlaylist(_ context.Context, pid, vid string) error {
	f.record("RemoveVideoFromPlaylist")
	if f.removeFromPlayls == nil {
		return errNotStubbed
	}
	return f.removeFromPlayls(pid, vid)
}

func (f *fakeAPI) ShareVideo(_ context.Context, req models.ShareRequest) (*models.Share, error) {
	f.record("ShareVideo")
	if f.shareVideo == nil {
		return nil, errNotStubbed
	}
	return f.shareVideo(req)
}

func (f *fakeAPI) SharesCreatedByMe(context.Context) ([]models.Share, error) {
	f.record("SharesCreatedByMe")
	if f.createdByMe == nil {
		return nil, errNotStubbed
	}
	return f.createdByMe()
}

func (f *fakeAPI) SharesWithMe(context.Context) ([]models.Share, error) {
	f.record("SharesWithMe")
	if f.withMe == nil {
		return nil, errNotStubbed
	}
	return f.withMe()
}

func (f *fakeAPI) SharesForVideo(_ context.Context, id string) ([]models.Share, error) {
	f.record("SharesForVideo")
	if f.forVideo == nil {
		return nil, errNotStubbed
	}
	return f.forVideo(id)
}

func (f *fakeAPI) GetShare(_ context.Context, id string) (*models.Share, error) {
	f.record("GetShare")
	if f.getShare == nil {
		return nil, errNotStubbed
	}
	return f.getShare(id)
}

func (f *fakeAPI) RevokeShare(_ context.Context, id string) error {
	f.record("RevokeShare")
	if f.revokeShare == nil {
		return errNotStubbed
	}
	return f.revokeShare(id)
}

func ids[T any](items []T, idOf func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, idOf(it))
	}
	return out
}

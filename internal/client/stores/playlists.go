package stores

import (
	"context"

	"github.com/dmitrijs2005/spillway/internal/client/client"
	"github.com/dmitrijs2005/spillway/internal/client/models"
)

func playlistID(p models.Playlist) string { return p.ID }

// PlaylistStore caches the caller's playlists, the current selection and
// the videos of every playlist fetched so far.
type PlaylistStore struct {
	base
	api client.Client

	playlists []models.Playlist
	current   *models.Playlist
	videos    map[string][]models.Video
}

func NewPlaylistStore(api client.Client, opts ...Option) *PlaylistStore {
	o := buildOptions(opts)
	s := &PlaylistStore{api: api, videos: make(map[string][]models.Video)}
	s.log = o.log
	return s
}

func (s *PlaylistStore) CreatePlaylist(ctx context.Context, req models.PlaylistCreateRequest) Result[*models.Playlist] {
	s.begin()
	p, err := s.api.CreatePlaylist(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[*models.Playlist](ctx, &s.base, err, "Failed to create playlist", "Authentication required to create playlists")
	}
	s.playlists = prepend(s.playlists, *p)
	return succeed(p)
}

// GetUserPlaylists replaces the cached list with the caller's playlists.
func (s *PlaylistStore) GetUserPlaylists(ctx context.Context) Result[[]models.Playlist] {
	s.begin()
	list, err := s.api.MyPlaylists(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[[]models.Playlist](ctx, &s.base, err, "Failed to fetch playlists", "Authentication required to access your playlists")
	}
	s.playlists = cloneOrEmpty(list)
	return succeed(cloneOrEmpty(list))
}

func (s *PlaylistStore) GetPlaylist(ctx context.Context, id string) Result[*models.Playlist] {
	s.begin()
	p, err := s.api.GetPlaylist(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[*models.Playlist](ctx, &s.base, err, "Failed to fetch playlist", "")
	}
	cur := *p
	s.current = &cur
	return succeed(p)
}

func (s *PlaylistStore) GetPlaylistVideos(ctx context.Context, id string) Result[[]models.Video] {
	s.begin()
	list, err := s.api.PlaylistVideos(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[[]models.Video](ctx, &s.base, err, "Failed to fetch playlist videos", "")
	}
	s.videos[id] = cloneOrEmpty(list)
	return succeed(cloneOrEmpty(list))
}

func (s *PlaylistStore) UpdatePlaylist(ctx context.Context, id string, req models.PlaylistCreateRequest) Result[*models.Playlist] {
	s.begin()
	p, err := s.api.UpdatePlaylist(ctx, id, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[*models.Playlist](ctx, &s.base, err, "Failed to update playlist", "")
	}
	replaceByID(s.playlists, id, playlistID, *p)
	if s.current != nil && s.current.ID == id {
		cur := *p
		s.current = &cur
	}
	return succeed(p)
}

// RemovePlaylist deletes a playlist and forgets everything cached about it.
func (s *PlaylistStore) RemovePlaylist(ctx context.Context, id string) Result[string] {
	s.begin()
	err := s.api.DeletePlaylist(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[string](ctx, &s.base, err, "Failed to delete playlist", "")
	}
	s.playlists = removeByID(s.playlists, id, playlistID)
	delete(s.videos, id)
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	return succeed(id)
}

// AddVideoToPlaylist adds a video and then refreshes that playlist's videos.
// A failed refresh does not turn the add into a failure and leaves no
// error behind.
func (s *PlaylistStore) AddVideoToPlaylist(ctx context.Context, playlistID, videoID string, details *models.PlaylistVideoDetails) Result[string] {
	s.begin()
	err := s.api.AddVideoToPlaylist(ctx, playlistID, videoID, details)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		defer s.endLocked()
		return failLocked[string](ctx, &s.base, err, "Failed to add video to playlist", "You do not have permission to modify this playlist")
	}

	s.GetPlaylistVideos(ctx, playlistID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
	s.endLocked()
	return succeed(videoID)
}

func (s *PlaylistStore) RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) Result[string] {
	s.begin()
	err := s.api.RemoveVideoFromPlaylist(ctx, playlistID, videoID)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[string](ctx, &s.base, err, "Failed to remove video from playlist", "")
	}
	if list, ok := s.videos[playlistID]; ok {
		s.videos[playlistID] = removeByID(list, videoID, func(v models.Video) string { return v.ID })
	}
	return succeed(videoID)
}

func (s *PlaylistStore) Playlists() []models.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrEmpty(s.playlists)
}

func (s *PlaylistStore) PlaylistByID(id string) (models.Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.playlists {
		if p.ID == id {
			return p, true
		}
	}
	return models.Playlist{}, false
}

// VideosFor returns the cached videos of a playlist, empty if never fetched.
func (s *PlaylistStore) VideosFor(id string) []models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrEmpty(s.videos[id])
}

func (s *PlaylistStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.playlists)
}

func (s *PlaylistStore) Current() (models.Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Playlist{}, false
	}
	return *s.current, true
}

func (s *PlaylistStore) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

func (s *PlaylistStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists = nil
	s.current = nil
	s.videos = make(map[string][]models.Video)
	s.lastErr = ""
}

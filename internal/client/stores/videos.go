package stores

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/spillway/internal/client/client"
	"github.com/dmitrijs2005/spillway/internal/client/models"
	"github.com/dmitrijs2005/spillway/internal/client/poller"
)

const allVideosPageSize = 50

func videoID(v models.Video) string { return v.ID }

// VideoStore caches two named collections: "all videos" (the browse list)
// and "my videos" (the caller's uploads). Updates and removals are applied
// to both and to the current selection.
type VideoStore struct {
	base
	api    client.Client
	poller *poller.Poller

	all            []models.Video
	mine           []models.Video
	current        *models.Video
	uploadProgress int
}

func NewVideoStore(api client.Client, opts ...Option) *VideoStore {
	o := buildOptions(opts)
	s := &VideoStore{api: api}
	s.log = o.log
	s.poller = poller.New(api.VideoStatus, append([]poller.Option{poller.WithLogger(o.log)}, o.pollOpts...)...)
	return s
}

// CreateVideo registers metadata for a new video and prepends it to both collections.
func (s *VideoStore) CreateVideo(ctx context.Context, req models.VideoUploadRequest) Result[*models.Video] {
	s.begin()
	v, err := s.api.CreateVideoMetadata(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[*models.Video](ctx, &s.base, err, "Failed to create video", "")
	}
	s.all = prepend(s.all, *v)
	s.mine = prepend(s.mine, *v)
	return succeed(v)
}

// UploadVideoFile streams file into an existing video record. When key is not
// empty it is sent as the per-video encryption key.
func (s *VideoStore) UploadVideoFile(ctx context.Context, videoID string, file client.UploadFile, key string) Result[string] {
	s.begin()
	s.mu.Lock()
	s.uploadProgress = 0
	s.mu.Unlock()

	err := s.api.UploadVideoFile(ctx, videoID, file, key, func(percent int) {
		s.mu.Lock()
		s.uploadProgress = percent
		s.mu.Unlock()
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[string](ctx, &s.base, err, "Upload failed", "")
	}
	s.uploadProgress = 100
	s.log.Info(ctx, "video file uploaded", "video_id", videoID, "encrypted", key != "")
	return succeed(videoID)
}

// UpdateVideo applies patch remotely and replaces the cached copies. An id
// that is not cached leaves the caches untouched.
func (s *VideoStore) UpdateVideo(ctx context.Context, id string, patch models.VideoUpdateRequest) Result[*models.Video] {
	s.begin()
	v, err := s.api.UpdateVideo(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[*models.Video](ctx, &s.base, err, "Failed to update video", "")
	}
	replaceByID(s.all, id, videoID, *v)
	replaceByID(s.mine, id, videoID, *v)
	if s.current != nil && s.current.ID == id {
		cur := *v
		s.current = &cur
	}
	return succeed(v)
}

// GetVideo fetches a video and makes it the current selection.
func (s *VideoStore) GetVideo(ctx context.Context, id string) Result[*models.Video] {
	s.begin()
	v, err := s.api.GetVideo(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[*models.Video](ctx, &s.base, err, "Failed to fetch video", "Authentication required to access this video")
	}
	cur := *v
	s.current = &cur
	return succeed(v)
}

// GetVideoStatus fetches the conversion status without touching the caches.
func (s *VideoStore) GetVideoStatus(ctx context.Context, id string) Result[*models.ConversionProgress] {
	st, err := s.api.VideoStatus(ctx, id)
	if err != nil {
		s.log.Debug(ctx, "failed to get video status", "video_id", id, "error", err)
		return Result[*models.ConversionProgress]{Error: "Failed to get video status", Unauthorized: client.IsUnauthorized(err), Err: err}
	}
	return succeed(st)
}

// GetMyVideos replaces "my videos" and mirrors it into "all videos".
func (s *VideoStore) GetMyVideos(ctx context.Context) Result[[]models.Video] {
	s.begin()
	list, err := s.api.MyVideos(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[[]models.Video](ctx, &s.base, err, "Failed to fetch your videos", "Authentication required to view your videos")
	}
	s.mine = cloneOrEmpty(list)
	s.all = cloneOrEmpty(list)
	return succeed(cloneOrEmpty(list))
}

// GetAllVideos loads the first page of every visible video into "all videos".
func (s *VideoStore) GetAllVideos(ctx context.Context) Result[[]models.Video] {
	s.begin()
	page, err := s.api.SearchVideos(ctx, models.VideoSearchRequest{
		Page:          0,
		Size:          allVideosPageSize,
		SortDirection: defaultSortDirection,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[[]models.Video](ctx, &s.base, err, "Failed to fetch videos", "")
	}
	s.all = cloneOrEmpty(page.Content)
	return succeed(cloneOrEmpty(page.Content))
}

// RemoveVideo deletes a video and drops it from every collection.
func (s *VideoStore) RemoveVideo(ctx context.Context, id string) Result[string] {
	s.begin()
	err := s.api.DeleteVideo(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[string](ctx, &s.base, err, "Failed to delete video", "")
	}
	s.all = removeByID(s.all, id, videoID)
	s.mine = removeByID(s.mine, id, videoID)
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	return succeed(id)
}

// PollConversion blocks until the video's conversion finishes, fails, runs
// out of attempts or ctx is cancelled. A newer call cancels an older one.
// The final status is written into the cached copies of the video.
func (s *VideoStore) PollConversion(ctx context.Context, id string) Result[*models.ConversionProgress] {
	st, err := s.poller.Poll(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if st != nil {
		s.applyStatusLocked(id, *st)
	}
	if err != nil {
		msg := err.Error()
		switch {
		case errors.Is(err, poller.ErrConversionFailed):
			msg = "Video conversion failed"
		case errors.Is(err, poller.ErrMaxAttempts):
			msg = "Max polling attempts reached"
		}
		return failLocked[*models.ConversionProgress](ctx, &s.base, err, msg, "")
	}
	return succeed(st)
}

// StopPolling cancels the running conversion poll, if any.
func (s *VideoStore) StopPolling() {
	s.poller.Stop()
}

func (s *VideoStore) applyStatusLocked(id string, st models.ConversionProgress) {
	apply := func(v *models.Video) {
		v.ConversionStatus = st.Status
		p := st.Progress
		v.ConversionProgress = &p
		v.ConversionError = st.Error
	}
	for i := range s.all {
		if s.all[i].ID == id {
			apply(&s.all[i])
		}
	}
	for i := range s.mine {
		if s.mine[i].ID == id {
			apply(&s.mine[i])
		}
	}
	if s.current != nil && s.current.ID == id {
		apply(s.current)
	}
}

func (s *VideoStore) lookup(id string) (models.Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.ID == id {
		return *s.current, true
	}
	for _, list := range [][]models.Video{s.all, s.mine} {
		for _, v := range list {
			if v.ID == id {
				return v, true
			}
		}
	}
	return models.Video{}, false
}

// IsProcessing reports whether the cached video id is pending or converting.
func (s *VideoStore) IsProcessing(id string) bool {
	v, ok := s.lookup(id)
	return ok && v.IsProcessing()
}

func (s *VideoStore) IsReady(id string) bool {
	v, ok := s.lookup(id)
	return ok && v.IsReady()
}

func (s *VideoStore) IsFailed(id string) bool {
	v, ok := s.lookup(id)
	return ok && v.IsFailed()
}

// Videos returns the "all videos" collection.
func (s *VideoStore) Videos() []models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrEmpty(s.all)
}

// MyVideos returns the "my videos" collection.
func (s *VideoStore) MyVideos() []models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrEmpty(s.mine)
}

func (s *VideoStore) Current() (models.Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Video{}, false
	}
	return *s.current, true
}

// UploadProgress returns the percent of the last upload sent so far.
func (s *VideoStore) UploadProgress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadProgress
}

func (s *VideoStore) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Reset stops polling and empties every collection.
func (s *VideoStore) Reset() {
	s.poller.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = nil
	s.mine = nil
	s.current = nil
	s.uploadProgress = 0
	s.lastErr = ""
}

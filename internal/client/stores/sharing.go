package stores

import (
	"context"

	"github.com/dmitrijs2005/spillway/internal/client/client"
	"github.com/dmitrijs2005/spillway/internal/client/models"
)

func shareID(s models.Share) string { return s.ID }

// SharingStore caches shares the caller created, shares granted to the
// caller, and per-video share lists.
type SharingStore struct {
	base
	api client.Client

	created []models.Share
	withMe  []models.Share
	byVideo map[string][]models.Share
}

func NewSharingStore(api client.Client, opts ...Option) *SharingStore {
	o := buildOptions(opts)
	s := &SharingStore{api: api, byVideo: make(map[string][]models.Share)}
	s.log = o.log
	return s
}

// ShareVideo grants access to a video and then refreshes the created list.
func (s *SharingStore) ShareVideo(ctx context.Context, req models.ShareRequest) Result[*models.Share] {
	s.begin()
	share, err := s.api.ShareVideo(ctx, req)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		defer s.endLocked()
		return failLocked[*models.Share](ctx, &s.base, err, "Failed to share video", "")
	}

	s.MyCreatedShares(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLocked()
	return succeed(share)
}

func (s *SharingStore) MyCreatedShares(ctx context.Context) Result[[]models.Share] {
	s.begin()
	list, err := s.api.SharesCreatedByMe(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[[]models.Share](ctx, &s.base, err, "Failed to fetch created shares", "")
	}
	s.created = cloneOrEmpty(list)
	return succeed(cloneOrEmpty(list))
}

func (s *SharingStore) SharedWithMe(ctx context.Context) Result[[]models.Share] {
	s.begin()
	list, err := s.api.SharesWithMe(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[[]models.Share](ctx, &s.base, err, "Failed to fetch shared videos", "")
	}
	s.withMe = cloneOrEmpty(list)
	return succeed(cloneOrEmpty(list))
}

func (s *SharingStore) SharesForVideo(ctx context.Context, videoID string) Result[[]models.Share] {
	s.begin()
	list, err := s.api.SharesForVideo(ctx, videoID)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[[]models.Share](ctx, &s.base, err, "Failed to fetch video shares", "")
	}
	s.byVideo[videoID] = cloneOrEmpty(list)
	return succeed(cloneOrEmpty(list))
}

// GetShare fetches a single share. It is not cached.
func (s *SharingStore) GetShare(ctx context.Context, id string) Result[*models.Share] {
	s.begin()
	share, err := s.api.GetShare(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[*models.Share](ctx, &s.base, err, "Failed to fetch share", "")
	}
	return succeed(share)
}

// RevokeShare deletes a share and removes it from every cached list.
func (s *SharingStore) RevokeShare(ctx context.Context, id string) Result[string] {
	s.begin()
	err := s.api.RevokeShare(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[string](ctx, &s.base, err, "Failed to revoke share", "")
	}
	s.created = removeByID(s.created, id, shareID)
	s.withMe = removeByID(s.withMe, id, shareID)
	for vid, list := range s.byVideo {
		s.byVideo[vid] = removeByID(list, id, shareID)
	}
	return succeed(id)
}

func (s *SharingStore) Created() []models.Share {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrEmpty(s.created)
}

func (s *SharingStore) WithMe() []models.Share {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrEmpty(s.withMe)
}

// ForVideo returns the cached shares of a video, empty if never fetched.
func (s *SharingStore) ForVideo(videoID string) []models.Share {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrEmpty(s.byVideo[videoID])
}

func (s *SharingStore) HasSharedVideos() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.withMe) > 0
}

func (s *SharingStore) HasCreatedShares() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created) > 0
}

func (s *SharingStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = nil
	s.withMe = nil
	s.byVideo = make(map[string][]models.Share)
	s.lastErr = ""
}

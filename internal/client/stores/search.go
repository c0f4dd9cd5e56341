package stores

import (
	"context"

	"github.com/dmitrijs2005/spillway/internal/client/client"
	"github.com/dmitrijs2005/spillway/internal/client/models"
)

const (
	DefaultPageSize      = 20
	DefaultListLimit     = 10
	defaultSortDirection = "DESC"
	defaultPlaylistSort  = "createdAt"
)

// SearchStore caches the latest search page plus the discovery lists
// (genres, recent videos, popular playlists).
type SearchStore struct {
	base
	api client.Client

	results    []models.Video
	playlists  []models.Playlist
	genres     []string
	recent     []models.Video
	popular    []models.Playlist
	pagination Pagination
}

func NewSearchStore(api client.Client, opts ...Option) *SearchStore {
	o := buildOptions(opts)
	s := &SearchStore{api: api, pagination: Pagination{PageSize: DefaultPageSize}}
	s.log = o.log
	return s
}

// SearchVideos runs a video search and replaces the cached results page.
// Zero values default to page 0, size 20, direction DESC.
func (s *SearchStore) SearchVideos(ctx context.Context, req models.VideoSearchRequest) Result[*models.Page[models.Video]] {
	if req.Page < 0 {
		req.Page = 0
	}
	if req.Size <= 0 {
		req.Size = DefaultPageSize
	}
	if req.SortDirection == "" {
		req.SortDirection = defaultSortDirection
	}

	s.begin()
	page, err := s.api.SearchVideos(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[*models.Page[models.Video]](ctx, &s.base, err, "Failed to search videos", "")
	}
	s.results = cloneOrEmpty(page.Content)
	s.pagination = paginationOf(page)
	return succeed(page)
}

// SearchPlaylists runs a playlist search. SortBy defaults to createdAt.
func (s *SearchStore) SearchPlaylists(ctx context.Context, req models.PlaylistSearchRequest) Result[*models.Page[models.Playlist]] {
	if req.Page < 0 {
		req.Page = 0
	}
	if req.Size <= 0 {
		req.Size = DefaultPageSize
	}
	if req.SortBy == "" {
		req.SortBy = defaultPlaylistSort
	}
	if req.SortDirection == "" {
		req.SortDirection = defaultSortDirection
	}

	s.begin()
	page, err := s.api.SearchPlaylists(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[*models.Page[models.Playlist]](ctx, &s.base, err, "Failed to search playlists", "")
	}
	s.playlists = cloneOrEmpty(page.Content)
	s.pagination = paginationOf(page)
	return succeed(page)
}

func (s *SearchStore) Genres(ctx context.Context) Result[[]string] {
	list, err := s.api.Genres(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		return failLocked[[]string](ctx, &s.base, err, "Failed to fetch genres", "")
	}
	s.genres = cloneOrEmpty(list)
	return succeed(cloneOrEmpty(list))
}

// RecentVideos loads the newest videos. limit <= 0 means 10.
func (s *SearchStore) RecentVideos(ctx context.Context, limit int) Result[[]models.Video] {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	s.begin()
	list, err := s.api.RecentVideos(ctx, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[[]models.Video](ctx, &s.base, err, "Failed to fetch recent videos", "")
	}
	s.recent = cloneOrEmpty(list)
	return succeed(cloneOrEmpty(list))
}

// PopularPlaylists loads the most watched playlists. limit <= 0 means 10.
func (s *SearchStore) PopularPlaylists(ctx context.Context, limit int) Result[[]models.Playlist] {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	s.begin()
	list, err := s.api.PopularPlaylists(ctx, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[[]models.Playlist](ctx, &s.base, err, "Failed to fetch popular playlists", "")
	}
	s.popular = cloneOrEmpty(list)
	return succeed(cloneOrEmpty(list))
}

// QuickSearch runs the free-text search and replaces the cached results page.
func (s *SearchStore) QuickSearch(ctx context.Context, q string, page, size int) Result[*models.Page[models.Video]] {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	s.begin()
	p, err := s.api.QuickSearch(ctx, q, page, size)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if err != nil {
		return failLocked[*models.Page[models.Video]](ctx, &s.base, err, "Failed to perform quick search", "")
	}
	s.results = cloneOrEmpty(p.Content)
	s.pagination = paginationOf(p)
	return succeed(p)
}

func paginationOf[T any](p *models.Page[T]) Pagination {
	return Pagination{
		TotalResults: p.TotalElements,
		TotalPages:   p.TotalPages,
		CurrentPage:  p.CurrentPage,
		PageSize:     p.PageSize,
		HasNext:      p.HasNext,
		HasPrevious:  p.HasPrevious,
	}
}

// ClearSearch drops the cached results and pagination. The page size is kept.
func (s *SearchStore) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
	s.pagination = Pagination{PageSize: s.pagination.PageSize}
	s.lastErr = ""
}

func (s *SearchStore) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// Results returns the cached video search results.
func (s *SearchStore) Results() []models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrEmpty(s.results)
}

// PlaylistResults returns the cached playlist search results.
func (s *SearchStore) PlaylistResults() []models.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrEmpty(s.playlists)
}

func (s *SearchStore) CachedGenres() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrEmpty(s.genres)
}

func (s *SearchStore) Recent() []models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrEmpty(s.recent)
}

func (s *SearchStore) Popular() []models.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrEmpty(s.popular)
}

func (s *SearchStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
	s.playlists = nil
	s.genres = nil
	s.recent = nil
	s.popular = nil
	s.pagination = Pagination{PageSize: DefaultPageSize}
	s.lastErr = ""
}

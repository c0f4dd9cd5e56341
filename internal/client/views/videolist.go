// Package views composes stores into screen-level state for the CLI.
package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/spillway/internal/client/models"
	"github.com/dmitrijs2005/spillway/internal/client/stores"
	"github.com/dmitrijs2005/spillway/internal/logging"
)

// VideoSource loads the caller's own videos.
type VideoSource interface {
	GetMyVideos(ctx context.Context) stores.Result[[]models.Video]
}

// SearchSource is the subset of stores.SearchStore a VideoList drives.
type SearchSource interface {
	SearchVideos(ctx context.Context, req models.VideoSearchRequest) stores.Result[*models.Page[models.Video]]
	RecentVideos(ctx context.Context, limit int) stores.Result[[]models.Video]
	ClearSearch()
	Results() []models.Video
	Recent() []models.Video
	Pagination() stores.Pagination
}

// AuthState reports whether a session is active.
type AuthState interface {
	IsAuthenticated() bool
}

type Options struct {
	LoadMyVideosOnMount     bool
	LoadRecentVideosOnMount bool
	ClearSearchOnUnmount    bool
	PageSize                int
}

func DefaultOptions() Options {
	return Options{
		LoadMyVideosOnMount:     true,
		LoadRecentVideosOnMount: true,
		ClearSearchOnUnmount:    true,
		PageSize:                stores.DefaultPageSize,
	}
}

// State is a point-in-time snapshot of a VideoList.
type State struct {
	Query            string
	MyVideos         []models.Video
	SearchResults    []models.Video
	RecentVideos     []models.Video
	Pagination       stores.Pagination
	Error            string
	Loading          bool
	Authenticated    bool
	HasSearchResults bool
}

// VideoList is the shared logic of every screen that shows a list of videos:
// the caller's uploads, a search page, or recent uploads as a fallback.
type VideoList struct {
	videos VideoSource
	search SearchSource
	auth   AuthState
	opts   Options
	log    logging.Logger

	mu       sync.Mutex
	query    string
	myVideos []models.Video
	err      string
	inflight int
}

func NewVideoList(videos VideoSource, search SearchSource, auth AuthState, opts Options, log logging.Logger) *VideoList {
	if opts.PageSize <= 0 {
		opts.PageSize = stores.DefaultPageSize
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &VideoList{videos: videos, search: search, auth: auth, opts: opts, log: log}
}

// Mount loads the initial content. A non-empty query opens page 0 of that
// search. Otherwise the caller's videos are loaded when authenticated, and
// recent videos fill in when there are none or nobody is signed in.
func (l *VideoList) Mount(ctx context.Context, query string) {
	if query != "" {
		l.mu.Lock()
		l.query = query
		l.mu.Unlock()
		l.searchPage(ctx, query, 0)
		return
	}

	if l.opts.LoadMyVideosOnMount && l.auth.IsAuthenticated() {
		l.LoadMyVideos(ctx)
	}

	l.mu.Lock()
	empty := len(l.myVideos) == 0
	l.mu.Unlock()

	if l.opts.LoadRecentVideosOnMount && (empty || !l.auth.IsAuthenticated()) {
		l.LoadRecentVideos(ctx)
	}
}

// LoadMyVideos is a no-op without a session.
func (l *VideoList) LoadMyVideos(ctx context.Context) {
	if !l.auth.IsAuthenticated() {
		return
	}
	l.start()
	r := l.videos.GetMyVideos(ctx)
	l.finish(func() {
		if r.Success {
			l.myVideos = r.Value
			return
		}
		l.err = r.Error
	})
}

func (l *VideoList) LoadRecentVideos(ctx context.Context) {
	l.start()
	r := l.search.RecentVideos(ctx, stores.DefaultListLimit)
	l.finish(func() {
		if !r.Success {
			l.err = r.Error
		}
	})
}

// Search opens page 0 of query. An empty query clears the search.
func (l *VideoList) Search(ctx context.Context, query string) {
	l.mu.Lock()
	l.query = query
	l.mu.Unlock()

	if query == "" {
		l.search.ClearSearch()
		return
	}
	l.searchPage(ctx, query, 0)
}

// ChangePage re-runs the current search for page. Pages outside
// [0, totalPages) are ignored and reported as false.
func (l *VideoList) ChangePage(ctx context.Context, page int) bool {
	if page < 0 || page >= l.search.Pagination().TotalPages {
		return false
	}
	l.mu.Lock()
	q := l.query
	l.mu.Unlock()

	l.searchPage(ctx, q, page)
	return true
}

// OnAuthChanged reloads the caller's videos when a session appears and the
// list has nothing of its own to show.
func (l *VideoList) OnAuthChanged(ctx context.Context, authenticated bool) {
	l.mu.Lock()
	reload := authenticated && len(l.myVideos) == 0 && l.query == ""
	l.mu.Unlock()

	if reload {
		l.LoadMyVideos(ctx)
	}
}

func (l *VideoList) Unmount() {
	if l.opts.ClearSearchOnUnmount {
		l.search.ClearSearch()
	}
}

func (l *VideoList) State() State {
	results := l.search.Results()
	st := State{
		SearchResults:    results,
		RecentVideos:     l.search.Recent(),
		Pagination:       l.search.Pagination(),
		Authenticated:    l.auth.IsAuthenticated(),
		HasSearchResults: len(results) > 0,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	st.Query = l.query
	st.MyVideos = append([]models.Video{}, l.myVideos...)
	st.Error = l.err
	st.Loading = l.inflight > 0
	return st
}

func (l *VideoList) searchPage(ctx context.Context, query string, page int) {
	l.start()
	r := l.search.SearchVideos(ctx, models.VideoSearchRequest{Query: query, Page: page, Size: l.opts.PageSize})
	l.finish(func() {
		if !r.Success {
			l.err = r.Error
		}
	})
	l.log.Debug(ctx, "video list search", "query", query, "page", page, "ok", r.Success)
}

func (l *VideoList) start() {
	l.mu.Lock()
	l.inflight++
	l.err = ""
	l.mu.Unlock()
}

func (l *VideoList) finish(apply func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--
	apply()
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/spillway/internal/client/models"
	"github.com/dmitrijs2005/spillway/internal/client/stores"
)

// SearchVideos opens the first page of query. An empty query clears the
// current search.
func (a *App) SearchVideos(ctx context.Context, query string) error {
	a.List.Search(ctx, query)
	if query == "" {
		fmt.Fprintln(a.out, dimStyle.Render("search cleared"))
		return nil
	}
	return a.renderSearch()
}

// Page switches the current search to the 1-based page n.
func (a *App) Page(ctx context.Context, arg string) error {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return fmt.Errorf("%q is not a page number", arg)
	}
	if a.List.State().Query == "" {
		return errors.New("no active search")
	}
	if !a.List.ChangePage(ctx, n-1) {
		return fmt.Errorf("page %d is out of range", n)
	}
	return a.renderSearch()
}

func (a *App) renderSearch() error {
	st := a.List.State()
	if st.Error != "" {
		return errors.New(st.Error)
	}
	renderVideos(a.out, fmt.Sprintf("Results for %q", st.Query), st.SearchResults)
	renderPagination(a.out, st.Pagination)
	return nil
}

// QuickSearch runs the lightweight title search.
func (a *App) QuickSearch(ctx context.Context, query string) error {
	r := a.Search.QuickSearch(ctx, query, 0, stores.DefaultPageSize)
	if err := check(r); err != nil {
		return err
	}
	renderVideos(a.out, fmt.Sprintf("Quick results for %q", query), r.Value.Content)
	renderPagination(a.out, a.Search.Pagination())
	return nil
}

func (a *App) RecentVideos(ctx context.Context) error {
	a.List.LoadRecentVideos(ctx)
	st := a.List.State()
	if st.Error != "" {
		return errors.New(st.Error)
	}
	renderVideos(a.out, "Recent uploads", st.RecentVideos)
	return nil
}

func (a *App) Genres(ctx context.Context) error {
	r := a.Search.Genres(ctx)
	if err := check(r); err != nil {
		return err
	}
	if len(r.Value) == 0 {
		fmt.Fprintln(a.out, headerStyle.Render("Genres: none"))
		return nil
	}
	fmt.Fprintln(a.out, headerStyle.Render("Genres"))
	for _, g := range r.Value {
		fmt.Fprintln(a.out, "  "+g)
	}
	return nil
}

// SearchPlaylists lists playlists whose name matches query.
func (a *App) SearchPlaylists(ctx context.Context, query string) error {
	r := a.Search.SearchPlaylists(ctx, models.PlaylistSearchRequest{Query: query})
	if err := check(r); err != nil {
		return err
	}
	renderPlaylists(a.out, fmt.Sprintf("Playlists matching %q", query), r.Value.Content)
	renderPagination(a.out, a.Search.Pagination())
	return nil
}

func (a *App) PopularPlaylists(ctx context.Context) error {
	r := a.Search.PopularPlaylists(ctx, stores.DefaultListLimit)
	if err := check(r); err != nil {
		return err
	}
	renderPlaylists(a.out, "Popular playlists", r.Value)
	return nil
}

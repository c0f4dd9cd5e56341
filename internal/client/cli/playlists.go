package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/spillway/internal/client/models"
)

func (a *App) ListPlaylists(ctx context.Context) error {
	r := a.Playlists.GetUserPlaylists(ctx)
	if err := check(r); err != nil {
		return err
	}
	renderPlaylists(a.out, "My playlists", r.Value)
	return nil
}

// ShowPlaylist prints a playlist followed by its videos.
func (a *App) ShowPlaylist(ctx context.Context, id string) error {
	r := a.Playlists.GetPlaylist(ctx, id)
	if err := check(r); err != nil {
		return err
	}
	p := r.Value
	fmt.Fprintln(a.out, titleStyle.Render(p.Name)+" "+idStyle.Render(p.ID))
	if p.Description != "" {
		fmt.Fprintln(a.out, p.Description)
	}

	videos := a.Playlists.GetPlaylistVideos(ctx, id)
	if err := check(videos); err != nil {
		return err
	}
	renderVideos(a.out, "Videos", videos.Value)
	return nil
}

func (a *App) NewPlaylist(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Playlist name", a.out)
	if err != nil {
		return err
	}
	if name == "" {
		return errors.New("a name is required")
	}
	desc, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	r := a.Playlists.CreatePlaylist(ctx, models.PlaylistCreateRequest{Name: name, Description: desc})
	if err := check(r); err != nil {
		return err
	}
	success(a.out, "Created playlist %s %s", r.Value.Name, idStyle.Render(r.Value.ID))
	return nil
}

func (a *App) DeletePlaylist(ctx context.Context, id string) error {
	r := a.Playlists.RemovePlaylist(ctx, id)
	if err := check(r); err != nil {
		return err
	}
	success(a.out, "Deleted playlist %s", id)
	return nil
}

// AddToPlaylist links videoID into playlistID. Season and episode numbers
// are asked for and may be left empty.
func (a *App) AddToPlaylist(ctx context.Context, playlistID, videoID string) error {
	season, err := GetOptionalInt(a.reader, "Season", a.out)
	if err != nil {
		return err
	}
	episode, err := GetOptionalInt(a.reader, "Episode", a.out)
	if err != nil {
		return err
	}

	var details *models.PlaylistVideoDetails
	if season != nil || episode != nil {
		details = &models.PlaylistVideoDetails{SeasonNumber: season, EpisodeNumber: episode}
	}

	r := a.Playlists.AddVideoToPlaylist(ctx, playlistID, videoID, details)
	if err := check(r); err != nil {
		return err
	}
	success(a.out, "Added %s to %s", videoID, playlistID)
	return nil
}

func (a *App) RemoveFromPlaylist(ctx context.Context, playlistID, videoID string) error {
	r := a.Playlists.RemoveVideoFromPlaylist(ctx, playlistID, videoID)
	if err := check(r); err != nil {
		return err
	}
	success(a.out, "Removed %s from %s", videoID, playlistID)
	return nil
}

package models

import "github.com/dmitrijs2005/spillway/internal/timex"

type Playlist struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Description       string              `json:"description,omitempty"`
	VideoCount        int                 `json:"videoCount"`
	CreatedByUsername string              `json:"createdByUsername,omitempty"`
	CreatedByID       string              `json:"createdById,omitempty"`
	CreatedAt         timex.LocalDateTime `json:"createdAt"`
	UpdatedAt         timex.LocalDateTime `json:"updatedAt"`
	TotalDuration     int                 `json:"totalDuration"`
}

// PlaylistCreateRequest is used for both create and update.
type PlaylistCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PlaylistVideoDetails positions a video inside a series playlist.
type PlaylistVideoDetails struct {
	SeasonNumber  *int `json:"seasonNumber,omitempty"`
	EpisodeNumber *int `json:"episodeNumber,omitempty"`
}

type PlaylistVideoAddResponse struct {
	PlaylistID string `json:"playlistId"`
	VideoID    string `json:"videoId"`
	Message    string `json:"message"`
}

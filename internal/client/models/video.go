package models

import (
	"encoding/json"

	"github.com/dmitrijs2005/spillway/internal/timex"
)

// VideoType classifies an uploaded video.
type VideoType string

const (
	VideoTypeMovie   VideoType = "MOVIE"
	VideoTypeEpisode VideoType = "EPISODE"
	VideoTypeClip    VideoType = "CLIP"
	VideoTypeOther   VideoType = "OTHER"
)

// ConversionStatus is the backend's transcoding state for a video.
type ConversionStatus string

const (
	ConversionPending    ConversionStatus = "PENDING"
	ConversionInProgress ConversionStatus = "IN_PROGRESS"
	ConversionCompleted  ConversionStatus = "COMPLETED"
	ConversionFailed     ConversionStatus = "FAILED"
	ConversionCancelled  ConversionStatus = "CANCELLED"
)

// UserRef is the compact user projection embedded in videos.
type UserRef struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
}

type Video struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	PlaylistURL        string              `json:"playlistUrl,omitempty"`
	Type               VideoType           `json:"type,omitempty"`
	ConversionStatus   ConversionStatus    `json:"conversionStatus,omitempty"`
	Status             ConversionStatus    `json:"status,omitempty"`
	ConversionProgress *int                `json:"conversionProgress,omitempty"`
	ConversionError    string              `json:"conversionError,omitempty"`
	Length             *int                `json:"length,omitempty"`
	Genre              string              `json:"genre,omitempty"`
	Description        string              `json:"description,omitempty"`
	SeasonNumber       *int                `json:"seasonNumber,omitempty"`
	EpisodeNumber      *int                `json:"episodeNumber,omitempty"`
	PlaylistID         string              `json:"playlistId,omitempty"`
	PlaylistName       string              `json:"playlistName,omitempty"`
	UploaderUsername   string              `json:"uploaderUsername,omitempty"`
	UploadedBy         *UserRef            `json:"uploadedBy,omitempty"`
	CreatedAt          timex.LocalDateTime `json:"createdAt"`
	UpdatedAt          timex.LocalDateTime `json:"updatedAt"`
}

// State returns the conversion status, falling back to the short "status"
// field some endpoints use instead of "conversionStatus".
func (v Video) State() ConversionStatus {
	if v.ConversionStatus != "" {
		return v.ConversionStatus
	}
	return v.Status
}

// Uploader returns the best available uploader name.
func (v Video) Uploader() string {
	if v.UploaderUsername != "" {
		return v.UploaderUsername
	}
	if v.UploadedBy != nil {
		return v.UploadedBy.Username
	}
	return ""
}

func (v Video) IsProcessing() bool {
	s := v.State()
	return s == ConversionPending || s == ConversionInProgress
}

func (v Video) IsReady() bool {
	return v.State() == ConversionCompleted
}

func (v Video) IsFailed() bool {
	return v.State() == ConversionFailed
}

// VideoUploadRequest creates the metadata record that a file is later uploaded into.
type VideoUploadRequest struct {
	Title         string    `json:"title"`
	Type          VideoType `json:"type,omitempty"`
	Length        *int      `json:"length,omitempty"`
	Genre         string    `json:"genre,omitempty"`
	Description   string    `json:"description,omitempty"`
	SeasonNumber  *int      `json:"seasonNumber,omitempty"`
	EpisodeNumber *int      `json:"episodeNumber,omitempty"`
	PlaylistID    string    `json:"playlistId,omitempty"`
}

type VideoUpdateRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Genre         string `json:"genre,omitempty"`
	SeasonNumber  *int   `json:"seasonNumber,omitempty"`
	EpisodeNumber *int   `json:"episodeNumber,omitempty"`
}

// ConversionProgress is the payload of GET /video/{id}/status.
type ConversionProgress struct {
	Status   ConversionStatus `json:"status"`
	Progress int              `json:"progress"`
	Error    string           `json:"error,omitempty"`
}

func (p *ConversionProgress) UnmarshalJSON(b []byte) error {
	type raw struct {
		Status           ConversionStatus `json:"status"`
		ConversionStatus ConversionStatus `json:"conversionStatus"`
		Progress         int              `json:"progress"`
		Error            string           `json:"error"`
	}
	var r raw
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	p.Status = r.Status
	if p.Status == "" {
		p.Status = r.ConversionStatus
	}
	p.Progress = r.Progress
	p.Error = r.Error
	return nil
}

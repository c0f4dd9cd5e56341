package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/spillway/internal/client/models"
)

// UploadFile is a video file streamed to the upload endpoint.
type UploadFile struct {
	Name   string
	Reader io.Reader
	Size   int64
}

// Client is the typed contract of the Spillway REST API.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegistrationRequest) (*models.RegistrationResponse, error)
	ConfirmEmail(ctx context.Context, token string) (*models.MessageResponse, error)
	ResendConfirmation(ctx context.Context, email string) (*models.MessageResponse, error)

	CreateVideoMetadata(ctx context.Context, req models.VideoUploadRequest) (*models.Video, error)
	UploadVideoFile(ctx context.Context, videoID string, file UploadFile, encryptionKey string, onProgress func(percent int)) error
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	UpdateVideo(ctx context.Context, id string, req models.VideoUpdateRequest) (*models.Video, error)
	DeleteVideo(ctx context.Context, id string) error
	MyVideos(ctx context.Context) ([]models.Video, error)
	VideoStatus(ctx context.Context, id string) (*models.ConversionProgress, error)

	SearchVideos(ctx context.Context, req models.VideoSearchRequest) (*models.Page[models.Video], error)
	SearchPlaylists(ctx context.Context, req models.PlaylistSearchRequest) (*models.Page[models.Playlist], error)
	Genres(ctx context.Context) ([]string, error)
	RecentVideos(ctx context.Context, limit int) ([]models.Video, error)
	PopularPlaylists(ctx context.Context, limit int) ([]models.Playlist, error)
	QuickSearch(ctx context.Context, q string, page, size int) (*models.Page[models.Video], error)

	CreatePlaylist(ctx context.Context, req models.PlaylistCreateRequest) (*models.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (*models.Playlist, error)
	MyPlaylists(ctx context.Context) ([]models.Playlist, error)
	UpdatePlaylist(ctx context.Context, id string, req models.PlaylistCreateRequest) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, id string) error
	PlaylistVideos(ctx context.Context, id string) ([]models.Video, error)
	AddVideoToPlaylist(ctx context.Context, playlistID, videoID string, details *models.PlaylistVideoDetails) error
	RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) error

	ShareVideo(ctx context.Context, req models.ShareRequest) (*models.Share, error)
	SharesCreatedByMe(ctx context.Context) ([]models.Share, error)
	SharesWithMe(ctx context.Context) ([]models.Share, error)
	SharesForVideo(ctx context.Context, videoID string) ([]models.Share, error)
	GetShare(ctx context.Context, shareID string) (*models.Share, error)
	RevokeShare(ctx context.Context, shareID string) error
}

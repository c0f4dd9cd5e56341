package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/spillway/internal/client/client"
	"github.com/dmitrijs2005/spillway/internal/client/models"
)

// UploadOptions carries the metadata of a one-shot upload.
type UploadOptions struct {
	Title       string
	Type        models.VideoType
	Genre       string
	Description string
	PlaylistID  string
	Wait        bool
}

// Home mounts the video list: the caller's uploads when logged in, recent
// uploads otherwise.
func (a *App) Home(ctx context.Context) {
	a.List.Mount(ctx, "")
	st := a.List.State()
	if st.Error != "" {
		warn(a.out, "%s", st.Error)
	}
	if len(st.MyVideos) > 0 {
		renderVideos(a.out, "My videos", st.MyVideos)
		return
	}
	if len(st.RecentVideos) > 0 {
		renderVideos(a.out, "Recent uploads", st.RecentVideos)
	}
}

// MyVideos lists the caller's uploads.
func (a *App) MyVideos(ctx context.Context) error {
	a.List.LoadMyVideos(ctx)
	st := a.List.State()
	if st.Error != "" {
		return errors.New(st.Error)
	}
	renderVideos(a.out, "My videos", st.MyVideos)
	return nil
}

// AllVideos lists the first page of every video visible to the caller.
func (a *App) AllVideos(ctx context.Context) error {
	r := a.Videos.GetAllVideos(ctx)
	if err := check(r); err != nil {
		return err
	}
	renderVideos(a.out, "All videos", r.Value)
	return nil
}

func (a *App) ShowVideo(ctx context.Context, id string) error {
	r := a.Videos.GetVideo(ctx, id)
	if err := check(r); err != nil {
		return err
	}
	renderVideo(a.out, *r.Value)

	has, err := a.Keys.HasKey(ctx, id)
	if err != nil {
		a.Log.Warn(ctx, "key lookup failed", "video_id", id, "error", err)
	} else if has {
		fmt.Fprintln(a.out, dimStyle.Render("  encryption key stored locally"))
	}
	return nil
}

func (a *App) VideoStatus(ctx context.Context, id string) error {
	r := a.Videos.GetVideoStatus(ctx, id)
	if err := check(r); err != nil {
		return err
	}
	line := fmt.Sprintf("%s %s %d%%", idStyle.Render(id), statusLabel(r.Value.Status), r.Value.Progress)
	if r.Value.Error != "" {
		line += " " + errorStyle.Render(r.Value.Error)
	}
	fmt.Fprintln(a.out, line)
	return nil
}

// UploadInteractive prompts for a file and its metadata, then uploads it and
// waits for conversion.
func (a *App) UploadInteractive(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Path to video file", a.out)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New("a file is required")
	}

	opts := UploadOptions{Wait: true}
	if opts.Title, err = getSimpleText(a.reader, "Title (empty for file name)", a.out); err != nil {
		return err
	}
	kind, err := getSimpleText(a.reader, "Type: MOVIE, EPISODE, CLIP or OTHER (optional)", a.out)
	if err != nil {
		return err
	}
	if opts.Type, err = parseVideoType(kind); err != nil {
		return err
	}
	if opts.Genre, err = getSimpleText(a.reader, "Genre (optional)", a.out); err != nil {
		return err
	}
	if opts.Description, err = GetMultiline(a.reader, "Description (optional)", a.out); err != nil {
		return err
	}

	req := a.uploadRequest(path, opts)
	if opts.Type == models.VideoTypeEpisode {
		if req.SeasonNumber, err = GetOptionalInt(a.reader, "Season", a.out); err != nil {
			return err
		}
		if req.EpisodeNumber, err = GetOptionalInt(a.reader, "Episode", a.out); err != nil {
			return err
		}
	}
	return a.upload(ctx, path, req, opts.Wait)
}

// Upload sends the file at path with the given metadata.
func (a *App) Upload(ctx context.Context, path string, opts UploadOptions) error {
	return a.upload(ctx, path, a.uploadRequest(path, opts), opts.Wait)
}

func (a *App) uploadRequest(path string, opts UploadOptions) models.VideoUploadRequest {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return models.VideoUploadRequest{
		Title:       title,
		Type:        opts.Type,
		Genre:       strings.TrimSpace(opts.Genre),
		Description: opts.Description,
		PlaylistID:  opts.PlaylistID,
	}
}

// upload creates the metadata record, streams the file with a fresh
// encryption key and optionally waits for conversion. The key is kept
// locally only when the upload succeeds.
func (a *App) upload(ctx context.Context, path string, req models.VideoUploadRequest, wait bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	created := a.Videos.CreateVideo(ctx, req)
	if err := check(created); err != nil {
		return err
	}
	id := created.Value.ID
	fmt.Fprintf(a.out, "Created %s %s\n", titleStyle.Render(created.Value.Title), idStyle.Render(id))

	key := a.Keys.GenerateKey()
	if err := a.Keys.StoreKey(ctx, id, key); err != nil {
		return fmt.Errorf("store encryption key: %w", err)
	}

	fmt.Fprintf(a.out, "Uploading %s (%d bytes)...\n", filepath.Base(path), info.Size())
	up := a.Videos.UploadVideoFile(ctx, id, client.UploadFile{Name: filepath.Base(path), Reader: f, Size: info.Size()}, key)
	if err := check(up); err != nil {
		if rmErr := a.Keys.RemoveKey(ctx, id); rmErr != nil {
			a.Log.Warn(ctx, "failed to drop unused key", "video_id", id, "error", rmErr)
		}
		return err
	}
	success(a.out, "Upload complete")

	if !wait {
		fmt.Fprintf(a.out, "Conversion continues on the server; check with 'status %s'\n", id)
		return nil
	}
	return a.WaitForConversion(ctx, id)
}

// WaitForConversion blocks until the video converts, fails or polling gives up.
func (a *App) WaitForConversion(ctx context.Context, id string) error {
	fmt.Fprintln(a.out, "Waiting for conversion...")
	r := a.Videos.PollConversion(ctx, id)
	if err := check(r); err != nil {
		return err
	}
	success(a.out, "Video %s is ready", id)
	return nil
}

// UpdateVideo prompts for new metadata. Empty answers keep the current value.
func (a *App) UpdateVideo(ctx context.Context, id string) error {
	cur := a.Videos.GetVideo(ctx, id)
	if err := check(cur); err != nil {
		return err
	}
	v := cur.Value

	req := models.VideoUpdateRequest{SeasonNumber: v.SeasonNumber, EpisodeNumber: v.EpisodeNumber}
	var err error
	if req.Title, err = GetWithDefault(a.reader, "Title", v.Title, a.out); err != nil {
		return err
	}
	if req.Genre, err = GetWithDefault(a.reader, "Genre", v.Genre, a.out); err != nil {
		return err
	}
	if req.Description, err = GetWithDefault(a.reader, "Description", v.Description, a.out); err != nil {
		return err
	}

	r := a.Videos.UpdateVideo(ctx, id, req)
	if err := check(r); err != nil {
		return err
	}
	success(a.out, "Updated %s", id)
	return nil
}

// DeleteVideo removes the video on the server and forgets its local key.
func (a *App) DeleteVideo(ctx context.Context, id string) error {
	r := a.Videos.RemoveVideo(ctx, id)
	if err := check(r); err != nil {
		return err
	}
	if err := a.Keys.RemoveKey(ctx, id); err != nil {
		a.Log.Warn(ctx, "failed to remove key", "video_id", id, "error", err)
	}
	success(a.out, "Deleted %s", id)
	return nil
}

func parseVideoType(s string) (models.VideoType, error) {
	switch t := models.VideoType(strings.ToUpper(strings.TrimSpace(s))); t {
	case "":
		return "", nil
	case models.VideoTypeMovie, models.VideoTypeEpisode, models.VideoTypeClip, models.VideoTypeOther:
		return t, nil
	default:
		return "", fmt.Errorf("unknown video type %q", s)
	}
}

// ProgressPrinter returns a poller progress callback that writes one line
// per status update.
func ProgressPrinter(w io.Writer) func(videoID string, st models.ConversionProgress) {
	return func(videoID string, st models.ConversionProgress) {
		fmt.Fprintf(w, "  %s %s %s%%\n", idStyle.Render(videoID), statusLabel(st.Status), strconv.Itoa(st.Progress))
	}
}

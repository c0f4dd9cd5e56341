package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/spillway/internal/client/models"
	"github.com/dmitrijs2005/spillway/internal/client/services"
	"github.com/dmitrijs2005/spillway/internal/client/stores"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf(format, args...)))
}

func statusLabel(s models.ConversionStatus) string {
	switch s {
	case models.ConversionCompleted:
		return successStyle.Render("ready")
	case models.ConversionFailed:
		return errorStyle.Render("failed")
	case models.ConversionPending, models.ConversionInProgress:
		return warningStyle.Render("processing")
	case "":
		return dimStyle.Render("-")
	default:
		return dimStyle.Render(strings.ToLower(string(s)))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func renderVideos(w io.Writer, title string, videos []models.Video) {
	if len(videos) == 0 {
		fmt.Fprintln(w, headerStyle.Render(title+": none"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", title, len(videos))))

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tTitle\tGenre\tStatus\tUploader\tCreated")
	for _, v := range videos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			idStyle.Render(v.ID), titleStyle.Render(v.Title), orDash(v.Genre),
			statusLabel(v.State()), orDash(v.Uploader()), formatDate(v.CreatedAt.Time))
	}
	_ = tw.Flush()
}

func renderVideo(w io.Writer, v models.Video) {
	fmt.Fprintln(w, titleStyle.Render(v.Title)+" "+idStyle.Render(v.ID))
	row := func(k, v string) { fmt.Fprintf(w, "  %-12s %s\n", k+":", v) }
	row("Type", orDash(string(v.Type)))
	row("Genre", orDash(v.Genre))
	row("Status", statusLabel(v.State()))
	if v.ConversionProgress != nil {
		row("Progress", strconv.Itoa(*v.ConversionProgress)+"%")
	}
	if v.ConversionError != "" {
		row("Error", errorStyle.Render(v.ConversionError))
	}
	if v.Length != nil {
		row("Length", (time.Duration(*v.Length) * time.Second).String())
	}
	if v.SeasonNumber != nil || v.EpisodeNumber != nil {
		row("Episode", fmt.Sprintf("S%02dE%02d", deref(v.SeasonNumber), deref(v.EpisodeNumber)))
	}
	row("Playlist", orDash(v.PlaylistName))
	row("Uploader", orDash(v.Uploader()))
	row("Created", formatDate(v.CreatedAt.Time))
	if v.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, v.Description)
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func renderPagination(w io.Writer, p stores.Pagination) {
	if p.TotalPages == 0 {
		return
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("page %d of %d, %d result(s)",
		p.CurrentPage+1, p.TotalPages, p.TotalResults)))
}

func renderPlaylists(w io.Writer, title string, playlists []models.Playlist) {
	if len(playlists) == 0 {
		fmt.Fprintln(w, headerStyle.Render(title+": none"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", title, len(playlists))))

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tVideos\tOwner\tCreated")
	for _, p := range playlists {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			idStyle.Render(p.ID), titleStyle.Render(p.Name), p.VideoCount,
			orDash(p.CreatedByUsername), formatDate(p.CreatedAt.Time))
	}
	_ = tw.Flush()
}

func renderShares(w io.Writer, title string, shares []models.Share) {
	if len(shares) == 0 {
		fmt.Fprintln(w, headerStyle.Render(title+": none"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", title, len(shares))))

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tVideo\tFrom\tTo\tPermission\tExpires")
	for _, s := range shares {
		video := s.VideoTitle
		if video == "" {
			video = s.VideoID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			idStyle.Render(s.ID), titleStyle.Render(video), orDash(s.SharedByUsername),
			orDash(s.SharedWithUsername), orDash(string(s.Permission)), formatDate(s.ExpiresAt.Time))
	}
	_ = tw.Flush()
}

func renderKeyStats(w io.Writer, st services.KeyStats) {
	fmt.Fprintln(w, headerStyle.Render("Encryption keys"))
	at := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return formatDate(t.Local())
	}
	fmt.Fprintf(w, "  %-8s %d\n", "Total:", st.TotalKeys)
	fmt.Fprintf(w, "  %-8s %s\n", "Oldest:", at(st.OldestKey))
	fmt.Fprintf(w, "  %-8s %s\n", "Newest:", at(st.NewestKey))
	fmt.Fprintf(w, "  %-8s %s\n", "Used:", at(st.LastUsed))
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/dmitrijs2005/spillway/internal/client/config"
	"github.com/dmitrijs2005/spillway/internal/client/services"
	"github.com/dmitrijs2005/spillway/internal/client/stores"
	"github.com/dmitrijs2005/spillway/internal/client/views"
	"github.com/dmitrijs2005/spillway/internal/logging"
)

// Deps is everything the commands operate on. Backup is nil when no bucket
// is configured. Close, when set, releases the underlying resources.
type Deps struct {
	Config    *config.Config
	Auth      services.AuthService
	Keys      services.KeyService
	Backup    *services.S3Backup
	Videos    *stores.VideoStore
	Playlists *stores.PlaylistStore
	Search    *stores.SearchStore
	Sharing   *stores.SharingStore
	List      *views.VideoList
	Log       logging.Logger
	Close     func() error
}

// Factory assembles an App once configuration is known.
type Factory func(ctx context.Context, cfg *config.Config) (*App, error)

type App struct {
	Deps
	reader *bufio.Reader
	out    io.Writer
}

// NewApp binds deps to an input and an output stream.
func NewApp(d Deps, in io.Reader, out io.Writer) *App {
	if d.Log == nil {
		d.Log = logging.NewNop()
	}
	return &App{Deps: d, reader: bufio.NewReader(in), out: out}
}

// Start restores a persisted session. A stale token is dropped silently.
func (a *App) Start(ctx context.Context) error {
	return a.Auth.Initialize(ctx)
}

// Close stops background polling and releases resources.
func (a *App) Close() error {
	if a.Videos != nil {
		a.Videos.StopPolling()
	}
	if a.Deps.Close != nil {
		return a.Deps.Close()
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.Auth.IsAuthenticated()
}

func (a *App) getStatus() string {
	if u := a.Auth.CurrentUsername(); u != "" {
		return u
	}
	return "guest"
}

// ErrNotLoggedIn is returned by commands that need a session.
var ErrNotLoggedIn = errors.New("not logged in")

// check turns a failed store Result into an error for the caller.
func check[T any](r stores.Result[T]) error {
	if r.Success {
		return nil
	}
	if r.Unauthorized && r.Error == "" {
		return ErrNotLoggedIn
	}
	return errors.New(r.Error)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/spillway/internal/buildinfo"
	"github.com/dmitrijs2005/spillway/internal/client/config"
	"github.com/dmitrijs2005/spillway/internal/client/services"
	"github.com/spf13/cobra"
)

// skipApp marks commands that run without configuration or an App.
const skipApp = "skip-app"

type root struct {
	factory Factory
	out     io.Writer
	app     *App
}

// Execute runs the command tree for args and releases the App afterwards.
func Execute(ctx context.Context, factory Factory, args []string, out, errOut io.Writer) error {
	r := &root{factory: factory, out: out}
	cmd := r.command()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if r.app != nil {
		err = errors.Join(err, r.app.Close())
	}
	return err
}

func (r *root) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spillway",
		Short: "Upload, search and share videos on a Spillway server",
		Long: `spillway is the command-line client of the Spillway video platform.

Run it without arguments to open an interactive shell, or use one of the
subcommands for scripted use.

Quick Start:
  spillway login alice                 # log in
  spillway upload movie.mp4 --title X  # upload and wait for conversion
  spillway search "cats"               # search videos
  spillway keys export --sealed -o k   # back up encryption keys`,
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipApp] != "" {
				return nil
			}
			return r.init(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			r.app.Shell(cmd.Context())
			return nil
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		r.shellCommand(),
		r.loginCommand(),
		r.logoutCommand(),
		r.whoamiCommand(),
		r.uploadCommand(),
		r.searchCommand(),
		r.keysCommand(),
		r.versionCommand(),
	)
	return cmd
}

func (r *root) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app, err := r.factory(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	r.app = app
	return app.Start(cmd.Context())
}

func (r *root) requireLogin() error {
	if !r.app.isLoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

func (r *root) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open the interactive shell (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r.app.Shell(cmd.Context())
			return nil
		},
	}
}

func (r *root) loginCommand() *cobra.Command {
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and remember the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := argOr(args, 0)
			if !passwordStdin {
				return r.app.Login(cmd.Context(), username)
			}
			if username == "" {
				return errors.New("--password-stdin requires a username argument")
			}
			line, err := r.app.reader.ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			return r.app.login(cmd.Context(), username, strings.TrimRight(line, "\r\n"))
		},
	}
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from standard input")
	return cmd
}

func (r *root) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.Logout(cmd.Context())
		},
	}
}

func (r *root) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.Whoami(cmd.Context())
		},
	}
}

func (r *root) uploadCommand() *cobra.Command {
	var (
		opts   UploadOptions
		kind   string
		noWait bool
	)
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a video and wait for conversion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.requireLogin(); err != nil {
				return err
			}
			t, err := parseVideoType(kind)
			if err != nil {
				return err
			}
			opts.Type = t
			opts.Wait = !noWait
			return r.app.Upload(cmd.Context(), args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.Title, "title", "", "video title (default: file name)")
	f.StringVar(&kind, "type", "", "MOVIE, EPISODE, CLIP or OTHER")
	f.StringVar(&opts.Genre, "genre", "", "genre")
	f.StringVar(&opts.Description, "description", "", "description")
	f.StringVar(&opts.PlaylistID, "playlist", "", "playlist to add the video to")
	f.BoolVar(&noWait, "no-wait", false, "return once the upload finishes")
	return cmd
}

func (r *root) searchCommand() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if page <= 1 {
				return r.app.SearchVideos(ctx, strings.Join(args, " "))
			}
			// Page 1 is needed first to learn the page count.
			r.app.List.Search(ctx, strings.Join(args, " "))
			return r.app.Page(ctx, strconv.Itoa(page))
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "result page, starting at 1")
	return cmd
}

func (r *root) keysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage local video encryption keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.KeyStats(cmd.Context())
		},
	}

	var (
		out    string
		format string
		sealed bool
	)
	export := &cobra.Command{
		Use:   "export",
		Short: "Export keys as JSON or YAML, optionally sealed with a passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := services.ExportFormat(strings.ToLower(format))
			if f != services.FormatJSON && f != services.FormatYAML {
				return fmt.Errorf("unsupported format %q", format)
			}
			return r.app.ExportKeys(cmd.Context(), out, f, sealed)
		},
	}
	export.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	export.Flags().StringVar(&format, "format", string(services.FormatJSON), "json or yaml")
	export.Flags().BoolVar(&sealed, "sealed", false, "encrypt the export with a passphrase")

	var replace bool
	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Import keys from an export ('-' for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.ImportKeys(cmd.Context(), args[0], !replace)
		},
	}
	imp.Flags().BoolVar(&replace, "replace", false, "wipe local keys before importing")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show key statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.KeyStats(cmd.Context())
		},
	}

	var object string
	backup := &cobra.Command{
		Use:   "backup",
		Short: "Upload a sealed export to the configured S3 bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.BackupKeys(cmd.Context(), object)
		},
	}
	backup.Flags().StringVar(&object, "object", services.DefaultBackupObject, "object key")

	var restoreReplace bool
	restore := &cobra.Command{
		Use:   "restore",
		Short: "Download and import a sealed export from the configured S3 bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.RestoreKeys(cmd.Context(), object, !restoreReplace)
		},
	}
	restore.Flags().StringVar(&object, "object", services.DefaultBackupObject, "object key")
	restore.Flags().BoolVar(&restoreReplace, "replace", false, "wipe local keys before importing")

	cmd.AddCommand(export, imp, stats, backup, restore)
	return cmd
}

func (r *root) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipApp: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}


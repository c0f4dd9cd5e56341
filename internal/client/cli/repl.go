package cli

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/spillway/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// replCommand is one shell command. minArgs is enforced before run is
// called; auth commands are refused without a session.
type replCommand struct {
	name    string
	usage   string
	help    string
	minArgs int
	auth    bool
	run     func(ctx context.Context, args []string) error
}

// execIface defines the minimal surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	commands() []replCommand
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from in, parses the first token as the command and the
// rest as arguments, and dispatches to the matching replCommand. Commands
// that prompt read from the same reader. The loop exits on EOF or when the
// user types "exit" or "quit".
//
// Command errors are printed and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	cmds := make(map[string]replCommand)
	for _, c := range a.commands() {
		cmds[c.name] = c
	}

	for {
		printlnFn(fmt.Sprintf("spillway (%s) > ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "help":
			printlnFn(helpText(cmds, a.isLoggedIn()))
			continue
		}

		c, ok := cmds[name]
		switch {
		case !ok:
			printlnFn("Unknown command:", name)
		case c.auth && !a.isLoggedIn():
			printlnFn(warningStyle.Render("Please login first"))
		case len(args) < c.minArgs:
			printlnFn("Usage:", c.name, c.usage)
		default:
			if err := c.run(ctx, args); err != nil {
				printlnFn(errorStyle.Render("Error: " + err.Error()))
			}
		}
	}
}

func helpText(cmds map[string]replCommand, loggedIn bool) string {
	names := make([]string, 0, len(cmds))
	for n, c := range cmds {
		if c.auth && !loggedIn {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, n := range names {
		c := cmds[n]
		fmt.Fprintf(&b, "  %-28s %s\n", strings.TrimSpace(c.name+" "+c.usage), c.help)
	}
	fmt.Fprintf(&b, "  %-28s %s", "exit | quit", "leave the shell")
	return b.String()
}

func argOr(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (a *App) commands() []replCommand {
	return []replCommand{
		{name: "register", help: "create an account", run: func(ctx context.Context, _ []string) error { return a.Register(ctx) }},
		{name: "login", usage: "[username]", help: "log in", run: func(ctx context.Context, args []string) error { return a.Login(ctx, argOr(args, 0)) }},
		{name: "logout", help: "log out", auth: true, run: func(ctx context.Context, _ []string) error { return a.Logout(ctx) }},
		{name: "whoami", help: "show the current user", run: func(ctx context.Context, _ []string) error { return a.Whoami(ctx) }},
		{name: "confirm", usage: "[token]", help: "confirm your e-mail address", run: func(ctx context.Context, args []string) error { return a.Confirm(ctx, argOr(args, 0)) }},
		{name: "resend", usage: "[email]", help: "resend the confirmation e-mail", run: func(ctx context.Context, args []string) error { return a.Resend(ctx, argOr(args, 0)) }},

		{name: "videos", help: "list my videos", auth: true, run: func(ctx context.Context, _ []string) error { return a.MyVideos(ctx) }},
		{name: "all", help: "list all videos", auth: true, run: func(ctx context.Context, _ []string) error { return a.AllVideos(ctx) }},
		{name: "video", usage: "<id>", help: "show a video", minArgs: 1, run: func(ctx context.Context, args []string) error { return a.ShowVideo(ctx, args[0]) }},
		{name: "status", usage: "<id>", help: "show conversion status", minArgs: 1, run: func(ctx context.Context, args []string) error { return a.VideoStatus(ctx, args[0]) }},
		{name: "wait", usage: "<id>", help: "wait for conversion to finish", minArgs: 1, auth: true, run: func(ctx context.Context, args []string) error { return a.WaitForConversion(ctx, args[0]) }},
		{name: "upload", help: "upload a video file", auth: true, run: func(ctx context.Context, _ []string) error { return a.UploadInteractive(ctx) }},
		{name: "update", usage: "<id>", help: "edit video metadata", minArgs: 1, auth: true, run: func(ctx context.Context, args []string) error { return a.UpdateVideo(ctx, args[0]) }},
		{name: "delete", usage: "<id>", help: "delete a video", minArgs: 1, auth: true, run: func(ctx context.Context, args []string) error { return a.DeleteVideo(ctx, args[0]) }},

		{name: "search", usage: "[query]", help: "search videos (no query clears)", run: func(ctx context.Context, args []string) error {
			return a.SearchVideos(ctx, strings.Join(args, " "))
		}},
		{name: "quick", usage: "<query>", help: "quick title search", minArgs: 1, run: func(ctx context.Context, args []string) error {
			return a.QuickSearch(ctx, strings.Join(args, " "))
		}},
		{name: "page", usage: "<n>", help: "show page n of the current search", minArgs: 1, run: func(ctx context.Context, args []string) error { return a.Page(ctx, args[0]) }},
		{name: "recent", help: "list recent uploads", run: func(ctx context.Context, _ []string) error { return a.RecentVideos(ctx) }},
		{name: "genres", help: "list genres", run: func(ctx context.Context, _ []string) error { return a.Genres(ctx) }},

		{name: "playlists", help: "list my playlists", auth: true, run: func(ctx context.Context, _ []string) error { return a.ListPlaylists(ctx) }},
		{name: "playlist", usage: "<id>", help: "show a playlist", minArgs: 1, run: func(ctx context.Context, args []string) error { return a.ShowPlaylist(ctx, args[0]) }},
		{name: "findplaylists", usage: "<query>", help: "search playlists", minArgs: 1, run: func(ctx context.Context, args []string) error {
			return a.SearchPlaylists(ctx, strings.Join(args, " "))
		}},
		{name: "popular", help: "list popular playlists", run: func(ctx context.Context, _ []string) error { return a.PopularPlaylists(ctx) }},
		{name: "newplaylist", help: "create a playlist", auth: true, run: func(ctx context.Context, _ []string) error { return a.NewPlaylist(ctx) }},
		{name: "rmplaylist", usage: "<id>", help: "delete a playlist", minArgs: 1, auth: true, run: func(ctx context.Context, args []string) error { return a.DeletePlaylist(ctx, args[0]) }},
		{name: "addtoplaylist", usage: "<playlist> <video>", help: "add a video to a playlist", minArgs: 2, auth: true, run: func(ctx context.Context, args []string) error {
			return a.AddToPlaylist(ctx, args[0], args[1])
		}},
		{name: "rmfromplaylist", usage: "<playlist> <video>", help: "remove a video from a playlist", minArgs: 2, auth: true, run: func(ctx context.Context, args []string) error {
			return a.RemoveFromPlaylist(ctx, args[0], args[1])
		}},

		{name: "shares", usage: "[video]", help: "list shares I created, or of one video", auth: true, run: func(ctx context.Context, args []string) error { return a.Shares(ctx, argOr(args, 0)) }},
		{name: "shared", help: "list videos shared with me", auth: true, run: func(ctx context.Context, _ []string) error { return a.SharedWithMe(ctx) }},
		{name: "share", usage: "[video]", help: "share a video", auth: true, run: func(ctx context.Context, args []string) error { return a.ShareVideo(ctx, argOr(args, 0)) }},
		{name: "revoke", usage: "<share>", help: "revoke a share", minArgs: 1, auth: true, run: func(ctx context.Context, args []string) error { return a.RevokeShare(ctx, args[0]) }},

		{name: "keys", usage: "[export|import <file>]", help: "key statistics, export or import", run: func(ctx context.Context, args []string) error {
			switch argOr(args, 0) {
			case "":
				return a.KeyStats(ctx)
			case "export":
				return a.ExportKeys(ctx, argOr(args, 1), services.FormatJSON, false)
			case "import":
				if len(args) < 2 {
					return fmt.Errorf("usage: keys import <file>")
				}
				return a.ImportKeys(ctx, args[1], true)
			default:
				return fmt.Errorf("unknown keys action %q", args[0])
			}
		}},
	}
}

// Shell opens the interactive prompt and blocks until the user leaves.
func (a *App) Shell(ctx context.Context) {
	printlnFn(headerStyle.Render("Welcome to spillway (type 'help' for commands)"))
	a.Home(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
	a.List.Unmount()
}

// Package cli provides the spillway command-line client.
//
// NewRootCommand builds a cobra command tree. Running it without a
// subcommand opens an interactive shell (see runREPL); the one-shot
// subcommands cover the common scripted flows: login, upload, search and
// key management.
//
// Every command runs against an App assembled by a Factory after the
// configuration has been loaded, so the same wiring serves both modes.
package cli

package config

import (
	"os"

	"github.com/spf13/pflag"
)

// Flag names shared with the CLI.
const (
	FlagConfig   = "config"
	FlagAPIURL   = "api-url"
	FlagDB       = "db"
	FlagLogLevel = "log-level"
	FlagVerbose  = "verbose"
)

// RegisterFlags defines the configuration flags on fs. Defaults are left
// empty because Load only applies flags the user set.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "path to JSON config file")
	fs.StringP(FlagAPIURL, "a", "", "base URL of the spillway API (default "+DefaultAPIBaseURL+")")
	fs.String(FlagDB, "", "path to the local SQLite database")
	fs.String(FlagLogLevel, "", "log level: debug, info, warn, error")
	fs.BoolP(FlagVerbose, "v", false, "shorthand for --log-level=debug")
}

// configPath resolves the JSON file location: the --config flag first,
// then SPILLWAY_CONFIG.
func configPath(fs *pflag.FlagSet) string {
	if fs != nil {
		if f := fs.Lookup(FlagConfig); f != nil && f.Value.String() != "" {
			return f.Value.String()
		}
	}
	return os.Getenv(envPrefix + "CONFIG")
}

// parseFlags overlays cfg with flags explicitly set on fs.
func parseFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err != nil || !fs.Changed(name) {
			return
		}
		*dst, err = fs.GetString(name)
	}
	str(FlagAPIURL, &cfg.APIBaseURL)
	str(FlagDB, &cfg.DatabasePath)
	str(FlagLogLevel, &cfg.LogLevel)
	if err != nil {
		return err
	}

	if fs.Changed(FlagVerbose) {
		verbose, err := fs.GetBool(FlagVerbose)
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
	}
	return nil
}

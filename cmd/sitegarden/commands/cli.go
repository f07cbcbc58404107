// Package commands implements the sitegarden command line.
package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegarden/internal/config"
)

// LogLevelEnv overrides the log level when --verbose is not given.
const LogLevelEnv = "SITEGARDEN_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"${config_path}" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the site"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	Validate ValidateCmd `cmd:"" help:"Load the configuration and construct every plugin"`
	Plugins  PluginsCmd  `cmd:"" help:"List registered plugins and their default options"`
	Serve    ServeCmd    `cmd:"" help:"Build once, then serve the output directory"`
}

// Vars are the kong interpolation variables the CLI struct relies on.
func Vars() kong.Vars {
	return kong.Vars{"config_path": config.DefaultPath}
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(c.Verbose)}))
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return nil
}

// logLevel resolves the level from --verbose, then SITEGARDEN_LOG_LEVEL.
func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if v := strings.TrimSpace(os.Getenv(LogLevelEnv)); v != "" {
		if err := level.UnmarshalText([]byte(v)); err == nil {
			return level
		}
	}
	return slog.LevelInfo
}

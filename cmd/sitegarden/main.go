package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegarden/cmd/sitegarden/commands"
	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegarden/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Logger: slog.Default()}
	parser := kong.Parse(cli,
		kong.Name("sitegarden"),
		kong.Description("Build a static digital garden from a directory of Markdown notes."),
		kong.UsageOnError(),
		kong.Bind(global),
		commands.Vars(),
		kong.Vars{"version": version.String()},
	)

	if err := parser.Run(global, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}

package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/sitegarden/internal/config"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
	"git.home.luguber.info/inful/sitegarden/internal/plugin/builtin"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(_ *Global, root *CLI) error {
	return runValidate(os.Stdout, root.Config, builtin.Registry())
}

func runValidate(w io.Writer, configPath string, registry *plugin.Registry) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	pl, err := registry.Instantiate(cfg.Plugins)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%s is valid: %d transformers, %d filters, %d emitters\n",
		configPath, len(pl.Transformers), len(pl.Filters), len(pl.Emitters))
	return nil
}

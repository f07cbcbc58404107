package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
	"git.home.luguber.info/inful/sitegarden/internal/plugin/builtin"
)

// PluginsCmd implements the 'plugins' command.
type PluginsCmd struct {
	Stage    string `help:"Only list plugins of this stage (transformer, filter or emitter)"`
	Markdown bool   `help:"Render the table as Markdown"`
}

func (p *PluginsCmd) Run(_ *Global, _ *CLI) error {
	return listPlugins(os.Stdout, builtin.Registry(), plugin.Stage(p.Stage), p.Markdown)
}

func listPlugins(w io.Writer, registry *plugin.Registry, stage plugin.Stage, markdown bool) error {
	regs := registry.List()
	if stage != "" {
		if !stage.IsValid() {
			return ferrors.ValidationError("unknown plugin stage").
				WithContext("stage", string(stage)).
				Build()
		}
		regs = registry.ListByStage(stage)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Stage", "Name", "Description", "Defaults"})
	for _, reg := range regs {
		defaults, err := renderDefaults(reg)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{reg.Stage, reg.Name, reg.Description, defaults})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d of %d plugins", len(regs), registry.Count()), "", ""})
	if markdown {
		t.RenderMarkdown()
		return nil
	}
	t.Render()
	return nil
}

// renderDefaults shows the default options as YAML, one key per line.
func renderDefaults(reg plugin.Registration) (string, error) {
	if reg.Defaults == nil {
		return "-", nil
	}
	data, err := yaml.Marshal(reg.Defaults())
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(data))
	if s == "{}" || s == "" {
		return "-", nil
	}
	return s, nil
}

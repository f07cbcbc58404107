package transforms

import (
	"git.home.luguber.info/inful/sitegarden/internal/markdown"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// HardLineBreaks renders every newline inside a paragraph as a line break.
type HardLineBreaks struct{}

// NewHardLineBreaks builds the transformer. It accepts no options.
func NewHardLineBreaks(raw plugin.Options) (plugin.Plugin, error) {
	var none struct{}
	if err := raw.Decode("HardLineBreaks", &none); err != nil {
		return nil, err
	}
	return HardLineBreaks{}, nil
}

// HardLineBreaksRegistration registers HardLineBreaks.
func HardLineBreaksRegistration() plugin.Registration {
	return plugin.Registration{
		Name:        "HardLineBreaks",
		Stage:       plugin.StageTransformer,
		Description: "Treats soft line breaks as hard breaks",
		New:         NewHardLineBreaks,
	}
}

func (HardLineBreaks) Name() string { return "HardLineBreaks" }

func (HardLineBreaks) Transform(_ *plugin.Context, p *page.Page) error {
	p.ConfigureMarkdown(func(o *markdown.Options) { o.HardWraps = true })
	return nil
}

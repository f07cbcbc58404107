package transforms

import (
	"slices"
	"strings"

	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// SyntaxTheme names the light and dark highlight themes.
type SyntaxTheme struct {
	Light string `yaml:"light" json:"light"`
	Dark  string `yaml:"dark" json:"dark"`
}

// SyntaxHighlightingOptions configures SyntaxHighlighting.
type SyntaxHighlightingOptions struct {
	Theme          SyntaxTheme `yaml:"theme"`
	KeepBackground bool        `yaml:"keepBackground"`
}

// SyntaxHighlighting records the languages of fenced code blocks and the
// highlight theme the client stylesheet applies to them.
type SyntaxHighlighting struct {
	opts SyntaxHighlightingOptions
}

// SyntaxSettings is stored under page.KeySyntaxTheme.
type SyntaxSettings struct {
	Theme          SyntaxTheme `json:"theme"`
	KeepBackground bool        `json:"keepBackground"`
}

func defaultSyntaxHighlightingOptions() SyntaxHighlightingOptions {
	return SyntaxHighlightingOptions{Theme: SyntaxTheme{Light: "github-light", Dark: "github-dark"}}
}

// NewSyntaxHighlighting builds the transformer from raw options.
func NewSyntaxHighlighting(raw plugin.Options) (plugin.Plugin, error) {
	opts := defaultSyntaxHighlightingOptions()
	// theme is replaced as a whole record, never merged with the defaults.
	if _, ok := raw["theme"]; ok {
		opts.Theme = SyntaxTheme{}
	}
	if err := raw.Decode("SyntaxHighlighting", &opts); err != nil {
		return nil, err
	}
	if opts.Theme.Light == "" || opts.Theme.Dark == "" {
		return nil, plugin.InvalidOption("SyntaxHighlighting", "theme", "both light and dark themes are required")
	}
	return &SyntaxHighlighting{opts: opts}, nil
}

// SyntaxHighlightingRegistration registers SyntaxHighlighting.
func SyntaxHighlightingRegistration() plugin.Registration {
	return plugin.Registration{
		Name:        "SyntaxHighlighting",
		Stage:       plugin.StageTransformer,
		Description: "Records code block languages and the highlight theme",
		Defaults:    func() any { return defaultSyntaxHighlightingOptions() },
		New:         NewSyntaxHighlighting,
	}
}

func (s *SyntaxHighlighting) Name() string { return "SyntaxHighlighting" }

func (s *SyntaxHighlighting) Transform(_ *plugin.Context, p *page.Page) error {
	src := p.Body()
	blocks := 0
	var langs []string
	_ = gmast.Walk(p.Tree(), func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if fc, ok := n.(*gmast.FencedCodeBlock); ok {
			blocks++
			if lang := strings.ToLower(string(fc.Language(src))); lang != "" && !slices.Contains(langs, lang) {
				langs = append(langs, lang)
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	if blocks == 0 {
		return nil
	}
	slices.Sort(langs)
	if len(langs) > 0 {
		p.Metadata.Set(page.KeyCodeLanguages, langs)
	}
	p.Metadata.Set(page.KeySyntaxTheme, SyntaxSettings{Theme: s.opts.Theme, KeepBackground: s.opts.KeepBackground})
	return nil
}

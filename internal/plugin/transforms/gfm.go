package transforms

import (
	"git.home.luguber.info/inful/sitegarden/internal/markdown"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// GitHubFlavoredMarkdownOptions configures GitHubFlavoredMarkdown.
type GitHubFlavoredMarkdownOptions struct {
	EnableSmartyPants bool `yaml:"enableSmartyPants"`
	LinkHeadings      bool `yaml:"linkHeadings"`
}

// GitHubFlavoredMarkdown enables tables, strikethrough, task lists and
// autolinks, plus optional smart punctuation and heading anchors.
type GitHubFlavoredMarkdown struct {
	opts GitHubFlavoredMarkdownOptions
}

func defaultGFMOptions() GitHubFlavoredMarkdownOptions {
	return GitHubFlavoredMarkdownOptions{EnableSmartyPants: true, LinkHeadings: true}
}

// NewGitHubFlavoredMarkdown builds the transformer from raw options.
func NewGitHubFlavoredMarkdown(raw plugin.Options) (plugin.Plugin, error) {
	opts := defaultGFMOptions()
	if err := raw.Decode("GitHubFlavoredMarkdown", &opts); err != nil {
		return nil, err
	}
	return &GitHubFlavoredMarkdown{opts: opts}, nil
}

// GitHubFlavoredMarkdownRegistration registers GitHubFlavoredMarkdown.
func GitHubFlavoredMarkdownRegistration() plugin.Registration {
	return plugin.Registration{
		Name:        "GitHubFlavoredMarkdown",
		Stage:       plugin.StageTransformer,
		Description: "Enables GitHub Flavored Markdown extensions",
		Defaults:    func() any { return defaultGFMOptions() },
		New:         NewGitHubFlavoredMarkdown,
	}
}

func (g *GitHubFlavoredMarkdown) Name() string { return "GitHubFlavoredMarkdown" }

func (g *GitHubFlavoredMarkdown) Transform(_ *plugin.Context, p *page.Page) error {
	p.ConfigureMarkdown(func(o *markdown.Options) {
		o.GFM = true
		o.Typographer = g.opts.EnableSmartyPants
		o.HeadingIDs = g.opts.LinkHeadings
	})
	return nil
}

// Package filters holds the built-in filter plugins.
package filters

import (
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// Registrations returns every built-in filter.
func Registrations() []plugin.Registration {
	return []plugin.Registration{
		{
			Name:        "RemoveDrafts",
			Stage:       plugin.StageFilter,
			Description: "Drops pages marked draft in their frontmatter",
			New:         NewRemoveDrafts,
		},
		{
			Name:        "ExplicitPublish",
			Stage:       plugin.StageFilter,
			Description: "Keeps only pages marked publish in their frontmatter",
			New:         NewExplicitPublish,
		},
	}
}

// RemoveDrafts drops pages whose draft flag is true.
type RemoveDrafts struct{}

// NewRemoveDrafts builds the filter. It accepts no options.
func NewRemoveDrafts(raw plugin.Options) (plugin.Plugin, error) {
	var none struct{}
	if err := raw.Decode("RemoveDrafts", &none); err != nil {
		return nil, err
	}
	return RemoveDrafts{}, nil
}

func (RemoveDrafts) Name() string { return "RemoveDrafts" }

func (RemoveDrafts) Keep(p *page.Page) bool {
	return !flag(p, page.KeyDraft)
}

// ExplicitPublish keeps only pages whose publish flag is true.
type ExplicitPublish struct{}

// NewExplicitPublish builds the filter. It accepts no options.
func NewExplicitPublish(raw plugin.Options) (plugin.Plugin, error) {
	var none struct{}
	if err := raw.Decode("ExplicitPublish", &none); err != nil {
		return nil, err
	}
	return ExplicitPublish{}, nil
}

func (ExplicitPublish) Name() string { return "ExplicitPublish" }

func (ExplicitPublish) Keep(p *page.Page) bool {
	return flag(p, page.KeyPublish)
}

// flag reads a normalized boolean key, falling back to the raw frontmatter
// when the FrontMatter transformer did not normalize it.
func flag(p *page.Page, key string) bool {
	if v, ok := p.Metadata.Get(key); ok {
		return page.Truthy(v)
	}
	if fm, ok := p.Metadata.Get(page.KeyFrontmatter); ok {
		if m, ok := fm.(map[string]any); ok {
			return page.Truthy(m[key])
		}
	}
	return false
}

package emitters

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// AliasRedirects writes a meta refresh page at each frontmatter alias of a
// page. Aliases starting with "./" or "../" are relative to the page's
// folder, all others to the site root.
type AliasRedirects struct{}

// NewAliasRedirects builds the emitter. It accepts no options.
func NewAliasRedirects(raw plugin.Options) (plugin.Plugin, error) {
	var none struct{}
	if err := raw.Decode("AliasRedirects", &none); err != nil {
		return nil, err
	}
	return AliasRedirects{}, nil
}

func (AliasRedirects) Name() string { return "AliasRedirects" }

func (AliasRedirects) Emit(pc *plugin.Context, pages []*page.Page) ([]plugin.Artifact, error) {
	s := site(pc)
	slugs := slugSet(pages)
	var out []plugin.Artifact
	for _, p := range pages {
		seen := make(map[string]bool)
		for _, alias := range p.Metadata.Strings(page.KeyAliases) {
			slug, ok := aliasSlug(p.Slug, alias)
			if !ok {
				pc.Warn(p, "alias %q points outside the site", alias)
				continue
			}
			if seen[slug] {
				continue
			}
			seen[slug] = true
			if slugs[slug] {
				if slug != p.Slug {
					pc.Warn(p, "alias %q shadows an existing page", alias)
				}
				continue
			}
			b, err := render("redirect", redirectView{
				Lang:   lang(s.Locale),
				Title:  p.Title(),
				Target: page.RelativeURL(slug, p.Slug),
			})
			if err != nil {
				return nil, err
			}
			out = append(out, plugin.Artifact{Path: page.HTMLPath(slug), Content: b})
		}
	}
	return out, nil
}

func aliasSlug(from, alias string) (string, bool) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return "", false
	}
	if strings.HasPrefix(alias, "./") || strings.HasPrefix(alias, "../") {
		alias = path.Join(page.Folder(from), alias)
	}
	alias = path.Clean(strings.TrimPrefix(alias, "/"))
	if alias == "." || alias == ".." || strings.HasPrefix(alias, "../") {
		return "", false
	}
	return page.Slugify(alias), true
}

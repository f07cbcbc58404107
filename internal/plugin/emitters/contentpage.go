package emitters

import (
	"html/template"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// ContentPage renders one HTML file per page.
type ContentPage struct{}

// NewContentPage builds the emitter. It accepts no options.
func NewContentPage(raw plugin.Options) (plugin.Plugin, error) {
	var none struct{}
	if err := raw.Decode("ContentPage", &none); err != nil {
		return nil, err
	}
	return ContentPage{}, nil
}

func (ContentPage) Name() string { return "ContentPage" }

func (ContentPage) Emit(pc *plugin.Context, pages []*page.Page) ([]plugin.Artifact, error) {
	s := site(pc)
	backlinks := backlinkIndex(pages)
	out := make([]plugin.Artifact, 0, len(pages))
	for _, p := range pages {
		html, err := p.RenderHTML()
		if err != nil {
			pc.Fail(p, "page not rendered", err)
			continue
		}
		v := contentView(s, p)
		v.Content = template.HTML(html) // #nosec G203 -- rendered from the site's own Markdown.
		for _, from := range backlinks[p.Slug] {
			v.Backlinks = append(v.Backlinks, linkView{Name: from.Title(), Href: page.RelativeURL(p.Slug, from.Slug)})
		}
		b, err := render("page", v)
		if err != nil {
			return nil, err
		}
		out = append(out, plugin.Artifact{Path: page.HTMLPath(p.Slug), Content: b})
	}
	return out, nil
}

// backlinkIndex maps each slug to the pages linking to it, in page order.
func backlinkIndex(pages []*page.Page) map[string][]*page.Page {
	idx := make(map[string][]*page.Page)
	for _, p := range pages {
		for _, target := range p.Metadata.Strings(page.KeyLinks) {
			if target == p.Slug {
				continue
			}
			idx[target] = append(idx[target], p)
		}
	}
	return idx
}

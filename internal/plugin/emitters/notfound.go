package emitters

import (
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// NotFoundPage writes 404.html. Its links are root-absolute because the
// server returns it for paths at any depth.
type NotFoundPage struct{}

// NewNotFoundPage builds the emitter. It accepts no options.
func NewNotFoundPage(raw plugin.Options) (plugin.Plugin, error) {
	var none struct{}
	if err := raw.Decode("NotFoundPage", &none); err != nil {
		return nil, err
	}
	return NotFoundPage{}, nil
}

func (NotFoundPage) Name() string { return "NotFoundPage" }

func (NotFoundPage) Emit(pc *plugin.Context, _ []*page.Page) ([]plugin.Artifact, error) {
	s := site(pc)
	v := newPageView(s, "404", "404")
	v.Root = basePath(s.BaseURL)
	v.CanonicalURL = ""
	v.Content = "<p>Either this page is private or doesn't exist.</p>"
	b, err := render("page", v)
	if err != nil {
		return nil, err
	}
	return []plugin.Artifact{{Path: "404.html", Content: b}}, nil
}

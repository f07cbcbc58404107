package emitters

import (
	"embed"
	"io/fs"
	"path"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

//go:embed static
var staticFS embed.FS

// Static writes the embedded files below static/.
type Static struct{}

// NewStatic builds the emitter. It accepts no options.
func NewStatic(raw plugin.Options) (plugin.Plugin, error) {
	var none struct{}
	if err := raw.Decode("Static", &none); err != nil {
		return nil, err
	}
	return Static{}, nil
}

func (Static) Name() string { return "Static" }

func (Static) Emit(_ *plugin.Context, _ []*page.Page) ([]plugin.Artifact, error) {
	var out []plugin.Artifact
	err := fs.WalkDir(staticFS, "static", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := staticFS.ReadFile(p)
		if err != nil {
			return err
		}
		out = append(out, plugin.Artifact{Path: path.Clean(p), Content: b})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

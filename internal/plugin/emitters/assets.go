package emitters

import (
	"path/filepath"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// Assets copies the non-page files found in the content directory. Ignore
// patterns were already applied during discovery.
type Assets struct{}

// NewAssets builds the emitter. It accepts no options.
func NewAssets(raw plugin.Options) (plugin.Plugin, error) {
	var none struct{}
	if err := raw.Decode("Assets", &none); err != nil {
		return nil, err
	}
	return Assets{}, nil
}

func (Assets) Name() string { return "Assets" }

func (Assets) Emit(pc *plugin.Context, _ []*page.Page) ([]plugin.Artifact, error) {
	out := make([]plugin.Artifact, 0, len(pc.Assets))
	for _, rel := range pc.Assets {
		out = append(out, plugin.Artifact{
			Path:       page.SlugifyAsset(rel),
			SourcePath: filepath.Join(pc.ContentDir, filepath.FromSlash(rel)),
		})
	}
	return out, nil
}

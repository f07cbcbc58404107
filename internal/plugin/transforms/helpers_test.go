package transforms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegarden/internal/diagnostics"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

func newTestPage(rel, content string) *page.Page {
	return page.New("/content/"+rel, rel, []byte(content), time.Time{})
}

func newTestContext(slugs ...string) (*plugin.Context, *diagnostics.Collector) {
	c := diagnostics.NewCollector()
	pc := plugin.NewContext(context.Background(), nil, nil, c)
	pc.Slugs = slugs
	return pc.For(diagnostics.StageTransform, "test", 0), c
}

// run builds the named transformers with default options and applies them
// in order.
func run(t *testing.T, pc *plugin.Context, p *page.Page, factories ...plugin.Factory) {
	t.Helper()
	for _, f := range factories {
		inst, err := f(nil)
		require.NoError(t, err)
		require.NoError(t, inst.(plugin.Transformer).Transform(pc, p))
	}
}

func withOptions(f plugin.Factory, opts plugin.Options) plugin.Factory {
	return func(plugin.Options) (plugin.Plugin, error) { return f(opts) }
}

package emitters

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegarden/internal/config"
	"git.home.luguber.info/inful/sitegarden/internal/diagnostics"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

type meta map[string]any

// frozenPage builds a page as the emitters see it: transformed, then frozen.
func frozenPage(rel, body string, m meta) *page.Page {
	p := page.New("/content/"+rel, rel, []byte(body), time.Time{})
	for k, v := range m {
		p.Metadata.Set(k, v)
	}
	p.Freeze()
	return p
}

func testConfig(mutate func(*config.SiteConfig)) *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	if mutate != nil {
		mutate(&cfg.Configuration)
	}
	return cfg
}

func testContext(cfg *config.Config) (*plugin.Context, *diagnostics.Collector) {
	c := diagnostics.NewCollector()
	pc := plugin.NewContext(context.Background(), nil, cfg, c)
	return pc.For(diagnostics.StageEmit, "test", 0), c
}

func emit(t *testing.T, pc *plugin.Context, f plugin.Factory, opts plugin.Options, pages ...*page.Page) map[string]string {
	t.Helper()
	inst, err := f(opts)
	require.NoError(t, err)
	arts, err := inst.(plugin.Emitter).Emit(pc, pages)
	require.NoError(t, err)
	out := make(map[string]string, len(arts))
	for _, a := range arts {
		_, dup := out[a.Path]
		require.False(t, dup, "duplicate artifact %s", a.Path)
		out[a.Path] = string(a.Content)
	}
	return out
}

func paths(arts map[string]string) []string {
	out := make([]string, 0, len(arts))
	for p := range arts {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

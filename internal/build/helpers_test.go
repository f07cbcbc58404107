package build

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegarden/internal/config"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
	"git.home.luguber.info/inful/sitegarden/internal/plugin/builtin"
)

var fixedTime = time.Date(2020, 1, 2, 12, 0, 0, 0, time.UTC)

// writeContent creates a content tree with a fixed modification time so
// filesystem dates are reproducible.
func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
		require.NoError(t, os.Chtimes(full, fixedTime, fixedTime))
	}
	return dir
}

// readTree returns every file below dir keyed by slash path.
func readTree(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return out
	}
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func artifactPaths(r *Result) []string {
	out := make([]string, 0, len(r.Artifacts))
	for _, a := range r.Artifacts {
		out = append(out, a.Path)
	}
	return out
}

func minimalConfig(transformers, filters, emitters []config.PluginSpec) *config.Config {
	cfg := &config.Config{Plugins: config.PluginsConfig{
		Transformers: transformers,
		Filters:      filters,
		Emitters:     emitters,
	}}
	config.ApplyDefaults(cfg)
	return cfg
}

func specs(names ...string) []config.PluginSpec {
	out := make([]config.PluginSpec, 0, len(names))
	for _, n := range names {
		out = append(out, config.Plugin(n, nil))
	}
	return out
}

type transformFunc struct {
	name string
	fn   func(*plugin.Context, *page.Page) error
}

func (t transformFunc) Name() string { return t.name }
func (t transformFunc) Transform(pc *plugin.Context, p *page.Page) error {
	return t.fn(pc, p)
}

type emitFunc struct {
	name string
	fn   func(*plugin.Context, []*page.Page) ([]plugin.Artifact, error)
}

func (e emitFunc) Name() string { return e.name }
func (e emitFunc) Emit(pc *plugin.Context, pages []*page.Page) ([]plugin.Artifact, error) {
	return e.fn(pc, pages)
}

func registration(p plugin.Plugin) plugin.Registration {
	stage, _ := plugin.StageOf(p)
	return plugin.Registration{
		Name:  p.Name(),
		Stage: stage,
		New:   func(plugin.Options) (plugin.Plugin, error) { return p, nil },
	}
}

// registryWith returns the built-in registry extended with test plugins.
func registryWith(extra ...plugin.Plugin) *plugin.Registry {
	r := builtin.Registry()
	for _, p := range extra {
		r.MustRegister(registration(p))
	}
	return r
}

// staticEmitter emits one artifact per path, each holding its own path.
func staticEmitter(name string, paths ...string) emitFunc {
	return emitFunc{name: name, fn: func(*plugin.Context, []*page.Page) ([]plugin.Artifact, error) {
		out := make([]plugin.Artifact, 0, len(paths))
		for _, p := range paths {
			out = append(out, plugin.Artifact{Path: p, Content: []byte(name + ":" + p)})
		}
		return out, nil
	}}
}

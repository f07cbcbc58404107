package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegarden/internal/config"
	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegarden/internal/page"
)

type stubOptions struct {
	Mode  string `yaml:"mode"`
	Limit int    `yaml:"limit"`
}

type stubTransformer struct{ opts stubOptions }

func (s *stubTransformer) Name() string                             { return "Stub" }
func (s *stubTransformer) Transform(_ *Context, _ *page.Page) error { return nil }

type stubFilter struct{}

func (stubFilter) Name() string           { return "Keep" }
func (stubFilter) Keep(_ *page.Page) bool { return true }

type stubEmitter struct{}

func (stubEmitter) Name() string { return "Out" }
func (stubEmitter) Emit(_ *Context, _ []*page.Page) ([]Artifact, error) {
	return nil, nil
}

func newStubRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	r.MustRegister(
		Registration{
			Name:     "Stub",
			Stage:    StageTransformer,
			Defaults: func() any { return stubOptions{Mode: "a", Limit: 3} },
			New: func(opts Options) (Plugin, error) {
				o := stubOptions{Mode: "a", Limit: 3}
				if err := opts.Decode("Stub", &o); err != nil {
					return nil, err
				}
				if err := Enum("Stub", "mode", o.Mode, "a", "b"); err != nil {
					return nil, err
				}
				return &stubTransformer{opts: o}, nil
			},
		},
		Registration{Name: "Keep", Stage: StageFilter, New: func(Options) (Plugin, error) { return stubFilter{}, nil }},
		Registration{Name: "Out", Stage: StageEmitter, New: func(Options) (Plugin, error) { return stubEmitter{}, nil }},
	)
	return r
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	reg := Registration{Name: "Keep", Stage: StageFilter, New: func(Options) (Plugin, error) { return stubFilter{}, nil }}

	require.NoError(t, r.Register(reg))
	assert.True(t, r.Has("Keep"))
	assert.Equal(t, 1, r.Count())
	require.Error(t, r.Register(reg), "duplicate registration")

	require.Error(t, r.Register(Registration{Stage: StageFilter, New: reg.New}), "missing name")
	require.Error(t, r.Register(Registration{Name: "X", Stage: "publisher", New: reg.New}), "invalid stage")
	require.Error(t, r.Register(Registration{Name: "Y", Stage: StageFilter}), "missing factory")

}

func TestRegistryList(t *testing.T) {
	r := newStubRegistry(t)
	var names []string
	for _, reg := range r.List() {
		names = append(names, reg.Name)
	}
	assert.Equal(t, []string{"Stub", "Keep", "Out"}, names)
	require.Len(t, r.ListByStage(StageFilter), 1)
}

func TestRegistryNew_DecodesOptions(t *testing.T) {
	r := newStubRegistry(t)

	p, err := r.New(StageTransformer, config.Plugin("Stub", map[string]any{"mode": "b"}))
	require.NoError(t, err)
	assert.Equal(t, stubOptions{Mode: "b", Limit: 3}, p.(*stubTransformer).opts)

	p, err = r.New(StageTransformer, config.Plugin("Stub", nil))
	require.NoError(t, err)
	assert.Equal(t, stubOptions{Mode: "a", Limit: 3}, p.(*stubTransformer).opts)
}

func TestRegistryNew_ConfigErrors(t *testing.T) {
	r := newStubRegistry(t)
	tests := []struct {
		name  string
		stage Stage
		spec  config.PluginSpec
	}{
		{"unknown plugin", StageTransformer, config.Plugin("Nope", nil)},
		{"wrong stage", StageEmitter, config.Plugin("Stub", nil)},
		{"unknown option", StageTransformer, config.Plugin("Stub", map[string]any{"colour": "red"})},
		{"invalid enum", StageTransformer, config.Plugin("Stub", map[string]any{"mode": "z"})},
		{"wrong option type", StageTransformer, config.Plugin("Stub", map[string]any{"limit": "many"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.New(tt.stage, tt.spec)
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig), err.Error())
			assert.True(t, ferrors.IsFatal(err))
		})
	}
}

func TestRegistryInstantiate(t *testing.T) {
	r := newStubRegistry(t)
	pl, err := r.Instantiate(config.PluginsConfig{
		Transformers: []config.PluginSpec{{Name: "Stub"}, {Name: "Stub", Options: map[string]any{"limit": 9}}},
		Filters:      []config.PluginSpec{{Name: "Keep"}},
		Emitters:     []config.PluginSpec{{Name: "Out"}},
	})
	require.NoError(t, err)
	require.Len(t, pl.Transformers, 2)
	assert.Equal(t, 9, pl.Transformers[1].(*stubTransformer).opts.Limit)
	assert.Len(t, pl.Filters, 1)
	assert.Len(t, pl.Emitters, 1)

	_, err = r.Instantiate(config.PluginsConfig{Filters: []config.PluginSpec{{Name: "Out"}}})
	require.Error(t, err)
}

func TestStageOf(t *testing.T) {
	s, ok := StageOf(stubFilter{})
	require.True(t, ok)
	assert.Equal(t, StageFilter, s)
	s, _ = StageOf(&stubTransformer{})
	assert.Equal(t, StageTransformer, s)
}

func TestPluginError(t *testing.T) {
	inner := assert.AnError
	err := NewError("ContentIndex", "emit", inner)
	assert.Equal(t, "plugin ContentIndex failed during emit: "+inner.Error(), err.Error())
	assert.ErrorIs(t, err, inner)
}

package plugin

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"git.home.luguber.info/inful/sitegarden/internal/config"
	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
)

// Factory builds a plugin instance from its options. Construction must be
// side-effect free and fail fast on unknown keys or invalid values.
type Factory func(opts Options) (Plugin, error)

// Registration describes one named plugin.
type Registration struct {
	Name        string
	Stage       Stage
	Description string
	// Defaults returns the options struct holding the default values, or
	// nil for plugins without options.
	Defaults func() any
	New      Factory
}

// Registry maps plugin names to their registrations.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Registration),
	}
}

// Register adds a plugin registration.
// Returns an error if the registration is incomplete or the name is taken.
func (r *Registry) Register(reg Registration) error {
	if reg.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if !reg.Stage.IsValid() {
		return fmt.Errorf("plugin %s: invalid stage %q", reg.Name, reg.Stage)
	}
	if reg.New == nil {
		return fmt.Errorf("plugin %s: factory is required", reg.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[reg.Name]; exists {
		return fmt.Errorf("plugin %s already registered", reg.Name)
	}
	r.entries[reg.Name] = reg
	return nil
}

// MustRegister is Register for static wiring; it panics on error.
func (r *Registry) MustRegister(regs ...Registration) *Registry {
	for _, reg := range regs {
		if err := r.Register(reg); err != nil {
			panic(err)
		}
	}
	return r
}

// Get retrieves a registration by name.
func (r *Registry) Get(name string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[name]
	return reg, ok
}

// Has checks if a plugin with the given name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// List returns all registrations ordered by stage, then name.
func (r *Registry) List() []Registration {
	r.mu.RLock()
	out := make([]Registration, 0, len(r.entries))
	for _, reg := range r.entries {
		out = append(out, reg)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Registration) int {
		return cmp.Or(cmp.Compare(stageRank(a.Stage), stageRank(b.Stage)), cmp.Compare(a.Name, b.Name))
	})
	return out
}

// ListByStage returns the registrations of one stage ordered by name.
func (r *Registry) ListByStage(stage Stage) []Registration {
	var out []Registration
	for _, reg := range r.List() {
		if reg.Stage == stage {
			out = append(out, reg)
		}
	}
	return out
}

// New builds the plugin configured by spec for the given stage.
func (r *Registry) New(stage Stage, spec config.PluginSpec) (Plugin, error) {
	reg, ok := r.Get(spec.Name)
	if !ok {
		return nil, ferrors.ConfigError("unknown plugin").
			WithContext("plugin", spec.Name).
			WithContext("stage", string(stage)).
			Build()
	}
	if reg.Stage != stage {
		return nil, ferrors.ConfigError("plugin configured in the wrong stage").
			WithContext("plugin", spec.Name).
			WithContext("stage", string(stage)).
			WithContext("expected", string(reg.Stage)).
			Build()
	}

	p, err := reg.New(Options(spec.Options))
	if err != nil {
		if _, ok := ferrors.AsClassified(err); ok {
			return nil, err
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "plugin construction failed").
			Fatal().
			WithContext("plugin", spec.Name).
			Build()
	}
	if got, ok := StageOf(p); !ok || got != stage {
		return nil, ferrors.InternalError("factory returned a plugin of the wrong stage").
			WithContext("plugin", spec.Name).
			Build()
	}
	return p, nil
}

// Pipeline holds the instantiated plugin lists in configured order.
type Pipeline struct {
	Transformers []Transformer
	Filters      []Filter
	Emitters     []Emitter
}

// Instantiate builds every configured plugin. The first failure aborts
// with a fatal configuration error.
func (r *Registry) Instantiate(cfg config.PluginsConfig) (*Pipeline, error) {
	pl := &Pipeline{}
	for _, spec := range cfg.Transformers {
		p, err := r.New(StageTransformer, spec)
		if err != nil {
			return nil, err
		}
		pl.Transformers = append(pl.Transformers, p.(Transformer))
	}
	for _, spec := range cfg.Filters {
		p, err := r.New(StageFilter, spec)
		if err != nil {
			return nil, err
		}
		pl.Filters = append(pl.Filters, p.(Filter))
	}
	for _, spec := range cfg.Emitters {
		p, err := r.New(StageEmitter, spec)
		if err != nil {
			return nil, err
		}
		pl.Emitters = append(pl.Emitters, p.(Emitter))
	}
	return pl, nil
}

func stageRank(s Stage) int {
	switch s {
	case StageTransformer:
		return 0
	case StageFilter:
		return 1
	default:
		return 2
	}
}

// Package plugin defines the three plugin stages of a site build and the
// registry that turns configured plugin specs into instances.
//
// Every plugin implements exactly one stage interface: Transformer, Filter
// or Emitter. Instances are produced by a Factory from decoded options and
// must not carry state across pages, except for caches keyed by page path
// that the instance owns.
package plugin

import (
	"git.home.luguber.info/inful/sitegarden/internal/page"
)

// Plugin is the common part of every stage interface.
type Plugin interface {
	// Name returns the registered plugin name (e.g. "FrontMatter").
	Name() string
}

// Transformer maps one page to its next state, in place. Returning an
// error excludes the page from downstream stages. Malformed but
// processable content should be reported through pc.Warn and the page
// passed through unchanged.
type Transformer interface {
	Plugin
	Transform(pc *Context, p *page.Page) error
}

// Filter decides whether a fully transformed page survives. Keep must be
// free of side effects.
type Filter interface {
	Plugin
	Keep(p *page.Page) bool
}

// Emitter turns the frozen set of surviving pages into output artifacts.
// Emitters may read any page but must not mutate one.
type Emitter interface {
	Plugin
	Emit(pc *Context, pages []*page.Page) ([]Artifact, error)
}

// Artifact is one output file, addressed by a slash-separated path below
// the output root.
type Artifact struct {
	Path    string
	Content []byte
	// SourcePath, when set, names a file copied verbatim instead of Content.
	SourcePath string
}

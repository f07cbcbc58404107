// Package diagnostics collects per-page and per-build warnings and errors
// raised while a build runs and reports them in a deterministic order.
package diagnostics

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegarden/internal/logfields"
)

// Stage identifies the build phase a diagnostic was raised in.
type Stage string

const (
	StageConfig    Stage = "config"
	StageDiscovery Stage = "discovery"
	StageTransform Stage = "transform"
	StageFilter    Stage = "filter"
	StageEmit      Stage = "emit"
	StageWrite     Stage = "write"
)

func (s Stage) rank() int {
	switch s {
	case StageConfig:
		return 0
	case StageDiscovery:
		return 1
	case StageTransform:
		return 2
	case StageFilter:
		return 3
	case StageEmit:
		return 4
	case StageWrite:
		return 5
	}
	return 6
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Stage    Stage
	Severity ferrors.ErrorSeverity
	// Plugin is empty for diagnostics raised by the driver itself.
	Plugin string
	// PluginIndex is the position of the plugin in its configured list.
	PluginIndex int
	// Path is the content-relative page path, empty for build-wide problems.
	Path    string
	Message string
	Err     error
}

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", d.Severity, d.Stage)
	if d.Plugin != "" {
		fmt.Fprintf(&b, " [%s]", d.Plugin)
	}
	if d.Path != "" {
		fmt.Fprintf(&b, " %s", d.Path)
	}
	fmt.Fprintf(&b, ": %s", d.Message)
	if d.Err != nil {
		fmt.Fprintf(&b, ": %v", d.Err)
	}
	return b.String()
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// Collector is a concurrency-safe Reporter that keeps every diagnostic.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report implements Reporter.
func (c *Collector) Report(d Diagnostic) {
	if d.Severity == "" {
		d.Severity = ferrors.SeverityError
	}
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// List returns all diagnostics ordered by stage, page path, plugin position
// and message.
func (c *Collector) List() []Diagnostic {
	c.mu.Lock()
	out := slices.Clone(c.items)
	c.mu.Unlock()
	Sort(out)
	return out
}

// Sort orders diagnostics deterministically in place.
func Sort(ds []Diagnostic) {
	slices.SortStableFunc(ds, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Stage.rank(), b.Stage.rank()),
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.PluginIndex, b.PluginIndex),
			cmp.Compare(a.Message, b.Message),
		)
	})
}

// Count returns the number of diagnostics with the given severity.
func (c *Collector) Count(severity ferrors.ErrorSeverity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.items {
		if d.Severity == severity {
			n++
		}
	}
	return n
}

// Len returns the total number of diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Log writes each diagnostic to logger at a level matching its severity.
func Log(logger *slog.Logger, ds []Diagnostic) {
	for _, d := range ds {
		attrs := []any{logfields.Stage(string(d.Stage)), logfields.Severity(string(d.Severity))}
		if d.Plugin != "" {
			attrs = append(attrs, logfields.Plugin(d.Plugin))
		}
		if d.Path != "" {
			attrs = append(attrs, logfields.Page(d.Path))
		}
		if d.Err != nil {
			attrs = append(attrs, logfields.Error(d.Err))
		}
		switch d.Severity {
		case ferrors.SeverityInfo:
			logger.Info(d.Message, attrs...)
		case ferrors.SeverityWarning:
			logger.Warn(d.Message, attrs...)
		default:
			logger.Error(d.Message, attrs...)
		}
	}
}

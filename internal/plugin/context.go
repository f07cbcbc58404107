package plugin

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitegarden/internal/config"
	"git.home.luguber.info/inful/sitegarden/internal/diagnostics"
	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegarden/internal/logfields"
	"git.home.luguber.info/inful/sitegarden/internal/page"
)

// Context gives a running plugin access to build-wide, read-only state.
// The driver derives one Context per plugin with For.
type Context struct {
	// Context is the standard Go context for cancellation.
	Context context.Context

	// Logger is scoped to the build and, after For, to the plugin.
	Logger *slog.Logger

	// Config is the loaded site configuration.
	Config *config.Config

	// ContentDir is the root the pages were discovered in.
	ContentDir string

	// OutputDir is the root artifacts are written below.
	OutputDir string

	// BuildID uniquely identifies this build.
	BuildID string

	// Slugs lists every discovered page slug, sorted. It is known before
	// transformers run and must not be modified.
	Slugs []string

	// Assets lists the content-relative paths of discovered non-page files.
	Assets []string

	reporter diagnostics.Reporter
	stage    diagnostics.Stage
	plugin   string
	index    int
}

// NewContext creates a build-wide context.
func NewContext(ctx context.Context, logger *slog.Logger, cfg *config.Config, reporter diagnostics.Reporter) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		Context:  ctx,
		Logger:   logger,
		Config:   cfg,
		reporter: reporter,
	}
}

// For returns a copy of the context attributed to the plugin at position
// index of the given stage.
func (pc *Context) For(stage diagnostics.Stage, name string, index int) *Context {
	cp := *pc
	cp.stage = stage
	cp.plugin = name
	cp.index = index
	cp.Logger = pc.Logger.With(logfields.Stage(string(stage)), logfields.Plugin(name))
	return &cp
}

// PluginName returns the plugin the context is attributed to.
func (pc *Context) PluginName() string {
	return pc.plugin
}

// Warn records a warning diagnostic for p. A nil page records a
// build-wide warning.
func (pc *Context) Warn(p *page.Page, format string, args ...any) {
	pc.report(p, ferrors.SeverityWarning, fmt.Sprintf(format, args...), nil)
}

// Info records an informational diagnostic for p.
func (pc *Context) Info(p *page.Page, format string, args ...any) {
	pc.report(p, ferrors.SeverityInfo, fmt.Sprintf(format, args...), nil)
}

// Fail records an error diagnostic for p without stopping the plugin.
func (pc *Context) Fail(p *page.Page, message string, err error) {
	pc.report(p, ferrors.SeverityError, message, err)
}

func (pc *Context) report(p *page.Page, sev ferrors.ErrorSeverity, msg string, err error) {
	if pc.reporter == nil {
		return
	}
	d := diagnostics.Diagnostic{
		Stage:       pc.stage,
		Severity:    sev,
		Plugin:      pc.plugin,
		PluginIndex: pc.index,
		Message:     msg,
		Err:         err,
	}
	if p != nil {
		d.Path = p.RelativePath
	}
	pc.reporter.Report(d)
}

package build

import (
	"cmp"
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitegarden/internal/diagnostics"
	"git.home.luguber.info/inful/sitegarden/internal/discovery"
	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegarden/internal/logfields"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

type pageOutcome int

const (
	pageKept pageOutcome = iota
	pageDropped
	pageFailed
)

// transformAndFilter runs every page through the transformer chain and the
// filters on a bounded pool. Each page is owned by exactly one worker. The
// survivors are returned sorted by slug.
func (r *run) transformAndFilter(ctx context.Context, pc *plugin.Context, pl *plugin.Pipeline, files []discovery.File) ([]*page.Page, error) {
	tctx := make([]*plugin.Context, len(pl.Transformers))
	for i, t := range pl.Transformers {
		tctx[i] = pc.For(diagnostics.StageTransform, t.Name(), i)
	}

	pages := make([]*page.Page, len(files))
	outcomes := make([]pageOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pages[i], outcomes[i] = r.processPage(tctx, pl, &files[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var survivors []*page.Page
	for i, p := range pages {
		switch outcomes[i] {
		case pageKept:
			survivors = append(survivors, p)
			r.result.Published++
		case pageDropped:
			r.result.Dropped++
		case pageFailed:
			r.result.Failed++
		}
	}
	sortPages(survivors)
	return survivors, nil
}

func (r *run) processPage(tctx []*plugin.Context, pl *plugin.Pipeline, f *discovery.File) (*page.Page, pageOutcome) {
	if err := f.LoadContent(); err != nil {
		r.collector.Report(diagnostics.Diagnostic{
			Stage:    diagnostics.StageDiscovery,
			Severity: ferrors.SeverityError,
			Path:     f.RelativePath,
			Message:  "page could not be loaded",
			Err:      err,
		})
		return nil, pageFailed
	}
	p := page.New(f.Path, f.RelativePath, f.Content, f.ModTime)

	for i, t := range pl.Transformers {
		if err := runTransformer(tctx[i], t, p); err != nil {
			r.collector.Report(diagnostics.Diagnostic{
				Stage:       diagnostics.StageTransform,
				Severity:    ferrors.SeverityError,
				Plugin:      t.Name(),
				PluginIndex: i,
				Path:        p.RelativePath,
				Message:     "transform failed, page excluded",
				Err:         err,
			})
			return nil, pageFailed
		}
	}

	for i, flt := range pl.Filters {
		keep, err := runFilter(flt, p)
		if err != nil {
			r.collector.Report(diagnostics.Diagnostic{
				Stage:       diagnostics.StageFilter,
				Severity:    ferrors.SeverityError,
				Plugin:      flt.Name(),
				PluginIndex: i,
				Path:        p.RelativePath,
				Message:     "filter failed, page excluded",
				Err:         err,
			})
			return nil, pageFailed
		}
		if !keep {
			r.logger.Debug("Page dropped by filter", logfields.Page(p.RelativePath), logfields.Plugin(flt.Name()))
			return nil, pageDropped
		}
	}
	return p, pageKept
}

// Plugin operations named in plugin.Error.
const (
	opTransform = "transform"
	opFilter    = "filter"
	opEmit      = "emit"
)

func runTransformer(pc *plugin.Context, t plugin.Transformer, p *page.Page) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = panicError(rec)
		}
		if err != nil {
			err = plugin.NewError(t.Name(), opTransform, err)
		}
	}()
	return t.Transform(pc, p)
}

func runFilter(f plugin.Filter, p *page.Page) (keep bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			keep, err = false, plugin.NewError(f.Name(), opFilter, panicError(rec))
		}
	}()
	return f.Keep(p), nil
}

// panicError turns a recovered value into an error, keeping error values
// in the chain so ErrFrozen stays detectable.
func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", rec)
}

// output is an artifact attributed to the emitter that produced it.
type output struct {
	artifact plugin.Artifact
	emitter  string
}

// emit runs the emitters sequentially in configured order. A failing
// emitter is reported and its artifacts dropped; the others still run.
func (r *run) emit(ctx context.Context, pc *plugin.Context, emitters []plugin.Emitter, pages []*page.Page) ([]output, error) {
	var outputs []output
	for i, e := range emitters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		epc := pc.For(diagnostics.StageEmit, e.Name(), i)
		artifacts, err := runEmitter(epc, e, pages)
		if err == nil {
			if err = normalizeArtifacts(artifacts); err != nil {
				err = plugin.NewError(e.Name(), opEmit, err)
			}
		}
		if err != nil {
			r.collector.Report(diagnostics.Diagnostic{
				Stage:       diagnostics.StageEmit,
				Severity:    ferrors.SeverityError,
				Plugin:      e.Name(),
				PluginIndex: i,
				Message:     "emitter failed, its artifacts are dropped",
				Err:         err,
			})
			continue
		}
		for _, a := range artifacts {
			outputs = append(outputs, output{artifact: a, emitter: e.Name()})
		}
		r.recorder.AddArtifacts(e.Name(), len(artifacts))
		epc.Logger.Debug("Emitter finished", logfields.Count(len(artifacts)))
	}
	return outputs, nil
}

func runEmitter(pc *plugin.Context, e plugin.Emitter, pages []*page.Page) (artifacts []plugin.Artifact, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			artifacts, err = nil, panicError(rec)
		}
		if err != nil {
			err = plugin.NewError(e.Name(), opEmit, err)
		}
	}()
	return e.Emit(pc, pages)
}

// normalizeArtifacts cleans artifact paths in place and rejects paths that
// would land outside the output root.
func normalizeArtifacts(artifacts []plugin.Artifact) error {
	for i := range artifacts {
		raw := artifacts[i].Path
		p := path.Clean(strings.ReplaceAll(raw, "\\", "/"))
		if raw == "" || p == "." || path.IsAbs(p) || p == ".." || strings.HasPrefix(p, "../") {
			return fmt.Errorf("%w: %q", ErrInvalidPath, raw)
		}
		artifacts[i].Path = p
	}
	return nil
}

// sortPages orders pages by slug, then by source path for pages whose
// slugs collide.
func sortPages(pages []*page.Page) {
	slices.SortFunc(pages, func(a, b *page.Page) int {
		return cmp.Or(strings.Compare(a.Slug, b.Slug), strings.Compare(a.RelativePath, b.RelativePath))
	})
}

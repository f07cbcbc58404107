package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegarden/internal/config"
	"git.home.luguber.info/inful/sitegarden/internal/diagnostics"
	"git.home.luguber.info/inful/sitegarden/internal/discovery"
	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegarden/internal/logfields"
	"git.home.luguber.info/inful/sitegarden/internal/metrics"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// Builder executes builds for one configuration.
type Builder struct {
	cfg      *config.Config
	registry *plugin.Registry
	opts     Options
	logger   *slog.Logger
	recorder metrics.Recorder
}

// New creates a builder. The configuration is read, never modified.
func New(cfg *config.Config, registry *plugin.Registry, opts Options) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if opts.Recorder != nil {
		recorder = opts.Recorder
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Builder{
		cfg:      cfg,
		registry: registry,
		opts:     opts,
		logger:   logger,
		recorder: recorder,
	}
}

// run carries the state of one Build call.
type run struct {
	*Builder
	id        string
	logger    *slog.Logger
	collector *diagnostics.Collector
	result    *Result
}

// Build runs the pipeline once. The returned Result is never nil and holds
// every diagnostic collected, including on failure.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	r := &run{
		Builder:   b,
		id:        uuid.NewString(),
		collector: diagnostics.NewCollector(),
	}
	r.logger = b.logger.With(logfields.BuildID(r.id))
	r.result = &Result{BuildID: r.id, StartTime: start}

	err := r.execute(ctx)

	r.result.EndTime = time.Now()
	r.result.Duration = r.result.EndTime.Sub(start)
	r.result.Diagnostics = r.collector.List()
	r.result.Status = r.status(err)

	diagnostics.Log(r.logger, r.result.Diagnostics)
	for _, sev := range []ferrors.ErrorSeverity{ferrors.SeverityInfo, ferrors.SeverityWarning, ferrors.SeverityError} {
		r.recorder.AddDiagnostics(string(sev), r.collector.Count(sev))
	}
	r.recorder.ObserveBuildDuration(r.result.Duration)
	r.recorder.IncBuildOutcome(outcomeFor(r.result.Status))

	if err != nil {
		r.logger.Error("Build failed", logfields.Error(err),
			logfields.DurationMS(float64(r.result.Duration.Milliseconds())))
		return r.result, err
	}
	r.logger.Info("Build completed",
		slog.String("status", string(r.result.Status)),
		slog.Int("pages", r.result.Pages),
		slog.Int("published", r.result.Published),
		slog.Int("artifacts", len(r.result.Artifacts)),
		slog.Int("diagnostics", len(r.result.Diagnostics)),
		logfields.DurationMS(float64(r.result.Duration.Milliseconds())))
	return r.result, nil
}

func (r *run) execute(ctx context.Context) error {
	if r.cfg == nil {
		return ferrors.WrapError(ErrNoConfig, ferrors.CategoryConfig, "config required").Fatal().Build()
	}

	// Plugin construction fails fast, before any page is read.
	pipeline, err := r.registry.Instantiate(r.cfg.Plugins)
	if err != nil {
		r.collector.Report(diagnostics.Diagnostic{
			Stage:    diagnostics.StageConfig,
			Severity: ferrors.SeverityFatal,
			Message:  "plugin construction failed",
			Err:      err,
		})
		return err
	}
	r.logger.Info("Starting build",
		logfields.Path(r.opts.ContentDir),
		slog.Int("transformers", len(pipeline.Transformers)),
		slog.Int("filters", len(pipeline.Filters)),
		slog.Int("emitters", len(pipeline.Emitters)),
		logfields.Workers(r.opts.Workers))

	stageStart := time.Now()
	files, err := discovery.New(r.opts.ContentDir, discovery.Options{
		IgnorePatterns: r.cfg.Configuration.IgnorePatterns,
		HTMLPages:      r.opts.HTMLPages,
	}, r.logger).Discover()
	r.recorder.ObserveStageDuration(string(diagnostics.StageDiscovery), time.Since(stageStart))
	if err != nil {
		r.recorder.IncStageResult(string(diagnostics.StageDiscovery), metrics.ResultFatal)
		return ferrors.WrapError(fmt.Errorf("%w: %w", ErrDiscovery, err), ferrors.CategoryDiscovery, "content discovery failed").
			Fatal().
			WithContext("content_dir", r.opts.ContentDir).
			Build()
	}
	r.recorder.IncStageResult(string(diagnostics.StageDiscovery), metrics.ResultSuccess)

	pageFiles := discovery.Pages(files)
	assets := discovery.Assets(files)
	r.result.Pages = len(pageFiles)
	r.result.Assets = len(assets)

	pc := plugin.NewContext(ctx, r.logger, r.cfg, r.collector)
	pc.ContentDir = r.opts.ContentDir
	pc.OutputDir = r.opts.OutputDir
	pc.BuildID = r.id
	pc.Slugs = slugsOf(pageFiles)
	pc.Assets = assets

	stageStart = time.Now()
	survivors, err := r.transformAndFilter(ctx, pc, pipeline, pageFiles)
	r.recorder.ObserveStageDuration(string(diagnostics.StageTransform), time.Since(stageStart))
	r.result.ContentHash = contentHash(files, pageFiles)
	if err != nil {
		r.recorder.IncStageResult(string(diagnostics.StageTransform), metrics.ResultCanceled)
		return err
	}
	r.recorder.IncStageResult(string(diagnostics.StageTransform), stageResult(r.result.Failed > 0))
	r.recorder.AddPages(metrics.PageKept, r.result.Published)
	r.recorder.AddPages(metrics.PageDropped, r.result.Dropped)
	r.recorder.AddPages(metrics.PageFailed, r.result.Failed)

	// Barrier: emitters only ever see frozen pages.
	for _, p := range survivors {
		p.Freeze()
	}

	stageStart = time.Now()
	outputs, err := r.emit(ctx, pc, pipeline.Emitters, survivors)
	r.recorder.ObserveStageDuration(string(diagnostics.StageEmit), time.Since(stageStart))
	if err != nil {
		r.recorder.IncStageResult(string(diagnostics.StageEmit), metrics.ResultCanceled)
		return err
	}

	if err := checkConflicts(outputs); err != nil {
		r.recorder.IncStageResult(string(diagnostics.StageEmit), metrics.ResultFatal)
		r.collector.Report(diagnostics.Diagnostic{
			Stage:    diagnostics.StageEmit,
			Severity: ferrors.SeverityFatal,
			Message:  "duplicate artifact paths",
			Err:      err,
		})
		return err
	}
	r.recorder.IncStageResult(string(diagnostics.StageEmit), stageResult(r.collector.Count(ferrors.SeverityError) > 0))

	slices.SortFunc(outputs, func(a, b output) int { return strings.Compare(a.artifact.Path, b.artifact.Path) })

	stageStart = time.Now()
	infos, err := r.write(ctx, outputs)
	r.recorder.ObserveStageDuration(string(diagnostics.StageWrite), time.Since(stageStart))
	r.result.Artifacts = infos
	if err != nil {
		r.recorder.IncStageResult(string(diagnostics.StageWrite), metrics.ResultFatal)
		return err
	}
	r.recorder.IncStageResult(string(diagnostics.StageWrite), metrics.ResultSuccess)
	return nil
}

func (r *run) status(err error) Status {
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		return StatusCanceled
	case err != nil:
		return StatusFailed
	case r.collector.Count(ferrors.SeverityWarning) > 0 || r.collector.Count(ferrors.SeverityError) > 0:
		return StatusWarning
	default:
		return StatusSuccess
	}
}

func outcomeFor(s Status) metrics.BuildOutcome {
	switch s {
	case StatusSuccess:
		return metrics.OutcomeSuccess
	case StatusWarning:
		return metrics.OutcomeWarning
	case StatusCanceled:
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFailed
	}
}

func stageResult(hadErrors bool) metrics.ResultLabel {
	if hadErrors {
		return metrics.ResultWarning
	}
	return metrics.ResultSuccess
}

// contentHash hashes the loaded pages together with the asset entries.
func contentHash(files, loadedPages []discovery.File) string {
	inputs := slices.Clone(loadedPages)
	for _, f := range files {
		if !f.IsPage {
			inputs = append(inputs, f)
		}
	}
	return discovery.ComputeHash(inputs)
}

// slugsOf returns the sorted slugs of the discovered pages. The list is
// known before any transformer runs so link resolution never depends on
// worker scheduling.
func slugsOf(files []discovery.File) []string {
	slugs := make([]string, 0, len(files))
	for _, f := range files {
		slugs = append(slugs, page.Slugify(f.RelativePath))
	}
	slices.Sort(slugs)
	return slices.Compact(slugs)
}

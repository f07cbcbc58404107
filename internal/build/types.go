package build

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegarden/internal/diagnostics"
	"git.home.luguber.info/inful/sitegarden/internal/metrics"
)

// Options tune one build.
type Options struct {
	// ContentDir is the directory pages and assets are discovered in.
	ContentDir string

	// OutputDir is the root artifacts are written below.
	OutputDir string

	// Workers bounds the transform/filter pool (0 = number of CPUs).
	Workers int

	// Clean removes the output directory before writing.
	Clean bool

	// HTMLPages treats .html files in the content directory as pages.
	HTMLPages bool

	// DryRun runs every stage but writes nothing.
	DryRun bool

	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// Status represents the outcome of a build.
type Status string

const (
	// StatusSuccess indicates the build completed without warnings.
	StatusSuccess Status = "success"

	// StatusWarning indicates the build completed but reported diagnostics.
	StatusWarning Status = "warning"

	// StatusFailed indicates the build aborted.
	StatusFailed Status = "failed"

	// StatusCanceled indicates the build was canceled.
	StatusCanceled Status = "canceled"
)

// IsSuccess returns true if the build produced output.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess || s == StatusWarning
}

// ArtifactInfo describes one written (or, in a dry run, planned) artifact.
type ArtifactInfo struct {
	Path    string
	Emitter string
	Size    int64
}

// Result contains the outcome of a build.
type Result struct {
	BuildID string
	Status  Status

	// ContentHash identifies the discovered inputs; equal hashes mean equal
	// inputs.
	ContentHash string

	// Pages is the number of discovered pages. Published, Dropped and
	// Failed partition it.
	Pages     int
	Published int
	Dropped   int
	Failed    int
	Assets    int

	// Artifacts are sorted by path.
	Artifacts []ArtifactInfo

	// Diagnostics are sorted by stage, page path, plugin position and
	// message.
	Diagnostics []diagnostics.Diagnostic

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// TotalBytes sums the artifact sizes.
func (r *Result) TotalBytes() int64 {
	var n int64
	for _, a := range r.Artifacts {
		n += a.Size
	}
	return n
}

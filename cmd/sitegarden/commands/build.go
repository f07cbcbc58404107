package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegarden/internal/build"
	"git.home.luguber.info/inful/sitegarden/internal/config"
	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegarden/internal/metrics"
	"git.home.luguber.info/inful/sitegarden/internal/plugin/builtin"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Content         string `short:"d" help:"Content directory" default:"content" type:"path"`
	Output          string `short:"o" help:"Output directory for the generated site" default:"public" type:"path"`
	Workers         int    `short:"w" help:"Transform workers (0 = number of CPUs)" default:"0"`
	Clean           bool   `help:"Remove the output directory before writing"`
	HTMLPages       bool   `name:"html-pages" help:"Convert .html files in the content directory into pages"`
	DryRun          bool   `name:"dry-run" help:"Run every stage but write nothing"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics in text format to this file" type:"path"`
	Strict          bool   `help:"Fail when the build reports any warning"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reg *prom.Registry
	opts := build.Options{
		ContentDir: b.Content,
		OutputDir:  b.Output,
		Workers:    b.Workers,
		Clean:      b.Clean,
		HTMLPages:  b.HTMLPages,
		DryRun:     b.DryRun,
		Logger:     g.Logger,
	}
	if b.MetricsTextfile != "" {
		reg = prom.NewRegistry()
		opts.Recorder = metrics.NewPrometheusRecorder(reg)
	}

	res, buildErr := build.New(cfg, builtin.Registry(), opts).Build(ctx)
	if buildErr == nil {
		printSummary(os.Stdout, res)
	}
	if reg != nil {
		if err := prom.WriteToTextfile(b.MetricsTextfile, reg); err != nil {
			g.Logger.Warn("Failed to write metrics textfile", "path", b.MetricsTextfile, "error", err)
		}
	}
	if buildErr != nil {
		return buildErr
	}
	return strictCheck(b.Strict, res)
}

// strictCheck fails a completed build that reported diagnostics.
func strictCheck(strict bool, res *build.Result) error {
	if !strict || res.Status != build.StatusWarning {
		return nil
	}
	return ferrors.ValidationError("build reported diagnostics in strict mode").
		WithContext("diagnostics", len(res.Diagnostics)).
		Build()
}

// printSummary renders artifact counts and sizes per emitter.
func printSummary(w io.Writer, res *build.Result) {
	type row struct {
		count int
		size  int64
	}
	perEmitter := map[string]*row{}
	var order []string
	for _, a := range res.Artifacts {
		r, ok := perEmitter[a.Emitter]
		if !ok {
			r = &row{}
			perEmitter[a.Emitter] = r
			order = append(order, a.Emitter)
		}
		r.count++
		r.size += a.Size
	}
	slices.Sort(order)

	t := newTable(w, 2, 3)
	t.AppendHeader(table.Row{"Emitter", "Artifacts", "Size"})
	for _, name := range order {
		r := perEmitter[name]
		t.AppendRow(table.Row{name, humanize.Comma(int64(r.count)), humanize.Bytes(uint64(r.size))})
	}
	t.AppendFooter(table.Row{"Total", humanize.Comma(int64(len(res.Artifacts))), humanize.Bytes(uint64(res.TotalBytes()))})
	t.Render()

	_, _ = fmt.Fprintf(w, "%s: %d of %d pages published (%d dropped, %d failed), %d diagnostics in %s\n",
		res.Status, res.Published, res.Pages, res.Dropped, res.Failed, len(res.Diagnostics), res.Duration.Round(time.Millisecond))
}

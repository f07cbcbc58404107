package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegarden/internal/build"
	"git.home.luguber.info/inful/sitegarden/internal/config"
	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegarden/internal/metrics"
	"git.home.luguber.info/inful/sitegarden/internal/plugin/builtin"
	"git.home.luguber.info/inful/sitegarden/internal/server"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Content   string `short:"d" help:"Content directory" default:"content" type:"path"`
	Output    string `short:"o" help:"Output directory for the generated site" default:"public" type:"path"`
	Addr      string `short:"a" help:"Listen address" default:"localhost:8080"`
	Workers   int    `short:"w" help:"Transform workers (0 = number of CPUs)" default:"0"`
	HTMLPages bool   `name:"html-pages" help:"Convert .html files in the content directory into pages"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prom.NewRegistry()
	res, err := build.New(cfg, builtin.Registry(), build.Options{
		ContentDir: s.Content,
		OutputDir:  s.Output,
		Workers:    s.Workers,
		Clean:      true,
		HTMLPages:  s.HTMLPages,
		Logger:     g.Logger,
		Recorder:   metrics.NewPrometheusRecorder(reg),
	}).Build(ctx)
	if err != nil {
		return err
	}
	printSummary(os.Stdout, res)

	srv := server.NewServer(s.Addr, s.Output, reg, g.Logger)
	srv.SetResult(res)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "server failed").WithContext("addr", s.Addr).Build()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

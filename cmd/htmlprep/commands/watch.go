package commands

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlprep/internal/htmlprep"
	"git.home.luguber.info/inful/htmlprep/internal/logfields"
	"git.home.luguber.info/inful/htmlprep/internal/metrics"
	"git.home.luguber.info/inful/htmlprep/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Overrides `embed:""`

	Source      string        `arg:"" type:"existingdir" help:"Source directory"`
	Output      string        `short:"o" name:"output" type:"path" required:"" help:"Output directory"`
	Charset     string        `name:"charset" help:"Input character encoding (WHATWG label)"`
	Minify      bool          `name:"minify" help:"Minify the transformed output"`
	Debounce    time.Duration `name:"debounce" default:"200ms" help:"Quiet period before re-running"`
	Resync      time.Duration `name:"resync" help:"Re-run every file at this interval (0 disables)"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	opts, err := loadOptions(root, w.Overrides)
	if err != nil {
		return err
	}

	reg := prom.NewRegistry()
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if w.MetricsAddr != "" {
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	t, err := htmlprep.New(opts, htmlprep.WithLogger(g.Logger), htmlprep.WithRecorder(recorder))
	if err != nil {
		return err
	}
	p, err := newProcessor(t, g.Logger, processorConfig{
		SrcRoot: w.Source,
		OutDir:  w.Output,
		Charset: w.Charset,
		Minify:  w.Minify,
	})
	if err != nil {
		return err
	}

	outAbs, err := filepath.Abs(w.Output)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve output directory").Build()
	}
	handler := func(ctx context.Context, paths []string) error {
		for _, path := range paths {
			if err := p.file(ctx, path); err != nil {
				g.Logger.Error("Transformation failed", logfields.File(path), logfields.Error(err))
			}
		}
		return nil
	}
	watcher, err := watch.New(w.Source, handler,
		watch.WithDebounce(w.Debounce),
		watch.WithResync(w.Resync),
		watch.WithLogger(g.Logger),
		watch.WithMatcher(func(path string) bool {
			rel, err := filepath.Rel(outAbs, path)
			inOutput := err == nil && filepath.IsLocal(rel)
			return watch.IsHTML(path) && !inOutput
		}))
	if err != nil {
		return err
	}

	files, err := watcher.Files()
	if err != nil {
		_ = watcher.Close()
		return err
	}
	if err := handler(g.Context, files); err != nil {
		return err
	}
	g.Logger.Info("Initial run complete", logfields.Matches(len(files)))

	if w.MetricsAddr != "" {
		stop, err := serveMetrics(g, w.MetricsAddr, reg)
		if err != nil {
			_ = watcher.Close()
			return err
		}
		defer stop()
	}

	return watcher.Run(g.Context)
}

func serveMetrics(g *Global, addr string, reg *prom.Registry) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to listen for metrics").
			WithContext("addr", addr).
			Build()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.Logger.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	g.Logger.Info("Serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

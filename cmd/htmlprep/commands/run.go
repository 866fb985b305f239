package commands

import (
	"bytes"
	"io"
	"os"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlprep/internal/htmlprep"
	"git.home.luguber.info/inful/htmlprep/internal/logfields"
	"git.home.luguber.info/inful/htmlprep/internal/metrics"
	"git.home.luguber.info/inful/htmlprep/internal/observability"
)

// RunCmd implements the 'run' command.
type RunCmd struct {
	Overrides `embed:""`

	Files       []string `arg:"" optional:"" type:"path" help:"HTML files or directories; stdin when omitted"`
	Output      string   `short:"o" name:"output" type:"path" help:"Output directory; stdout when omitted"`
	SrcRoot     string   `name:"src-root" type:"path" default:"." help:"Root that output paths are mirrored from"`
	Charset     string   `name:"charset" help:"Input character encoding (WHATWG label)"`
	Minify      bool     `name:"minify" help:"Minify the transformed output"`
	MetricsFile string   `name:"metrics-file" type:"path" help:"Write Prometheus metrics to this textfile after the run"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	opts, err := loadOptions(root, r.Overrides)
	if err != nil {
		return err
	}

	reg := prom.NewRegistry()
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if r.MetricsFile != "" {
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	t, err := htmlprep.New(opts, htmlprep.WithLogger(g.Logger), htmlprep.WithRecorder(recorder))
	if err != nil {
		return err
	}
	p, err := newProcessor(t, g.Logger, processorConfig{
		SrcRoot: r.SrcRoot,
		OutDir:  r.Output,
		Charset: r.Charset,
		Minify:  r.Minify,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	if err := r.process(g, p); err != nil {
		return err
	}

	if r.MetricsFile != "" {
		if err := metrics.WriteTextfile(r.MetricsFile, reg); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write metrics file").
				WithContext("path", r.MetricsFile).
				Build()
		}
	}
	g.Logger.Debug("Run complete", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

func (r *RunCmd) process(g *Global, p *processor) error {
	if len(r.Files) == 0 {
		return writeAll(os.Stdout, func(w io.Writer) error {
			return p.stream(g.Context, os.Stdin, w)
		})
	}

	files, err := collect(r.Files)
	if err != nil {
		return err
	}
	if r.Output == "" {
		return writeAll(os.Stdout, func(w io.Writer) error {
			for _, f := range files {
				if err := streamFile(g, p, f, w); err != nil {
					return err
				}
			}
			return nil
		})
	}

	for _, f := range files {
		if err := p.file(g.Context, f); err != nil {
			return err
		}
	}
	g.Logger.Info("Transformed documents", logfields.Matches(len(files)), logfields.File(r.Output))
	return nil
}

// writeAll buffers everything fn produces and writes it to dst only when fn
// succeeds.
func writeAll(dst io.Writer, fn func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	if _, err := buf.WriteTo(dst); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").Build()
	}
	return nil
}

func streamFile(g *Global, p *processor, path string, w io.Writer) error {
	in, err := os.Open(path)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to open input").
			WithContext("path", path).
			Build()
	}
	defer func() { _ = in.Close() }()
	return p.stream(observability.WithDocument(g.Context, path), in, w)
}

package commands

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tdewolff/minify/v2"
	mcss "github.com/tdewolff/minify/v2/css"
	mhtml "github.com/tdewolff/minify/v2/html"
	mjs "github.com/tdewolff/minify/v2/js"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"git.home.luguber.info/inful/htmlprep/internal/emit"
	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlprep/internal/htmlprep"
	"git.home.luguber.info/inful/htmlprep/internal/logfields"
	"git.home.luguber.info/inful/htmlprep/internal/observability"
	"git.home.luguber.info/inful/htmlprep/internal/watch"
)

// processor runs the transformer over files, handling input decoding and
// output minification.
type processor struct {
	t        *htmlprep.Transformer
	logger   *slog.Logger
	srcRoot  string
	outDir   string
	decoding encoding.Encoding
	minifier *minify.M
}

type processorConfig struct {
	SrcRoot string
	OutDir  string
	Charset string
	Minify  bool
}

func newProcessor(t *htmlprep.Transformer, logger *slog.Logger, cfg processorConfig) (*processor, error) {
	p := &processor{t: t, logger: logger, srcRoot: cfg.SrcRoot, outDir: cfg.OutDir}
	if cfg.Charset != "" {
		enc, err := htmlindex.Get(cfg.Charset)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "unknown input charset").
				WithContext("charset", cfg.Charset).
				Build()
		}
		p.decoding = enc
	}
	if cfg.Minify {
		m := minify.New()
		m.AddFunc("text/html", mhtml.Minify)
		m.AddFunc("text/css", mcss.Minify)
		m.AddFunc("application/javascript", mjs.Minify)
		p.minifier = m
	}
	return p, nil
}

// stream transforms one document from r to w.
func (p *processor) stream(ctx context.Context, r io.Reader, w io.Writer) error {
	if p.decoding != nil {
		r = p.decoding.NewDecoder().Reader(r)
	}
	if p.minifier == nil {
		return p.t.Transform(ctx, r, emit.NewWriterSink(w))
	}

	var buf bytes.Buffer
	if err := p.t.Transform(ctx, r, emit.NewWriterSink(&buf)); err != nil {
		return err
	}
	if err := p.minifier.Minify("text/html", w, &buf); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to minify output").Build()
	}
	return nil
}

// file transforms src into the mirrored path below the output directory.
func (p *processor) file(ctx context.Context, src string) error {
	dst := p.destination(src)
	ctx = observability.WithDocument(ctx, src)

	in, err := os.Open(src)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to open input").
			WithContext("path", src).
			Build()
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", dst).
			Build()
	}
	// Output is staged next to dst so a failed run never leaves a partial file.
	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output").
			WithContext("path", dst).
			Build()
	}
	tmp := out.Name()

	w := bufio.NewWriter(out)
	err = p.stream(ctx, in, w)
	if err == nil {
		err = w.Flush()
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0o644)
	}
	if err == nil {
		err = os.Rename(tmp, dst)
	}
	if err != nil {
		_ = os.Remove(tmp)
		if _, ok := errors.AsClassified(err); !ok {
			err = errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
				WithContext("path", dst).
				Build()
		}
		return err
	}
	p.logger.Debug("Transformed document", logfields.File(src), slog.String("output", dst))
	return nil
}

// destination mirrors src below the output directory, relative to the
// source root when src lies inside it.
func (p *processor) destination(src string) string {
	rel, err := filepath.Rel(p.srcRoot, src)
	if err != nil || !filepath.IsLocal(rel) {
		rel = filepath.Base(src)
	}
	return filepath.Join(p.outDir, rel)
}

// collect expands directory arguments into the HTML files below them.
func collect(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "input not found").
				WithContext("path", arg).
				Build()
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && watch.IsHTML(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to scan input directory").
				WithContext("path", arg).
				Build()
		}
	}
	return files, nil
}

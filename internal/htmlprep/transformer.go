// Package htmlprep ties the tokenizer, match machine, rewrite pipeline,
// glob expander and emitter into a single streaming transformation.
//
// A Transformer is immutable after New and may serve concurrent Transform
// calls; every call gets its own match state and emitter.
package htmlprep

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/htmlprep/internal/config"
	"git.home.luguber.info/inful/htmlprep/internal/emit"
	"git.home.luguber.info/inful/htmlprep/internal/expand"
	"git.home.luguber.info/inful/htmlprep/internal/logfields"
	"git.home.luguber.info/inful/htmlprep/internal/metrics"
	"git.home.luguber.info/inful/htmlprep/internal/observability"
	"git.home.luguber.info/inful/htmlprep/internal/rewrite"
	"git.home.luguber.info/inful/htmlprep/internal/tokenizer"
)

// Transformer applies one configuration to any number of documents.
type Transformer struct {
	opts     *config.Options
	logger   *slog.Logger
	recorder metrics.Recorder
	pipeline *rewrite.Pipeline
	expander *expand.Expander
	fsys     fs.FS
	newRunID func() string
}

// Option customizes a Transformer.
type Option func(*Transformer)

// WithLogger sets the base logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Transformer) { t.logger = l }
}

// WithRecorder sets the metrics recorder. Defaults to metrics.NoopRecorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(t *Transformer) { t.recorder = r }
}

// WithFS resolves expansion globs against fsys instead of the configured cwd.
func WithFS(fsys fs.FS) Option {
	return func(t *Transformer) { t.fsys = fsys }
}

// New validates a copy of opts and returns a Transformer. Nil opts means
// all defaults.
func New(opts *config.Options, options ...Option) (*Transformer, error) {
	if opts == nil {
		opts = &config.Options{}
	}
	opts = opts.Clone()
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	t := &Transformer{
		opts:     opts,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		newRunID: func() string { return uuid.NewString() },
	}
	for _, o := range options {
		o(t)
	}

	t.pipeline = rewrite.NewPipeline(opts)
	if t.fsys != nil {
		t.expander = expand.NewFS(t.fsys, opts.Namespace(), opts.NoNull())
	} else {
		t.expander = expand.New(opts.Cwd, opts.Namespace(), opts.NoNull())
	}
	return t, nil
}

// Options returns a copy of the effective options.
func (t *Transformer) Options() *config.Options {
	return t.opts.Clone()
}

// Transform reads a document from r and pushes the transformed output to
// sink. Output already pushed when an error occurs is not retracted.
func (t *Transformer) Transform(ctx context.Context, r io.Reader, sink emit.Sink) error {
	runID := t.newRunID()
	ctx = observability.WithRunID(ctx, runID)
	logger := observability.Logger(ctx, t.logger)
	start := time.Now()

	ru := newRun(t, logger, sink)
	err := tokenizer.Drive(ctx, r, ru, tokenizer.Options{DecodeEntities: t.opts.DecodeEntities})

	elapsed := time.Since(start)
	t.recorder.ObserveRunDuration(elapsed, outcomeOf(err))
	t.recorder.IncInjectedBlocks(ru.emitter.Injected())
	t.recorder.IncRewrittenAttributes(ru.rewritten)

	if err != nil {
		logger.Debug("Transformation failed", logfields.Error(err))
		return err
	}
	logger.Debug("Transformation complete",
		logfields.DurationMS(float64(elapsed.Microseconds())/1000),
		slog.Int("rewritten", ru.rewritten),
		slog.Int("injected", ru.emitter.Injected()))
	return nil
}

// TransformString transforms a document held in memory.
func (t *Transformer) TransformString(ctx context.Context, s string) (string, error) {
	sink := &emit.StringSink{}
	if err := t.Transform(ctx, strings.NewReader(s), sink); err != nil {
		return "", err
	}
	return sink.String(), nil
}

func outcomeOf(err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFailed
	}
}

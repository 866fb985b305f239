package htmlprep

import (
	"log/slog"

	"git.home.luguber.info/inful/htmlprep/internal/emit"
	"git.home.luguber.info/inful/htmlprep/internal/logfields"
	"git.home.luguber.info/inful/htmlprep/internal/markup"
	"git.home.luguber.info/inful/htmlprep/internal/match"
)

// run holds the state of a single transformation and receives tokenizer
// events.
type run struct {
	t       *Transformer
	logger  *slog.Logger
	machine *match.Machine
	emitter *emit.Emitter

	// current is the name of the most recently emitted open tag, cleared by
	// any close tag.
	current   string
	rewritten int
}

func newRun(t *Transformer, logger *slog.Logger, sink emit.Sink) *run {
	r := &run{
		t:       t,
		logger:  logger,
		machine: match.New(t.opts.Namespace(), t.opts.BuildType, logger),
		emitter: emit.New(sink, emit.Settings{
			Inject:         t.opts.Inject,
			LiveReload:     t.opts.LiveReload,
			LiveReloadPort: t.opts.LiveReloadPort,
			DecodeEntities: t.opts.DecodeEntities,
		}),
	}
	r.machine.OnSuppressed(func(c match.Context) {
		if c.Reason != "" {
			t.recorder.IncSuppressedBlocks(string(c.Reason))
		}
	})
	return r
}

func (r *run) OpenTag(tag markup.Tag) error {
	tag.Attrs.TrimValues()

	decision, block := r.machine.OnOpenTag(&tag)
	switch decision {
	case match.Suppress:
		return nil
	case match.PlaceholderReplace:
		r.current = tag.Name
		if err := r.emitter.OpenTag(tag); err != nil {
			return err
		}
		if _, ok := r.t.opts.Inject[block]; !ok {
			r.logger.Debug("No inject block for placeholder", logfields.Block(block))
		}
		return r.emitter.Block(block)
	}

	expanded, err := r.expand(tag)
	if err != nil || expanded {
		return err
	}

	r.rewritten += r.t.pipeline.Apply(&tag)
	r.current = tag.Name
	return r.emitter.OpenTag(tag)
}

// expand replaces a glob-carrying script or link with one element per
// match. The original script's content and close tag are swallowed.
func (r *run) expand(tag markup.Tag) (bool, error) {
	tags, ok, err := r.t.expander.Expand(tag)
	if !ok || err != nil {
		return ok, err
	}

	r.t.recorder.ObserveExpansion(tag.Name, len(tags))
	r.logger.Debug("Expanded glob", logfields.Tag(tag.Name), logfields.Matches(len(tags)))

	for _, et := range tags {
		r.rewritten += r.t.pipeline.Apply(&et)
		if err := r.emitter.Element(et); err != nil {
			return true, err
		}
	}
	if tag.Name == "script" {
		r.machine.SuppressCurrent(tag.Name)
	}
	return true, nil
}

func (r *run) CloseTag(name string) error {
	r.current = ""
	if r.machine.OnCloseTag(name) == match.Swallow {
		return nil
	}
	return r.emitter.CloseTag(name)
}

func (r *run) Text(text string) error {
	if r.machine.Suppressing() {
		return nil
	}
	return r.emitter.Text(r.current, r.t.pipeline.Text(r.current, text))
}

func (r *run) Comment(raw string) error {
	if r.machine.Suppressing() {
		return nil
	}
	return r.emitter.Raw(raw)
}

func (r *run) Directive(raw string) error {
	if r.machine.Suppressing() {
		return nil
	}
	return r.emitter.Raw(raw)
}

func (r *run) End() error {
	if ctx, ok := r.machine.Live(); ok && ctx.Suppress {
		r.logger.Debug("Document ended inside suppressed element",
			logfields.Tag(ctx.Name),
			logfields.Depth(ctx.Depth))
	}
	return nil
}

// Package match tracks which part of the document is being suppressed.
//
// At most one match context is live at a time. A context remembers the tag
// name that opened it and counts same-named tags so that the matching close
// tag ends it. A suppressing context hides every event until it ends.
package match

import (
	"log/slog"

	"git.home.luguber.info/inful/htmlprep/internal/logfields"
	"git.home.luguber.info/inful/htmlprep/internal/markup"
)

// Decision is the outcome of an open tag.
type Decision int

const (
	// PassThrough emits the tag after rewriting.
	PassThrough Decision = iota
	// Suppress drops the tag and everything it contains.
	Suppress
	// PlaceholderReplace emits the tag followed by an injected block.
	PlaceholderReplace
)

func (d Decision) String() string {
	switch d {
	case Suppress:
		return "suppress"
	case PlaceholderReplace:
		return "placeholder"
	default:
		return "pass"
	}
}

// CloseDecision is the outcome of a close tag.
type CloseDecision int

const (
	Emit CloseDecision = iota
	Swallow
)

// Context is the live match context.
type Context struct {
	Name     string
	Depth    int
	Suppress bool
	// Reason is the directive that opened the context.
	Reason markup.Directive
	opener uint64
}

// Machine applies the build, strip and placeholder directives to a stream of
// open and close tags. It is not safe for concurrent use.
type Machine struct {
	ns        markup.Namespace
	buildType string
	logger    *slog.Logger

	ctx  *Context
	seq  uint64
	done func(Context)
}

// New returns a machine for the given namespace and build type.
func New(ns markup.Namespace, buildType string, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{ns: ns, buildType: buildType, logger: logger}
}

// OnSuppressed registers a callback run when a suppressing context ends.
func (m *Machine) OnSuppressed(fn func(Context)) {
	m.done = fn
}

// Suppressing reports whether events are currently hidden.
func (m *Machine) Suppressing() bool {
	return m.ctx != nil && m.ctx.Suppress
}

// Live returns the current context, if any.
func (m *Machine) Live() (Context, bool) {
	if m.ctx == nil {
		return Context{}, false
	}
	return *m.ctx, true
}

// OnOpenTag decides what happens to tag and removes the directive attributes
// it consumed. For PlaceholderReplace it also returns the block name.
// A build or strip trigger outside a suppressed subtree replaces any live
// pass-through context, whatever its name.
func (m *Machine) OnOpenTag(tag *markup.Tag) (Decision, string) {
	m.seq++

	if m.ctx != nil && tag.Name == m.ctx.Name {
		m.ctx.Depth++
	}
	if m.Suppressing() {
		return Suppress, ""
	}

	strip := m.ns.Name(markup.DirStrip)
	if tag.Attrs.Has(strip) {
		m.begin(tag.Name, true, markup.DirStrip)
		return Suppress, ""
	}

	build := m.ns.Name(markup.DirBuild)
	if v, ok := tag.Attrs.Lookup(build); ok {
		tag.Attrs.Remove(build)
		if v != "" {
			suppress := v != m.buildType
			m.begin(tag.Name, suppress, markup.DirBuild)
			if suppress {
				m.logger.Debug("Suppressing build block",
					logfields.Tag(tag.Name),
					logfields.BuildType(v))
				return Suppress, ""
			}
		}
	}

	placeholder := m.ns.Name(markup.DirPlaceholder)
	if name, ok := tag.Attrs.Lookup(placeholder); ok {
		tag.Attrs.Remove(placeholder)
		if name != "" {
			return PlaceholderReplace, name
		}
	}
	return PassThrough, ""
}

// SuppressCurrent hides the content and close tag of the tag just opened.
// If that tag opened the live context, the context turns suppressing.
func (m *Machine) SuppressCurrent(name string) {
	if m.ctx != nil && m.ctx.opener == m.seq && m.ctx.Name == name {
		m.ctx.Suppress = true
		return
	}
	m.begin(name, true, "")
}

// OnCloseTag updates the live context and reports whether the close tag is
// emitted.
func (m *Machine) OnCloseTag(name string) CloseDecision {
	if m.ctx == nil {
		return Emit
	}
	ctx := m.ctx
	if name == ctx.Name {
		ctx.Depth--
		if ctx.Depth <= 0 {
			m.ctx = nil
			if ctx.Suppress && m.done != nil {
				m.done(*ctx)
			}
		}
	}
	if ctx.Suppress {
		return Swallow
	}
	return Emit
}

func (m *Machine) begin(name string, suppress bool, reason markup.Directive) {
	if m.ctx != nil {
		m.logger.Debug("Replacing match context",
			logfields.Tag(m.ctx.Name),
			logfields.Depth(m.ctx.Depth),
			slog.String("directive", string(reason)))
	}
	m.ctx = &Context{Name: name, Depth: 1, Suppress: suppress, Reason: reason, opener: m.seq}
}

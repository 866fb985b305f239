// Package emit serializes transformer output into a Sink.
package emit

import (
	"strconv"

	"git.home.luguber.info/inful/htmlprep/internal/markup"
)

// Emitter renders tags and text. Singleton elements are written self-closed
// and their close tags are dropped. The closing </head> and </body> tags are
// preceded by the "head" and "body" inject blocks, and </body> additionally
// by the live reload script when enabled.
type Emitter struct {
	sink   Sink
	inject map[string]string
	reload string
	esc    markup.Escaper
	decode bool

	injected int
}

// Settings configures an Emitter.
type Settings struct {
	Inject         map[string]string
	LiveReload     bool
	LiveReloadPort int
	DecodeEntities bool
}

// New returns an emitter writing to sink.
func New(sink Sink, s Settings) *Emitter {
	e := &Emitter{sink: sink, inject: s.Inject, esc: markup.RawEscaper, decode: s.DecodeEntities}
	if s.DecodeEntities {
		e.esc = markup.EntityEscaper
	}
	if s.LiveReload {
		e.reload = LiveReloadScript(s.LiveReloadPort)
	}
	return e
}

// LiveReloadScript returns the script tag loading the live reload client.
func LiveReloadScript(port int) string {
	return `<script src="//localhost:` + strconv.Itoa(port) + `/livereload.js"></script>`
}

// OpenTag writes the start tag.
func (e *Emitter) OpenTag(tag markup.Tag) error {
	return e.sink.Push(tag.Render(e.esc))
}

// CloseTag writes </name>, with any injections due before it.
func (e *Emitter) CloseTag(name string) error {
	if markup.IsSingleton(name) {
		return nil
	}
	switch name {
	case "head":
		if err := e.Block("head"); err != nil {
			return err
		}
	case "body":
		if err := e.Block("body"); err != nil {
			return err
		}
		if e.reload != "" {
			if err := e.sink.Push(e.reload); err != nil {
				return err
			}
		}
	}
	return e.sink.Push(markup.CloseTag(name))
}

// Element writes a complete element: the start tag and, unless it is a
// singleton, an immediate close tag.
func (e *Emitter) Element(tag markup.Tag) error {
	if err := e.OpenTag(tag); err != nil {
		return err
	}
	if markup.IsSingleton(tag.Name) {
		return nil
	}
	return e.sink.Push(markup.CloseTag(tag.Name))
}

// Text writes character data. Decoded text outside raw text elements is
// escaped again.
func (e *Emitter) Text(parent, text string) error {
	if e.decode && !markup.IsRawText(parent) {
		text = markup.EscapeText(text)
	}
	return e.sink.Push(text)
}

// Raw writes a fragment unchanged.
func (e *Emitter) Raw(fragment string) error {
	return e.sink.Push(fragment)
}

// Block writes the named inject block. Unknown names write nothing.
func (e *Emitter) Block(name string) error {
	html, ok := e.inject[name]
	if !ok || html == "" {
		return nil
	}
	e.injected++
	return e.sink.Push(html)
}

// Injected returns how many blocks were written.
func (e *Emitter) Injected() int {
	return e.injected
}

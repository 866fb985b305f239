// Package tokenizer turns an HTML byte stream into ordered markup events.
//
// It is lenient: malformed markup never fails the stream. Only reader errors
// surface, wrapped as markup errors.
package tokenizer

import (
	"context"
	stderrors "errors"
	"io"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlprep/internal/markup"
)

// Listener receives tokenizer events in document order.
type Listener interface {
	OpenTag(tag markup.Tag) error
	CloseTag(name string) error
	Text(text string) error
	Comment(raw string) error
	Directive(raw string) error
	End() error
}

// Options controls attribute and text decoding.
type Options struct {
	// DecodeEntities resolves character references in text and attribute
	// values. When false both are delivered exactly as written.
	DecodeEntities bool
}

// Drive reads r to completion and feeds every event to l. Void and
// self-closing elements are followed by a synthetic close event.
func Drive(ctx context.Context, r io.Reader, l Listener, opts Options) error {
	z := html.NewTokenizer(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !stderrors.Is(err, io.EOF) {
				return errors.WrapError(err, errors.CategoryMarkup, "failed to read markup").Fatal().Build()
			}
			return l.End()

		case html.TextToken:
			// Raw must be copied before Text unescapes the buffer in place.
			text := string(z.Raw())
			if opts.DecodeEntities {
				text = string(z.Text())
			}
			if err := l.Text(text); err != nil {
				return err
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			raw := string(z.Raw())
			name, _ := z.TagName()
			tagName := string(name)
			tag := markup.Tag{Name: tagName, Attrs: scanAttributes(raw, opts.DecodeEntities)}
			if err := l.OpenTag(tag); err != nil {
				return err
			}
			if tt == html.SelfClosingTagToken || markup.IsSingleton(tagName) {
				if err := l.CloseTag(tagName); err != nil {
					return err
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if err := l.CloseTag(string(name)); err != nil {
				return err
			}

		case html.CommentToken:
			if err := l.Comment(string(z.Raw())); err != nil {
				return err
			}

		case html.DoctypeToken:
			if err := l.Directive(string(z.Raw())); err != nil {
				return err
			}
		}
	}
}

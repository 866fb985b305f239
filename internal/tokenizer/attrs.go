package tokenizer

import (
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/htmlprep/internal/markup"
)

// scanAttributes reads attributes from a raw start tag. Names keep their
// source case, valueless attributes become Boolean, and values stay raw
// unless decode is set.
func scanAttributes(raw string, decode bool) markup.Attributes {
	var attrs markup.Attributes
	pos := 0
	if pos < len(raw) && raw[pos] == '<' {
		pos++
	}
	for pos < len(raw) && !isAttrSpace(raw[pos]) && raw[pos] != '>' && raw[pos] != '/' {
		pos++
	}

	for pos < len(raw) {
		for pos < len(raw) && (isAttrSpace(raw[pos]) || raw[pos] == '/') {
			pos++
		}
		if pos >= len(raw) || raw[pos] == '>' {
			break
		}

		nameStart := pos
		// A leading '=' belongs to the name.
		pos++
		for pos < len(raw) && raw[pos] != '=' && !isAttrSpace(raw[pos]) && raw[pos] != '>' && raw[pos] != '/' {
			pos++
		}
		name := raw[nameStart:pos]

		after := pos
		for after < len(raw) && isAttrSpace(raw[after]) {
			after++
		}
		if after >= len(raw) || raw[after] != '=' {
			attrs = append(attrs, markup.Attr{Name: name, Kind: markup.Boolean})
			continue
		}
		pos = after + 1
		for pos < len(raw) && isAttrSpace(raw[pos]) {
			pos++
		}

		var value string
		switch {
		case pos < len(raw) && (raw[pos] == '"' || raw[pos] == '\''):
			quote := raw[pos]
			pos++
			start := pos
			for pos < len(raw) && raw[pos] != quote {
				pos++
			}
			value = raw[start:pos]
			if pos < len(raw) {
				pos++
			}
		default:
			start := pos
			for pos < len(raw) && !isAttrSpace(raw[pos]) && raw[pos] != '>' {
				pos++
			}
			value = raw[start:pos]
		}
		if decode {
			value = html.UnescapeString(value)
		}
		attrs = append(attrs, markup.Attr{Name: name, Kind: markup.Present, Value: value})
	}
	return attrs
}

func isAttrSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

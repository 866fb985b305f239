package rewrite

import (
	"errors"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// CSS rewrites every url(...) reference in a stylesheet fragment through
// AssetPath. Everything else is copied verbatim.
func (p *Pipeline) CSS(s string) string {
	if !strings.Contains(strings.ToLower(s), "url(") {
		return s
	}

	l := css.NewLexer(parse.NewInputString(s))
	var sb strings.Builder
	sb.Grow(len(s))
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return s
			}
			return sb.String()
		case css.URLToken:
			sb.WriteString(p.cssURL(string(data)))
		default:
			sb.Write(data)
		}
	}
}

// cssURL rewrites one url(...) token keeping its quote character.
func (p *Pipeline) cssURL(token string) string {
	if len(token) < 5 {
		return token
	}
	inner := strings.TrimSpace(token[4 : len(token)-1])
	quote := ""
	if n := len(inner); n >= 2 && (inner[0] == '"' || inner[0] == '\'') && inner[n-1] == inner[0] {
		quote = inner[:1]
		inner = inner[1 : n-1]
	}
	return "url(" + quote + p.AssetPath(strings.TrimSpace(inner)) + quote + ")"
}

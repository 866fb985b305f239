package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

// BaseURL substitutes a site base URL for a placeholder. The placeholder is
// matched case-insensitively in plain and query-encoded form. A nil or
// disabled BaseURL leaves every value untouched.
type BaseURL struct {
	placeholder string
	base        string
	plainRe     *regexp.Regexp
	encodedRe   *regexp.Regexp
}

// NewBaseURL returns a substituter, or nil when placeholder is empty.
func NewBaseURL(placeholder, base string) *BaseURL {
	if placeholder == "" {
		return nil
	}
	return &BaseURL{
		placeholder: placeholder,
		base:        strings.TrimRight(base, "/"),
		plainRe:     regexp.MustCompile(`(?i)` + regexp.QuoteMeta(placeholder) + `/*`),
		encodedRe:   regexp.MustCompile(`(?i)` + regexp.QuoteMeta(url.QueryEscape(placeholder)) + `(?:%2F)*`),
	}
}

// Matches reports whether v starts with the placeholder.
func (b *BaseURL) Matches(v string) bool {
	return b != nil && HasPrefixFold(v, b.placeholder)
}

// Strip removes a leading placeholder and reports whether one was present.
func (b *BaseURL) Strip(v string) (string, bool) {
	if !b.Matches(v) {
		return v, false
	}
	return v[len(b.placeholder):], true
}

// Prefixed replaces a leading placeholder with the base URL, keeping one
// slash between them.
func (b *BaseURL) Prefixed(v string) string {
	rest, ok := b.Strip(v)
	if !ok {
		return v
	}
	return b.base + "/" + strings.TrimLeft(rest, "/")
}

// Text replaces every plain and encoded placeholder occurrence in s.
func (b *BaseURL) Text(s string) string {
	if b == nil {
		return s
	}
	s = b.plainRe.ReplaceAllStringFunc(s, func(m string) string {
		if strings.HasSuffix(m, "/") {
			return b.base + "/"
		}
		return b.base
	})
	return b.encoded(s)
}

func (b *BaseURL) encoded(s string) string {
	enc := url.QueryEscape(b.base)
	return b.encodedRe.ReplaceAllStringFunc(s, func(m string) string {
		if len(m) > len(url.QueryEscape(b.placeholder)) {
			return enc + "%2F"
		}
		return enc
	})
}

// Link rewrites a hyperlink reference: a leading placeholder, query values
// that start with the placeholder, and encoded placeholders anywhere.
func (b *BaseURL) Link(v string) string {
	if b == nil {
		return v
	}
	v = b.Prefixed(v)
	v = b.queryValues(v)
	return b.encoded(v)
}

// queryValues substitutes and re-encodes query parameter values that start
// with the raw placeholder. Other parameters are kept verbatim.
func (b *BaseURL) queryValues(v string) string {
	q := strings.IndexByte(v, '?')
	if q < 0 {
		return v
	}
	head, query, frag := v[:q+1], v[q+1:], ""
	if h := strings.IndexByte(query, '#'); h >= 0 {
		query, frag = query[:h], query[h:]
	}
	params := strings.Split(query, "&")
	for i, p := range params {
		eq := strings.IndexByte(p, '=')
		if eq < 0 || !b.Matches(p[eq+1:]) {
			continue
		}
		params[i] = p[:eq+1] + url.QueryEscape(b.Prefixed(p[eq+1:]))
	}
	return head + strings.Join(params, "&") + frag
}

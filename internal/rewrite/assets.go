package rewrite

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/htmlprep/internal/urlutil"
)

// AssetPath rewrites a resource reference so it resolves under the asset
// path prefix. Empty values, data: URIs, absolute URLs that are not the base
// URL placeholder and paths matching a no-prefix pattern are left alone.
func (p *Pipeline) AssetPath(v string) string {
	if v == "" || strings.HasPrefix(v, "data:") {
		return v
	}
	if p.opts.AssetPathPrefix == "" {
		return p.base.Prefixed(v)
	}
	if urlutil.HasPathPrefix(v, p.opts.AssetPathPrefix) {
		return v
	}
	if urlutil.HasScheme(v) {
		rest, ok := p.base.Strip(v)
		if !ok {
			return v
		}
		v = rootRelative(rest)
	}

	v = urlutil.StripExtraLeadingSlash(v)
	if strings.HasPrefix(v, "//") {
		return v
	}

	pathPart, suffix := urlutil.SplitSuffix(v)
	fromRoot := pathPart
	if !strings.HasPrefix(fromRoot, "/") {
		fromRoot = path.Join("/", p.opts.PathFromRoot, pathPart)
		if strings.HasSuffix(pathPart, "/") && !strings.HasSuffix(fromRoot, "/") {
			fromRoot += "/"
		}
	}
	if p.exempt(fromRoot) {
		return v
	}
	return urlutil.SlashJoin(p.opts.AssetPathPrefix, fromRoot) + suffix
}

func (p *Pipeline) exempt(fromRoot string) bool {
	for _, pattern := range p.opts.NoPathPrefixPatterns {
		if ok, _ := doublestar.Match(pattern, fromRoot); ok {
			return true
		}
	}
	return false
}

// rootRelative normalizes what follows a stripped placeholder.
func rootRelative(rest string) string {
	switch {
	case urlutil.IsProtocolRelative(rest):
		return rest
	case strings.HasPrefix(rest, "/"):
		return "/" + strings.TrimLeft(rest, "/")
	default:
		return "/" + rest
	}
}

// Package expand replaces a glob-carrying <script> or <link> with one tag per
// matching file.
package expand

import (
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlprep/internal/markup"
)

// Expander resolves glob patterns against a base directory.
type Expander struct {
	fsys   fs.FS
	ns     markup.Namespace
	noNull bool
}

// New returns an expander rooted at cwd.
func New(cwd string, ns markup.Namespace, noNull bool) *Expander {
	return NewFS(os.DirFS(cwd), ns, noNull)
}

// NewFS returns an expander over fsys.
func NewFS(fsys fs.FS, ns markup.Namespace, noNull bool) *Expander {
	return &Expander{fsys: fsys, ns: ns, noNull: noNull}
}

// Target returns the expansion attribute and the attribute it fills for tag,
// or ok=false when tag carries no expansion pattern.
func (e *Expander) Target(tag markup.Tag) (pattern, target string, ok bool) {
	var attr string
	switch tag.Name {
	case "script":
		attr, target = e.ns.Name(markup.DirSrcExpand), "src"
	case "link":
		attr, target = e.ns.Name(markup.DirHrefExpand), "href"
	default:
		return "", "", false
	}
	pattern, ok = tag.Attrs.Lookup(attr)
	if !ok || pattern == "" {
		return "", "", false
	}
	return pattern, target, true
}

// Expand returns one copy of tag per file matching its pattern, in match
// order. Each copy has the pattern attribute removed and the target set to
// the matched path. ok is false when tag is not an expansion candidate.
func (e *Expander) Expand(tag markup.Tag) (tags []markup.Tag, ok bool, err error) {
	pattern, target, ok := e.Target(tag)
	if !ok {
		return nil, false, nil
	}

	matches, err := e.Glob(pattern)
	if err != nil {
		return nil, true, err
	}

	attr := e.ns.Name(markup.DirSrcExpand)
	if target == "href" {
		attr = e.ns.Name(markup.DirHrefExpand)
	}
	tags = make([]markup.Tag, 0, len(matches))
	for _, m := range matches {
		t := tag.Clone()
		t.Attrs.Remove(attr)
		t.Attrs.Set(target, m)
		tags = append(tags, t)
	}
	return tags, true, nil
}

// Glob lists files matching pattern relative to the base directory. With
// no-null set, a pattern matching nothing yields itself.
func (e *Expander) Glob(pattern string) ([]string, error) {
	rooted := strings.HasPrefix(pattern, "/")
	clean := path.Clean(strings.TrimLeft(pattern, "/"))
	if !doublestar.ValidatePattern(clean) {
		return nil, errors.ValidationError("invalid expansion pattern").
			WithContext("pattern", pattern).
			Build()
	}

	matches, err := doublestar.Glob(e.fsys, clean, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to expand pattern").
			WithContext("pattern", pattern).
			Build()
	}
	if rooted {
		for i := range matches {
			matches[i] = "/" + matches[i]
		}
	}
	if len(matches) == 0 && e.noNull {
		return []string{pattern}, nil
	}
	return matches, nil
}

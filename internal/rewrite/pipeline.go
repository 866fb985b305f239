package rewrite

import (
	"strings"

	"git.home.luguber.info/inful/htmlprep/internal/config"
	"git.home.luguber.info/inful/htmlprep/internal/markup"
	"git.home.luguber.info/inful/htmlprep/internal/urlutil"
)

// srcTags carry a resource reference in src.
var srcTags = map[string]struct{}{
	"iframe": {}, "img": {}, "script": {}, "audio": {}, "video": {}, "embed": {},
	"input": {}, "amp-img": {}, "amp-video": {}, "amp-audio": {}, "amp-iframe": {},
}

// hyperlinkRels mark a <link> whose href is a navigation target rather than
// a loaded resource.
var hyperlinkRels = map[string]struct{}{
	"alternate": {}, "help": {}, "license": {}, "next": {}, "prev": {}, "search": {},
}

// Pipeline rewrites the attributes and text of pass-through content.
type Pipeline struct {
	opts *config.Options
	ns   markup.Namespace
	base *urlutil.BaseURL
}

// NewPipeline returns a pipeline for validated options.
func NewPipeline(opts *config.Options) *Pipeline {
	return &Pipeline{
		opts: opts,
		ns:   opts.Namespace(),
		base: urlutil.NewBaseURL(opts.BaseURLPlaceholder, opts.BaseURL),
	}
}

// Apply rewrites tag in place and reports how many attribute values changed.
func (p *Pipeline) Apply(tag *markup.Tag) int {
	changed := 0
	hyperlink := isHyperlink(*tag)

	for i := range tag.Attrs {
		a := &tag.Attrs[i]
		if a.Kind != markup.Present {
			continue
		}
		before := a.Value
		name := strings.ToLower(a.Name)
		switch {
		case name == "href" && hyperlink:
			a.Value = p.base.Link(urlutil.StripExtraLeadingSlash(a.Value))
		case name == "style":
			a.Value = p.CSS(a.Value)
		case name == "rel" && tag.Name == "link":
			if strings.EqualFold(a.Value, "stylesheet") {
				a.Value = "stylesheet"
			}
		case isTextBearing(tag.Name, name):
			a.Value = p.base.Text(a.Value)
		}
		if a.Value != before {
			changed++
		}
	}

	if attr := resourceAttr(*tag, hyperlink); attr != "" {
		changed += p.applyResource(tag, attr)
	}
	return changed
}

func (p *Pipeline) applyResource(tag *markup.Tag, attr string) int {
	changed := 0
	v, ok := tag.Attrs.Lookup(attr)
	if ok && !tag.Attrs.Has(p.ns.Name(markup.DirSrcKeep)) {
		if nv := p.AssetPath(v); nv != v {
			tag.Attrs.Set(attr, nv)
			v = nv
			changed++
		}
	}

	fp := p.ns.Name(markup.DirFingerprint)
	if p.opts.Fingerprint == "" || !tag.Attrs.Has(fp) {
		return changed
	}
	tag.Attrs.Remove(fp)
	if ok && v != "" && !strings.HasPrefix(v, "data:") {
		tag.Attrs.Set(attr, p.Fingerprint(v))
		changed++
	}
	return changed
}

// Fingerprint appends the fingerprint query parameter to v.
func (p *Pipeline) Fingerprint(v string) string {
	pathPart, frag := v, ""
	if i := strings.IndexByte(v, '#'); i >= 0 {
		pathPart, frag = v[:i], v[i:]
	}
	sep := "?"
	if strings.Contains(pathPart, "?") {
		sep = "&"
	}
	return pathPart + sep + p.opts.FingerprintQuery + "=" + p.opts.Fingerprint + frag
}

// Text rewrites character data. Inside <style> it rewrites url() references,
// elsewhere it substitutes the base URL placeholder.
func (p *Pipeline) Text(tagName, s string) string {
	if tagName == "style" {
		return p.CSS(s)
	}
	return p.base.Text(s)
}

// resourceAttr names the attribute holding the asset reference of tag.
func resourceAttr(tag markup.Tag, hyperlink bool) string {
	if _, ok := srcTags[tag.Name]; ok {
		return "src"
	}
	if tag.Name == "link" && !hyperlink {
		return "href"
	}
	return ""
}

func isHyperlink(tag markup.Tag) bool {
	switch tag.Name {
	case "a":
		return true
	case "link":
		for _, rel := range strings.Fields(strings.ToLower(tag.Attrs.Get("rel"))) {
			if _, ok := hyperlinkRels[rel]; ok {
				return true
			}
		}
	}
	return false
}

func isTextBearing(tagName, attr string) bool {
	return (tagName == "meta" && attr == "content") ||
		attr == "onclick" ||
		strings.HasPrefix(attr, "data-")
}

package markup

// Directive is the suffix of a reserved custom attribute.
type Directive string

const (
	DirBuild       Directive = "build"
	DirPlaceholder Directive = "placeholder"
	DirStrip       Directive = "strip"
	DirSrcExpand   Directive = "src-expand"
	DirHrefExpand  Directive = "href-expand"
	DirSrcKeep     Directive = "src-keep"
	DirFingerprint Directive = "fingerprint"
)

// Directives lists every reserved suffix.
var Directives = []Directive{
	DirBuild, DirPlaceholder, DirStrip, DirSrcExpand, DirHrefExpand, DirSrcKeep, DirFingerprint,
}

// Namespace resolves directive suffixes to full attribute names of the form
// data-[prefix-]suffix.
type Namespace struct {
	prefix string
}

// NewNamespace returns a namespace for the optional prefix.
func NewNamespace(prefix string) Namespace {
	return Namespace{prefix: prefix}
}

// Name returns the attribute name for d.
func (n Namespace) Name(d Directive) string {
	if n.prefix == "" {
		return "data-" + string(d)
	}
	return "data-" + n.prefix + "-" + string(d)
}

// Prefix returns the configured prefix.
func (n Namespace) Prefix() string { return n.prefix }

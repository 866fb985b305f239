package markup

import "strings"

// Tag is an element start tag with a lowercased name.
type Tag struct {
	Name  string
	Attrs Attributes
}

// Clone returns a copy of t whose attributes can be modified independently.
func (t Tag) Clone() Tag {
	return Tag{Name: t.Name, Attrs: t.Attrs.Clone()}
}

// singletons never carry content or a close tag.
var singletons = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "command": {}, "embed": {},
	"hr": {}, "img": {}, "input": {}, "link": {}, "meta": {}, "param": {},
	"source": {},
}

// IsSingleton reports whether name is rendered self-closing without a close tag.
func IsSingleton(name string) bool {
	_, ok := singletons[strings.ToLower(name)]
	return ok
}

// rawText elements hold unescaped character data.
var rawText = map[string]struct{}{
	"script": {}, "style": {}, "iframe": {}, "noembed": {}, "noframes": {},
	"noscript": {}, "xmp": {}, "plaintext": {},
}

// IsRawText reports whether text inside name is never entity-escaped.
func IsRawText(name string) bool {
	_, ok := rawText[strings.ToLower(name)]
	return ok
}

// Escaper renders an attribute value for placement between double quotes.
type Escaper func(string) string

var (
	quoteEscaper  = strings.NewReplacer(`"`, "&quot;")
	entityEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")
	textEscaper   = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// RawEscaper leaves entity references untouched and only protects the quote.
func RawEscaper(s string) string { return quoteEscaper.Replace(s) }

// EntityEscaper re-escapes a decoded value.
func EntityEscaper(s string) string { return entityEscaper.Replace(s) }

// EscapeText re-escapes decoded character data.
func EscapeText(s string) string { return textEscaper.Replace(s) }

// Render serializes the start tag. Singletons render as <name .../>.
func (t Tag) Render(esc Escaper) string {
	if esc == nil {
		esc = RawEscaper
	}
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(t.Name)
	for _, a := range t.Attrs {
		switch a.Kind {
		case Removed:
			continue
		case Boolean:
			sb.WriteByte(' ')
			sb.WriteString(a.Name)
		default:
			sb.WriteByte(' ')
			sb.WriteString(a.Name)
			sb.WriteString(`="`)
			sb.WriteString(esc(a.Value))
			sb.WriteByte('"')
		}
	}
	if IsSingleton(t.Name) {
		sb.WriteString("/>")
	} else {
		sb.WriteByte('>')
	}
	return sb.String()
}

// CloseTag renders </name>.
func CloseTag(name string) string {
	return "</" + name + ">"
}

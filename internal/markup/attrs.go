package markup

import (
	"slices"
	"strings"
)

// ValueKind distinguishes how an attribute value is rendered.
type ValueKind int

const (
	// Present is a name="value" attribute.
	Present ValueKind = iota
	// Boolean is a bare attribute name with no value.
	Boolean
	// Removed attributes are kept in order but never rendered.
	Removed
)

// Attr is a single attribute in source order.
type Attr struct {
	Name  string
	Kind  ValueKind
	Value string
}

// Attributes is an ordered attribute list. Name lookups are case-insensitive.
type Attributes []Attr

func (a Attributes) index(name string) int {
	for i := range a {
		if strings.EqualFold(a[i].Name, name) {
			return i
		}
	}
	return -1
}

// Lookup returns the value of a live attribute. Boolean attributes report "".
func (a Attributes) Lookup(name string) (string, bool) {
	i := a.index(name)
	if i < 0 || a[i].Kind == Removed {
		return "", false
	}
	return a[i].Value, true
}

// Get returns the value of name or "" when absent.
func (a Attributes) Get(name string) string {
	v, _ := a.Lookup(name)
	return v
}

// Has reports whether name is present and not removed.
func (a Attributes) Has(name string) bool {
	_, ok := a.Lookup(name)
	return ok
}

// Set stores a value attribute, replacing an existing one in place or appending.
func (a *Attributes) Set(name, value string) {
	if i := a.index(name); i >= 0 {
		(*a)[i].Kind = Present
		(*a)[i].Value = value
		return
	}
	*a = append(*a, Attr{Name: name, Kind: Present, Value: value})
}

// Remove marks name as removed. It is a no-op when name is absent.
func (a *Attributes) Remove(name string) {
	if i := a.index(name); i >= 0 {
		(*a)[i].Kind = Removed
		(*a)[i].Value = ""
	}
}

// TrimValues trims surrounding whitespace from every value.
func (a Attributes) TrimValues() {
	for i := range a {
		if a[i].Kind == Present {
			a[i].Value = strings.TrimSpace(a[i].Value)
		}
	}
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	return slices.Clone(a)
}

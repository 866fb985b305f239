// Package urlutil holds the small URL string helpers shared by the rewriters.
package urlutil

import (
	"regexp"
	"strings"
)

var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// HasScheme reports whether v is an absolute URL such as https://x or mailto:x.
func HasScheme(v string) bool {
	return schemeRe.MatchString(v)
}

// IsProtocolRelative reports whether v is a //host/... reference whose host
// looks like a domain name.
func IsProtocolRelative(v string) bool {
	if !strings.HasPrefix(v, "//") || strings.HasPrefix(v, "///") {
		return false
	}
	host := v[2:]
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	return strings.Contains(host, ".")
}

// StripExtraLeadingSlash turns //path into /path unless v is protocol relative.
func StripExtraLeadingSlash(v string) string {
	if strings.HasPrefix(v, "//") && !IsProtocolRelative(v) {
		return "/" + strings.TrimLeft(v, "/")
	}
	return v
}

// SlashJoin joins segments with exactly one slash between them. Leading
// slashes of the first segment and trailing slashes of the last are kept.
func SlashJoin(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	for i := range kept {
		if i > 0 {
			kept[i] = strings.TrimLeft(kept[i], "/")
		}
		if i < len(kept)-1 {
			kept[i] = strings.TrimRight(kept[i], "/")
		}
	}
	return strings.Join(kept, "/")
}

// SplitSuffix separates a path from its query string and fragment.
func SplitSuffix(v string) (pathPart, suffix string) {
	if i := strings.IndexAny(v, "?#"); i >= 0 {
		return v[:i], v[i:]
	}
	return v, ""
}

// HasPrefixFold is strings.HasPrefix ignoring ASCII case.
func HasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// HasPathPrefix reports whether v starts with prefix at a path boundary.
func HasPathPrefix(v, prefix string) bool {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" || !strings.HasPrefix(v, prefix) {
		return false
	}
	rest := v[len(prefix):]
	return rest == "" || strings.IndexByte("/?#", rest[0]) >= 0
}

package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyFile       = "file"
	KeyTag        = "tag"
	KeyAttribute  = "attribute"
	KeyPattern    = "pattern"
	KeyMatches    = "matches"
	KeyBuildType  = "build_type"
	KeyBlock      = "block"
	KeyDepth      = "depth"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func File(path string) slog.Attr      { return slog.String(KeyFile, path) }
func Tag(name string) slog.Attr       { return slog.String(KeyTag, name) }
func Attribute(name string) slog.Attr { return slog.String(KeyAttribute, name) }
func Pattern(p string) slog.Attr      { return slog.String(KeyPattern, p) }
func Matches(n int) slog.Attr         { return slog.Int(KeyMatches, n) }
func BuildType(t string) slog.Attr    { return slog.String(KeyBuildType, t) }
func Block(name string) slog.Attr     { return slog.String(KeyBlock, name) }
func Depth(d int) slog.Attr           { return slog.Int(KeyDepth, d) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

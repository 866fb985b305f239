// Package config defines the transformer options and loads them from YAML.
package config

import (
	"maps"
	"slices"

	"git.home.luguber.info/inful/htmlprep/internal/markup"
)

// Defaults applied by New and Load.
const (
	DefaultBuildType        = "debug"
	DefaultLiveReloadPort   = 35729
	DefaultPathFromRoot     = "/"
	DefaultFingerprintQuery = "__fp"
	DefaultCwd              = "."
)

// Options is the configuration of a transformation. Treat it as read-only
// once validated; the transformer keeps its own copy.
type Options struct {
	AttrPrefix           string            `yaml:"attr_prefix,omitempty"`
	BuildType            string            `yaml:"build_type"`
	LiveReload           bool              `yaml:"live_reload"`
	LiveReloadPort       int               `yaml:"live_reload_port"`
	Inject               map[string]string `yaml:"inject,omitempty"`
	AssetPathPrefix      string            `yaml:"asset_path_prefix,omitempty"`
	PathFromRoot         string            `yaml:"path_from_root"`
	NoPathPrefixPatterns []string          `yaml:"no_path_prefix_patterns,omitempty"`
	BaseURLPlaceholder   string            `yaml:"base_url_placeholder,omitempty"`
	BaseURL              string            `yaml:"base_url,omitempty"`
	Fingerprint          string            `yaml:"fingerprint,omitempty"`
	FingerprintQuery     string            `yaml:"fingerprint_query"`
	Cwd                  string            `yaml:"cwd"`
	// ExpandNoNull emits one tag carrying the literal pattern when a glob
	// matches no files.
	ExpandNoNull   *bool `yaml:"expand_no_null,omitempty"`
	DecodeEntities bool  `yaml:"decode_entities"`
}

// Option mutates Options during construction.
type Option func(*Options)

// New returns defaulted options with opts applied, validated.
func New(opts ...Option) (*Options, error) {
	o := &Options{}
	o.ApplyDefaults()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// ApplyDefaults fills every unset field with its default.
func (o *Options) ApplyDefaults() {
	if o.BuildType == "" {
		o.BuildType = DefaultBuildType
	}
	if o.LiveReloadPort == 0 {
		o.LiveReloadPort = DefaultLiveReloadPort
	}
	if o.PathFromRoot == "" {
		o.PathFromRoot = DefaultPathFromRoot
	}
	if o.FingerprintQuery == "" {
		o.FingerprintQuery = DefaultFingerprintQuery
	}
	if o.Cwd == "" {
		o.Cwd = DefaultCwd
	}
	if o.ExpandNoNull == nil {
		on := true
		o.ExpandNoNull = &on
	}
}

// Clone returns a deep copy.
func (o *Options) Clone() *Options {
	c := *o
	c.Inject = maps.Clone(o.Inject)
	c.NoPathPrefixPatterns = slices.Clone(o.NoPathPrefixPatterns)
	if o.ExpandNoNull != nil {
		v := *o.ExpandNoNull
		c.ExpandNoNull = &v
	}
	return &c
}

// Namespace returns the custom attribute namespace for AttrPrefix.
func (o *Options) Namespace() markup.Namespace {
	return markup.NewNamespace(o.AttrPrefix)
}

// NoNull reports whether unmatched globs fall back to the literal pattern.
func (o *Options) NoNull() bool {
	return o.ExpandNoNull == nil || *o.ExpandNoNull
}

func WithAttrPrefix(prefix string) Option {
	return func(o *Options) { o.AttrPrefix = prefix }
}

func WithBuildType(buildType string) Option {
	return func(o *Options) { o.BuildType = buildType }
}

func WithAssetPathPrefix(prefix string) Option {
	return func(o *Options) { o.AssetPathPrefix = prefix }
}

func WithPathFromRoot(p string) Option {
	return func(o *Options) { o.PathFromRoot = p }
}

func WithCwd(dir string) Option {
	return func(o *Options) { o.Cwd = dir }
}

func WithDecodeEntities(on bool) Option {
	return func(o *Options) { o.DecodeEntities = on }
}

// WithLiveReload enables the live reload script. A zero port keeps the default.
func WithLiveReload(port int) Option {
	return func(o *Options) {
		o.LiveReload = true
		if port != 0 {
			o.LiveReloadPort = port
		}
	}
}

// WithInject adds a named block for placeholders and head/body injection.
func WithInject(name, html string) Option {
	return func(o *Options) {
		if o.Inject == nil {
			o.Inject = map[string]string{}
		}
		o.Inject[name] = html
	}
}

// WithNoPathPrefixPatterns adds patterns exempt from asset prefixing.
func WithNoPathPrefixPatterns(patterns ...string) Option {
	return func(o *Options) { o.NoPathPrefixPatterns = append(o.NoPathPrefixPatterns, patterns...) }
}

// WithBaseURL sets the placeholder and the base URL that replaces it.
func WithBaseURL(placeholder, baseURL string) Option {
	return func(o *Options) {
		o.BaseURLPlaceholder = placeholder
		o.BaseURL = baseURL
	}
}

// WithFingerprint sets the fingerprint value and, when query is non-empty,
// its query key.
func WithFingerprint(value, query string) Option {
	return func(o *Options) {
		o.Fingerprint = value
		if query != "" {
			o.FingerprintQuery = query
		}
	}
}

func WithExpandNoNull(on bool) Option {
	return func(o *Options) { o.ExpandNoNull = &on }
}

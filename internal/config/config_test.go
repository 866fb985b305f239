package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
)

func TestNewAppliesDefaults(t *testing.T) {
	opts, err := New()
	require.NoError(t, err)

	assert.Equal(t, "debug", opts.BuildType)
	assert.Equal(t, 35729, opts.LiveReloadPort)
	assert.Equal(t, "/", opts.PathFromRoot)
	assert.Equal(t, "__fp", opts.FingerprintQuery)
	assert.Equal(t, ".", opts.Cwd)
	assert.True(t, opts.NoNull())
	assert.False(t, opts.DecodeEntities)
	assert.Equal(t, "data-build", opts.Namespace().Name("build"))
}

func TestNewWithOptions(t *testing.T) {
	opts, err := New(
		WithAttrPrefix("hp"),
		WithBuildType("release"),
		WithLiveReload(0),
		WithInject("head", "<meta>"),
		WithAssetPathPrefix("//cdn.net"),
		WithNoPathPrefixPatterns("/img/*.jpg"),
		WithBaseURL("https://__baseurl__", "https://x.com"),
		WithFingerprint("123", "v"),
		WithExpandNoNull(false),
	)
	require.NoError(t, err)

	assert.True(t, opts.LiveReload)
	assert.Equal(t, 35729, opts.LiveReloadPort)
	assert.Equal(t, "<meta>", opts.Inject["head"])
	assert.Equal(t, "v", opts.FingerprintQuery)
	assert.False(t, opts.NoNull())
	assert.Equal(t, "data-hp-strip", opts.Namespace().Name("strip"))
}

func TestCloneIsDeep(t *testing.T) {
	opts, err := New(WithInject("a", "1"), WithAssetPathPrefix("//c"), WithNoPathPrefixPatterns("/x"))
	require.NoError(t, err)

	c := opts.Clone()
	c.Inject["a"] = "2"
	c.NoPathPrefixPatterns[0] = "/y"
	*c.ExpandNoNull = false

	assert.Equal(t, "1", opts.Inject["a"])
	assert.Equal(t, "/x", opts.NoPathPrefixPatterns[0])
	assert.True(t, opts.NoNull())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"bad attr prefix", WithAttrPrefix("a b")},
		{"port too large", func(o *Options) { o.LiveReloadPort = 70000 }},
		{"base url without placeholder", WithBaseURL("", "https://x.com")},
		{"whitespace in base url", WithBaseURL("https://__b__", "https://x .com")},
		{"whitespace in asset prefix", WithAssetPathPrefix("//cdn net")},
		{"patterns without prefix", WithNoPathPrefixPatterns("/img/*")},
		{"malformed pattern", func(o *Options) {
			o.AssetPathPrefix = "//cdn"
			o.NoPathPrefixPatterns = []string{"/img/[a"}
		}},
		{"bad fingerprint query", WithFingerprint("1", "a=b")},
		{"empty inject name", WithInject(" ", "x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
		})
	}
}

func TestParseYAML(t *testing.T) {
	t.Setenv("CDN_HOST", "cdn.example.com")

	opts, err := Parse([]byte(`
build_type: release
asset_path_prefix: //${CDN_HOST}/v1
no_path_prefix_patterns:
  - /img/*.jpg
inject:
  head: <link rel="icon" href="/f.ico">
expand_no_null: false
`))
	require.NoError(t, err)

	assert.Equal(t, "release", opts.BuildType)
	assert.Equal(t, "//cdn.example.com/v1", opts.AssetPathPrefix)
	assert.Equal(t, []string{"/img/*.jpg"}, opts.NoPathPrefixPatterns)
	assert.Contains(t, opts.Inject["head"], "f.ico")
	assert.False(t, opts.NoNull())
	assert.Equal(t, "__fp", opts.FingerprintQuery)
}

func TestParseEmptyDocumentUsesDefaults(t *testing.T) {
	opts, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", opts.BuildType)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("bulid_type: release\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvBuildType, "staging")
	t.Setenv(EnvFingerprint, "abc")

	opts, err := Parse([]byte("build_type: release\n"))
	require.NoError(t, err)
	assert.Equal(t, "staging", opts.BuildType)
	assert.Equal(t, "abc", opts.Fingerprint)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "htmlprep.yaml")
	require.NoError(t, Init(path, false))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "release", opts.BuildType)
	assert.Equal(t, "https://example.com", opts.BaseURL)

	err = Init(path, false)
	require.Error(t, err)
	require.NoError(t, Init(path, true))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

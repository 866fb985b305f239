package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
)

// Environment overrides applied after the file is read.
const (
	EnvBuildType       = "HTMLPREP_BUILD_TYPE"
	EnvAssetPathPrefix = "HTMLPREP_ASSET_PATH_PREFIX"
	EnvBaseURL         = "HTMLPREP_BASE_URL"
	EnvFingerprint     = "HTMLPREP_FINGERPRINT"
)

// envFiles are loaded in order; variables already set are never overridden.
var envFiles = []string{".env", ".env.local"}

// Load reads a YAML configuration file. ${VAR} references are expanded
// before parsing and HTMLPREP_* variables override the file.
func Load(configPath string) (*Options, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and environment
// overrides, and validates the result.
func Parse(data []byte) (*Options, error) {
	expanded := os.ExpandEnv(string(data))

	var opts Options
	dec := yaml.NewDecoder(bytes.NewBufferString(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			UserAction().
			Build()
	}

	opts.ApplyDefaults()
	opts.ApplyEnv()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// ApplyEnv overrides fields from HTMLPREP_* environment variables.
func (o *Options) ApplyEnv() {
	if v := os.Getenv(EnvBuildType); v != "" {
		o.BuildType = v
	}
	if v := os.Getenv(EnvAssetPathPrefix); v != "" {
		o.AssetPathPrefix = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		o.BaseURL = v
	}
	if v := os.Getenv(EnvFingerprint); v != "" {
		o.Fingerprint = v
	}
}

func loadEnvFiles() {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			fmt.Fprintf(os.Stderr, "Note: could not load %s: %v\n", f, err)
		}
	}
}

// Marshal renders options as YAML.
func (o *Options) Marshal() ([]byte, error) {
	return yaml.Marshal(o)
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := &Options{
		BuildType:            "release",
		AssetPathPrefix:      "//cdn.example.com/site",
		NoPathPrefixPatterns: []string{"/favicon.ico"},
		BaseURLPlaceholder:   "https://__baseurl__",
		BaseURL:              "https://example.com",
		Inject:               map[string]string{"head": "<meta name=\"generator\" content=\"htmlprep\">"},
	}
	example.ApplyDefaults()

	data, err := example.Marshal()
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}

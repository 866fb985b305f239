package config

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
)

var (
	attrPrefixRe = regexp.MustCompile(`^[a-zA-Z0-9_-]*$`)
	queryKeyRe   = regexp.MustCompile(`^[a-zA-Z0-9_.~-]+$`)
)

// Validate reports the first invalid option as a configuration error.
func (o *Options) Validate() error {
	checks := []func() error{
		o.validateAttrPrefix,
		o.validateLiveReload,
		o.validateBaseURL,
		o.validateAssets,
		o.validateFingerprint,
		o.validateInject,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) validateAttrPrefix() error {
	if !attrPrefixRe.MatchString(o.AttrPrefix) {
		return errors.ConfigError("attribute prefix may only contain letters, digits, '-' and '_'").
			WithContext("attr_prefix", o.AttrPrefix).
			Build()
	}
	return nil
}

func (o *Options) validateLiveReload() error {
	if o.LiveReloadPort < 1 || o.LiveReloadPort > 65535 {
		return errors.ConfigError("live reload port must be between 1 and 65535").
			WithContext("live_reload_port", o.LiveReloadPort).
			Build()
	}
	return nil
}

func (o *Options) validateBaseURL() error {
	if o.BaseURL != "" && o.BaseURLPlaceholder == "" {
		return errors.ConfigError("base_url requires base_url_placeholder").Build()
	}
	if strings.ContainsFunc(o.BaseURL, isSpace) || strings.ContainsFunc(o.BaseURLPlaceholder, isSpace) {
		return errors.ConfigError("base url settings must not contain whitespace").
			WithContext("base_url", o.BaseURL).
			Build()
	}
	return nil
}

func (o *Options) validateAssets() error {
	if strings.ContainsFunc(o.AssetPathPrefix, isSpace) {
		return errors.ConfigError("asset path prefix must not contain whitespace").
			WithContext("asset_path_prefix", o.AssetPathPrefix).
			Build()
	}
	if len(o.NoPathPrefixPatterns) > 0 && o.AssetPathPrefix == "" {
		return errors.ConfigError("no_path_prefix_patterns requires asset_path_prefix").Build()
	}
	for _, p := range o.NoPathPrefixPatterns {
		if !doublestar.ValidatePattern(p) {
			return errors.ConfigError("invalid no-prefix pattern").
				WithContext("pattern", p).
				Build()
		}
	}
	return nil
}

func (o *Options) validateFingerprint() error {
	if !queryKeyRe.MatchString(o.FingerprintQuery) {
		return errors.ConfigError("fingerprint query must be a plain query key").
			WithContext("fingerprint_query", o.FingerprintQuery).
			Build()
	}
	return nil
}

func (o *Options) validateInject() error {
	for name := range o.Inject {
		if strings.TrimSpace(name) == "" {
			return errors.ConfigError("inject block names must not be empty").Build()
		}
	}
	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

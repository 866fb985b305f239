package commands

import (
	"strings"

	"git.home.luguber.info/inful/htmlprep/internal/config"
	"git.home.luguber.info/inful/htmlprep/internal/fingerprint"
	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlprep/internal/inject"
)

func (o Overrides) apply(opts *config.Options) error {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&opts.BuildType, o.BuildType)
	set(&opts.AttrPrefix, o.AttrPrefix)
	set(&opts.AssetPathPrefix, o.AssetPathPrefix)
	set(&opts.PathFromRoot, o.PathFromRoot)
	set(&opts.BaseURL, o.BaseURL)
	set(&opts.BaseURLPlaceholder, o.Placeholder)
	set(&opts.Fingerprint, o.Fingerprint)
	set(&opts.Cwd, o.Cwd)

	if len(o.NoPrefix) > 0 {
		opts.NoPathPrefixPatterns = append(opts.NoPathPrefixPatterns, o.NoPrefix...)
	}
	if o.LiveReload {
		opts.LiveReload = true
	}
	if o.LiveReloadPort != 0 {
		opts.LiveReloadPort = o.LiveReloadPort
	}
	if o.DecodeEntities {
		opts.DecodeEntities = true
	}

	for _, entry := range o.Inject {
		name, file, ok := strings.Cut(entry, "=")
		if !ok || name == "" || file == "" {
			return errors.ConfigError("inject must be NAME=FILE").
				WithContext("inject", entry).
				Build()
		}
		block, err := inject.ReadFile(file)
		if err != nil {
			return err
		}
		if opts.Inject == nil {
			opts.Inject = map[string]string{}
		}
		opts.Inject[name] = block
	}

	if o.FingerprintFromGit {
		dir := opts.Cwd
		if dir == "" {
			dir = "."
		}
		fp, err := fingerprint.FromGit(dir, fingerprint.DefaultLength)
		if err != nil {
			return err
		}
		opts.Fingerprint = fp
	}
	return nil
}

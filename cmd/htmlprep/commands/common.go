package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/htmlprep/internal/config"
	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
)

// DefaultConfigFile is read when present and no --config is given.
const DefaultConfigFile = "htmlprep.yaml"

// Global context passed to subcommands.
type Global struct {
	Logger  *slog.Logger
	Context context.Context
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"htmlprep.yaml" env:"HTMLPREP_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run   RunCmd    `cmd:"" help:"Transform HTML files or stdin"`
	Watch WatchCmd  `cmd:"" help:"Transform a source tree and re-run on changes"`
	Init  InitCmd   `cmd:"" help:"Write an example configuration file"`
	Show  ConfigCmd `cmd:"" name:"config" help:"Print the effective configuration"`
}

// LogLevelEnv selects the log level when --verbose is not given.
const LogLevelEnv = "HTMLPREP_LOG_LEVEL"

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if raw := os.Getenv(LogLevelEnv); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return errors.WrapError(err, errors.CategoryValidation, "invalid log level").
				WithContext("env", LogLevelEnv).
				Build()
		}
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// Overrides are the transformation flags shared by run, watch and config.
type Overrides struct {
	BuildType          string   `name:"build-type" short:"b" help:"Build type selecting data-build blocks"`
	AttrPrefix         string   `name:"attr-prefix" help:"Custom attribute prefix (data-PREFIX-build)"`
	AssetPathPrefix    string   `name:"asset-path-prefix" short:"p" help:"Prefix for asset URLs, e.g. //cdn.example.com/site"`
	PathFromRoot       string   `name:"path-from-root" help:"Directory of the documents relative to the site root"`
	NoPrefix           []string `name:"no-prefix" help:"Glob of root-relative paths exempt from the asset prefix"`
	BaseURL            string   `name:"base-url" help:"Value substituted for the base URL placeholder"`
	Placeholder        string   `name:"base-url-placeholder" help:"Base URL placeholder to substitute"`
	Fingerprint        string   `name:"fingerprint" help:"Value appended to data-fingerprint assets"`
	FingerprintFromGit bool     `name:"fingerprint-from-git" help:"Use the abbreviated HEAD commit of the repository containing --cwd as fingerprint"`
	LiveReload         bool     `name:"live-reload" help:"Inject the live reload script before </body>"`
	LiveReloadPort     int      `name:"live-reload-port" help:"Live reload server port"`
	Inject             []string `name:"inject" help:"Inject block as NAME=FILE; Markdown files are rendered to HTML"`
	Cwd                string   `name:"cwd" help:"Base directory for glob expansion"`
	DecodeEntities     bool     `name:"decode-entities" help:"Decode character references and re-escape on output"`
}

// loadOptions reads the configuration file, when there is one, and applies
// flag overrides on top.
func loadOptions(root *CLI, o Overrides) (*config.Options, error) {
	opts := &config.Options{}
	if root.Config != "" {
		if _, err := os.Stat(root.Config); err == nil {
			loaded, err := config.Load(root.Config)
			if err != nil {
				return nil, err
			}
			opts = loaded
		} else if root.Config != DefaultConfigFile {
			return config.Load(root.Config)
		}
	}

	if err := o.apply(opts); err != nil {
		return nil, err
	}
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/htmlprep/cmd/htmlprep/commands"
	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlprep/internal/version"
)

func main() {
	var cli commands.CLI
	kctx := kong.Parse(&cli,
		kong.Name("htmlprep"),
		kong.Description("Streaming HTML preprocessor for build pipelines"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	global := &commands.Global{Logger: slog.Default(), Context: ctx}
	if err := kctx.Run(global, &cli); err != nil {
		cancel()
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/instructa/coursegen/cmd/coursegen/commands"
	cerrors "github.com/instructa/coursegen/internal/errors"
	"github.com/instructa/coursegen/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("coursegen"),
		kong.Description("Static site builder for Markdown curricula."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	if err := ctx.Run(&commands.Global{}, &cli); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+cerrors.FormatForCLI(err, cli.Verbose))
		os.Exit(cerrors.ExitCodeFor(err))
	}
}

package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vrm-addon-for-blender/docsite/cmd/docsite/commands"
	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
	"github.com/vrm-addon-for-blender/docsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := commands.NewGlobal(os.Stdout)

	parser := kong.Parse(cli,
		kong.Name("docsite"),
		kong.Description("Site configuration and head metadata for the VRM Add-on for Blender documentation."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	err := parser.Run(global, cli)
	adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
	os.Exit(adapter.Report(os.Stderr, err))
}

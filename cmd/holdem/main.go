package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Serve       ServeCmd         `cmd:"" help:"Run the game server"`
	Simulate    SimulateCmd      `cmd:"" help:"Play bots against each other and report win rates"`
	Odds        OddsCmd          `cmd:"" help:"Estimate the equity of a hand"`
	HandHistory HandHistoryCmd   `cmd:"hand-history" help:"Work with PHH hand history files"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("No-limit Texas Hold'em engine with bounded decision options"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

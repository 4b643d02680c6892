package main

import (
	"github.com/alecthomas/kong"
)

// App carries flags shared by every subcommand
type App struct {
	Verbose bool
}

type Command struct {
	Verbose  bool             `help:"Enable verbose output." short:"v"`
	Validate *ValidateCommand `cmd:"validate" help:"Check that a dataset file loads."`
	List     *ListCommand     `cmd:"list" help:"Print regions, or the cities or barangays below one."`
	Convert  *ConvertCommand  `cmd:"convert" help:"Convert a dataset between json, yaml and xlsx."`
	Publish  *PublishCommand  `cmd:"publish" help:"Upload a validated dataset to object storage."`
}

func main() {
	command := new(Command)
	ctx := kong.Parse(
		command,
		kong.Name("geography"),
		kong.Description("Geography dataset tool"),
	)
	err := ctx.Run(&App{
		Verbose: command.Verbose,
	})
	ctx.FatalIfErrorf(err)
}

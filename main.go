package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sinclairtarget/wcasa/internal/pretty"
	"github.com/sinclairtarget/wcasa/internal/tally"
)

var Commit = "unknown"
var Version = "V1.0"

type Globals struct {
	Verbose bool             `short:"v" help:"Enables debug logging"`
	NoColor bool             `name:"no-color" help:"Disable ANSI colors on stderr"`
	Version kong.VersionFlag `help:"Print version and exit"`
}

type cli struct {
	Globals

	Report reportCmd `cmd:"" default:"withargs" help:"Tally authorship of a working copy (default)"`
	Parse  parseCmd  `cmd:"" help:"Classify the lines of a saved blame report"`
}

// Main parses the command line and runs the selected command.
//
// If no command was specified, we default to the "report" command.
func main() {
	var c cli

	ctx := kong.Parse(
		&c,
		kong.Name("wcasa"),
		kong.Description(
			"wcasa tallies lines of code by author using svn blame on a working copy",
		),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("%s %s", Version, Commit)},
		kong.Configuration(kong.JSON, "~/.config/wcasa.json", ".wcasa.json"),
	)

	fmt.Fprintf(os.Stderr, "%s %s\n", tally.ToolName, Version)

	if c.Verbose {
		configureLogging(slog.LevelDebug)
		logger().Debug("log level set to DEBUG")
	} else {
		configureLogging(slog.LevelInfo)
	}

	pretty.SetColorEnabled(!c.NoColor && pretty.AllowDynamic(os.Stderr))

	if err := ctx.Run(&c.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func configureLogging(level slog.Level) {
	handler := slog.NewTextHandler(
		os.Stderr,
		&slog.HandlerOptions{
			Level: level,
		},
	)
	logger := slog.New(handler)
	slog.SetDefault(logger)
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/photosite/internal/cli"
	"github.com/handiism/photosite/internal/config"
	"github.com/handiism/photosite/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to a JSON settings file")
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(cli.ExitUsage)
		}
	}
	if err := settings.ApplyEnv(cli.EnvFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitUsage)
	}
	if flag.NArg() > 0 {
		settings.Source = flag.Arg(0)
	}
	if flag.NArg() > 1 {
		settings.Destination = flag.Arg(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitFailure)
	}
}

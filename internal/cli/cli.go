package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/handiism/photosite/internal/config"
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Exit codes.
const (
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// EnvFile is the dotenv file read from the working directory.
const EnvFile = ".env"

// Parse processes command-line arguments into settings. Settings come from
// the -config file, then PHOTOSITE_* variables (and EnvFile), then flags.
//
// It returns true when the program should exit cleanly, as after -help.
// Usage errors are returned as *ExitError with ExitUsage.
func Parse(args []string, output io.Writer) (*config.Settings, bool, error) {
	flagSet := flag.NewFlagSet("photosite", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
photosite - build a static photo website from a directory of albums.

Usage:
  photosite [options] SOURCE DESTINATION

Arguments:
  SOURCE
    Directory of photographs. Each subdirectory is an album, configured
    by an optional album.cfg file.
  DESTINATION
    Website root. Only out-of-date files are rewritten.

Options:
`)
		flagSet.PrintDefaults()
	}

	var (
		configFlag    = flagSet.String("config", "", "Path to a JSON settings file")
		staticFlag    = flagSet.String("static", "", "Directory of static assets replacing the bundled ones")
		verboseFlag   = flagSet.Bool("verbose", false, "Log every decision, including up-to-date files")
		silentFlag    = flagSet.Bool("silent", false, "Log errors only")
		dryRunFlag    = flagSet.Bool("dry-run", false, "Report what would change without writing")
		keepGoingFlag = flagSet.Bool("keep-going", false, "Continue after image processing failures")
		jsonFlag      = flagSet.Bool("json", false, "Write logs as JSON lines")
	)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("load config: %v", err)}
		}
	}
	if err := settings.ApplyEnv(EnvFile); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	// Only flags given on the command line override the settings.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "static":
			settings.StaticPath = *staticFlag
		case "verbose":
			settings.Verbose = *verboseFlag
		case "silent":
			settings.Silent = *silentFlag
		case "dry-run":
			settings.DryRun = *dryRunFlag
		case "keep-going":
			settings.KeepGoing = *keepGoingFlag
		case "json":
			settings.JSONLogs = *jsonFlag
		}
	})

	switch flagSet.NArg() {
	case 0:
	case 2:
		settings.Source = flagSet.Arg(0)
		settings.Destination = flagSet.Arg(1)
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "expected SOURCE and DESTINATION"}
	}

	if settings.Source == "" || settings.Destination == "" {
		flagSet.Usage()
		return nil, false, &ExitError{Code: ExitUsage, Message: "SOURCE and DESTINATION are required"}
	}

	return settings, false, nil
}

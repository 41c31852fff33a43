package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/handiism/photosite/internal/app"
	"github.com/handiism/photosite/internal/cli"
	"github.com/handiism/photosite/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFailure)
	}
}

// run builds the website described by args. Logs go to errW, the summary
// to outW.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	settings, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	log := logger.New(errW, settings.ToLoggerConfig())

	a, err := app.New(settings, log, nil)
	if err != nil {
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}

	res, err := a.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return &cli.ExitError{Code: cli.ExitInterrupted, Message: "Interrupted, build cancelled."}
		}
		log.Error().Err(err).Msg("Build failed")
		return &cli.ExitError{Code: cli.ExitFailure, Message: err.Error()}
	}

	if settings.Silent {
		return nil
	}

	verb := "Built"
	if settings.DryRun {
		verb = "Dry run:"
	}
	if !res.Changed && res.Stats.Deleted == 0 && res.Stats.Images == 0 {
		fmt.Fprintf(outW, "%s nothing to do, %s images in %s albums are up to date (%s)\n",
			verb, humanize.Comma(int64(res.Images)), humanize.Comma(int64(res.Albums)), res.Elapsed.Round(time.Millisecond))
		return nil
	}
	fmt.Fprintf(outW, "%s %d pages, %d images, %d previews, removed %d orphans, wrote %s in %s\n",
		verb, res.Stats.Pages, res.Stats.Images, res.Stats.Previews, res.Stats.Deleted,
		humanize.Bytes(uint64(res.Stats.BytesWritten)), res.Elapsed.Round(time.Millisecond))
	return nil
}

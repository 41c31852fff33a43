package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/handiism/photosite/internal/config"
	ioutils "github.com/handiism/photosite/internal/io"
	"github.com/handiism/photosite/internal/model"
	"github.com/handiism/photosite/internal/page"
	"github.com/handiism/photosite/internal/photo"
	"github.com/handiism/photosite/internal/processor"
	"github.com/handiism/photosite/internal/site"
)

// ErrNoSource is returned when the settings name no source directory.
var ErrNoSource = errors.New("no source directory")

// Result summarises one run.
type Result struct {
	Changed bool
	Albums  int
	Images  int
	Stats   site.Stats
	Elapsed time.Duration
}

// App coordinates a website build: it loads the album tree and hands it to
// the builder, wiring both to the processors and renderer chosen by the
// settings.
type App struct {
	settings *config.Settings
	log      zerolog.Logger

	loader  *site.Loader
	builder *site.Builder
}

// New creates an App for settings. Progress events go to onProgress, which
// may be nil, and to log.
func New(settings *config.Settings, log zerolog.Logger, onProgress func(site.ProgressEvent)) (*App, error) {
	if settings.Source == "" {
		return nil, ErrNoSource
	}
	if settings.Destination == "" {
		return nil, site.ErrNoDestination
	}

	renderer, err := page.NewRenderer()
	if err != nil {
		return nil, err
	}

	var static fs.FS
	if settings.StaticPath != "" {
		info, err := os.Stat(settings.StaticPath)
		if err != nil {
			return nil, fmt.Errorf("static assets: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("static assets: %s is not a directory", settings.StaticPath)
		}
		static = os.DirFS(settings.StaticPath)
	}

	resolver := site.NewResolver(settings.Destination, log)
	resolver.OnProgress = onProgress

	tools := processor.NewToolbox(ioutils.NewImageService(settings.ToImageConfig()))
	builder := site.NewBuilder(tools, renderer, photo.NewExifReader(), site.Options{
		Log:        log,
		OnProgress: onProgress,
		Static:     static,
		DryRun:     settings.DryRun,
		KeepGoing:  settings.KeepGoing,
	})

	return &App{
		settings: settings,
		log:      log,
		loader:   site.NewLoader(resolver, log),
		builder:  builder,
	}, nil
}

// Run loads the source tree and builds the website.
// The Result is filled in as far as the run got, even on error.
func (a *App) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	a.log.Info().Str("source", a.settings.Source).Str("destination", a.settings.Destination).Msg("Loading albums")
	root, err := a.loader.Load(ctx, a.settings.Source)
	if err != nil {
		res.Elapsed = time.Since(start)
		return res, err
	}
	res.Albums, res.Images = count(root)
	a.log.Debug().Int("albums", res.Albums).Int("images", res.Images).Msg("Albums loaded")

	res.Changed, err = a.builder.Build(ctx, root)
	res.Stats = a.builder.Stats()
	res.Elapsed = time.Since(start)
	return res, err
}

// Progress returns the processed and total node counts of the running build.
func (a *App) Progress() (done, total int32) {
	return a.builder.Progress()
}

func count(album *model.Album) (albums, images int) {
	albums = 1
	for _, item := range album.Items {
		switch it := item.(type) {
		case *model.Album:
			a, i := count(it)
			albums += a
			images += i
		case *model.Image:
			images++
		}
	}
	return albums, images
}

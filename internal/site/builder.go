package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	ioutils "github.com/handiism/photosite/internal/io"
	"github.com/handiism/photosite/internal/model"
	"github.com/handiism/photosite/internal/page"
	"github.com/handiism/photosite/internal/photo"
	"github.com/handiism/photosite/internal/processor"
)

// PageRenderer writes an album index page.
type PageRenderer interface {
	Render(w io.Writer, p *page.Page) error
}

// Options tune a build.
type Options struct {
	Log        zerolog.Logger
	OnProgress func(ProgressEvent)

	// Static is copied to the website root's static directory.
	// Nil uses the built-in assets.
	Static fs.FS

	// DryRun reports every decision without writing or deleting anything.
	DryRun bool

	// KeepGoing reports processor failures and continues with the next
	// node. The build still returns an error at the end.
	KeepGoing bool

	// Rand shuffles preview candidates. Nil uses the global source.
	Rand *rand.Rand
}

// Builder brings a destination tree up to date with an album tree.
//
// Every artifact is compared with its source by modification time and only
// regenerated when it is missing or strictly older. A changed child marks its
// album dirty, so pages are rebuilt from the changed node up to the root.
//
// A Builder runs one build at a time. Progress may be polled from other
// goroutines while Build runs.
//
// Example:
//
//	b := NewBuilder(tools, renderer, photo.NewExifReader(), Options{Log: log})
//	changed, err := b.Build(ctx, root)
type Builder struct {
	tools    processor.Runner
	renderer PageRenderer
	dates    photo.DateReader
	opts     Options

	stats        Stats
	destinations map[string]bool
	processed    atomic.Int32
	total        atomic.Int32
}

// NewBuilder creates a Builder.
func NewBuilder(tools processor.Runner, renderer PageRenderer, dates photo.DateReader, opts Options) *Builder {
	if opts.Static == nil {
		opts.Static = page.Static()
	}
	return &Builder{
		tools:    tools,
		renderer: renderer,
		dates:    dates,
		opts:     opts,
	}
}

// ErrFailures is returned by a KeepGoing build in which some steps failed.
var ErrFailures = errors.New("build finished with failures")

// Build updates the destination of root and all its descendants.
// It reports whether the root album was rebuilt.
//
// The website root is locked for the duration of the build and receives a
// copy of the static assets before any album is processed.
func (b *Builder) Build(ctx context.Context, root *model.Album) (changed bool, err error) {
	b.stats = Stats{}
	b.destinations = albumDestinations(root)
	b.processed.Store(0)
	b.total.Store(int32(root.Count()))

	if !b.opts.DryRun {
		var lock *Lock
		if lock, err = b.prepare(ctx, root); err != nil {
			return false, err
		}
		defer func() {
			if rerr := lock.Release(); rerr != nil && err == nil {
				err = rerr
			}
		}()
	}

	changed, err = b.buildAlbum(ctx, root)
	if err != nil {
		return changed, err
	}
	if b.stats.Failures > 0 {
		return changed, fmt.Errorf("%w: %d failed steps", ErrFailures, b.stats.Failures)
	}

	b.progress(ProgressEvent{Message: "Build complete", Level: LevelSuccess, Path: root.Destination})
	return changed, nil
}

// prepare locks the website root and copies the static assets into it.
func (b *Builder) prepare(ctx context.Context, root *model.Album) (*Lock, error) {
	if err := ioutils.EnsureDir(root.Root); err != nil {
		return nil, err
	}
	lock, err := AcquireLock(root.Root)
	if err != nil {
		return nil, err
	}
	b.progress(ProgressEvent{Message: "Acquired lock " + lock.ID.String(), Level: LevelVerbose, Path: lock.Path})

	static := filepath.Join(root.Root, model.StaticDir)
	n, err := ioutils.CopyFS(ctx, b.opts.Static, static)
	if err != nil {
		lock.Release()
		return nil, fmt.Errorf("copy static assets: %w", err)
	}
	if n > 0 {
		b.progress(ProgressEvent{Message: fmt.Sprintf("Copied %d static files", n), Level: LevelVerbose, Path: static})
	}
	return lock, nil
}

// Stats returns the counters of the last build.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Progress returns the number of processed nodes and the total.
func (b *Builder) Progress() (done, total int32) {
	return b.processed.Load(), b.total.Load()
}

func (b *Builder) buildAlbum(ctx context.Context, album *model.Album) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	defer b.processed.Add(1)

	if !b.opts.DryRun {
		if err := ioutils.EnsureDir(filepath.Join(album.Destination, model.ThumbnailsDir)); err != nil {
			return false, err
		}
	}

	dirty := false
	for _, item := range album.Items {
		var (
			changed bool
			err     error
		)
		switch it := item.(type) {
		case *model.Album:
			changed, err = b.buildAlbum(ctx, it)
		case *model.Image:
			changed, err = b.updateImage(ctx, it)
		}
		if err != nil {
			return false, err
		}
		dirty = dirty || changed
	}

	if b.cleanup(album) > 0 {
		dirty = true
	}

	rebuild, reason, err := b.needsRebuild(album, dirty)
	if err != nil {
		return false, err
	}
	if !rebuild {
		b.progress(ProgressEvent{Message: "Album up to date", Level: LevelVerbose, Path: album.Source})
		return false, nil
	}
	b.progress(ProgressEvent{Message: "Rebuilding album: " + reason, Level: LevelInfo, Path: album.Source})

	if !album.Unlisted {
		if err := b.buildPreview(ctx, album); err != nil {
			return false, err
		}
	}
	if err := b.renderIndex(ctx, album); err != nil {
		return false, err
	}
	return true, nil
}

// needsRebuild decides whether the album's preview and index are stale and
// names the first reason found.
func (b *Builder) needsRebuild(album *model.Album, dirty bool) (bool, string, error) {
	index, ok, err := ioutils.ModTime(album.Index)
	if err != nil {
		return false, "", err
	}
	if !ok {
		return true, "index missing", nil
	}

	// An album with too few images never gets a preview; without the
	// candidate check it would be rebuilt on every run.
	if !album.Unlisted && !ioutils.Exists(album.Thumbnail) && len(SelectCandidates(album)) >= MinPreviewImages {
		return true, "preview missing", nil
	}

	cfg, ok, err := ioutils.ModTime(album.ConfigPath)
	if err != nil {
		return false, "", err
	}
	if ok && cfg.After(index) {
		return true, "configuration changed", nil
	}

	if dirty {
		return true, "contents changed", nil
	}
	return false, "", nil
}

// updateImage regenerates the destination image and thumbnail when either is
// missing or the source is strictly newer. Equal timestamps are up to date.
func (b *Builder) updateImage(ctx context.Context, image *model.Image) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	defer b.processed.Add(1)

	src, _, err := ioutils.ModTime(image.Source)
	if err != nil {
		return false, err
	}
	dst, dstOK, err := ioutils.ModTime(image.Destination)
	if err != nil {
		return false, err
	}
	thumbOK := ioutils.Exists(image.Thumbnail)

	if dstOK && thumbOK && !src.After(dst) {
		return false, nil
	}

	if b.opts.DryRun {
		b.progress(ProgressEvent{Message: "Would update image", Level: LevelInfo, Path: image.Source})
		return true, nil
	}
	b.progress(ProgressEvent{Message: "Updating image", Level: LevelVerbose, Path: image.Source})

	commands := image.Album.Commands
	if image.Watermark != "" {
		err = b.tools.Run(ctx, processor.Watermark, commands.Watermark, image.Source, image.Watermark, image.Destination)
	} else {
		err = b.tools.Run(ctx, processor.Scale, commands.Scale, image.Source, image.Destination)
	}
	if ok, err := b.step(err, image.Source); !ok {
		return false, err
	}
	b.stats.Images++

	err = b.tools.Run(ctx, processor.Thumbnail, commands.Thumbnail, image.Source, image.Thumbnail)
	if ok, err := b.step(err, image.Source); !ok {
		return false, err
	}
	b.stats.Thumbnails++

	return true, nil
}

// buildPreview composites a random selection of the album's candidate
// thumbnails into its preview. Too few candidates leave the preview alone.
func (b *Builder) buildPreview(ctx context.Context, album *model.Album) error {
	candidates := SelectCandidates(album)
	size, clamped := PreviewSize(len(candidates), album.Preview)
	if size == 0 {
		b.progress(ProgressEvent{
			Message: fmt.Sprintf("Not enough images for a preview (%d)", len(candidates)),
			Level:   LevelWarning,
			Path:    album.Source,
		})
		return nil
	}
	if clamped {
		b.progress(ProgressEvent{
			Message: fmt.Sprintf("Only %d images for a preview of %d, using %d", len(candidates), album.Preview, size),
			Level:   LevelWarning,
			Path:    album.Source,
		})
	}

	if b.opts.DryRun {
		b.progress(ProgressEvent{Message: "Would build preview", Level: LevelInfo, Path: album.Thumbnail})
		return nil
	}

	args := append(choose(b.opts.Rand, candidates, size), album.Thumbnail)
	err := b.tools.Run(ctx, processor.Preview, album.Commands.Preview, args...)
	if ok, err := b.step(err, album.Source); !ok {
		return err
	}
	b.stats.Previews++
	return nil
}

// renderIndex sorts the album's items by date and writes its index page.
func (b *Builder) renderIndex(ctx context.Context, album *model.Album) error {
	for _, image := range album.Images() {
		b.resolveImage(image)
	}

	slices.SortStableFunc(album.Items, func(x, y model.Item) int {
		c := itemDate(x).Compare(itemDate(y))
		if album.Sort == model.SortDescending {
			return -c
		}
		return c
	})

	if b.opts.DryRun {
		b.progress(ProgressEvent{Message: "Would write index", Level: LevelInfo, Path: album.Index})
		return nil
	}

	var buf bytes.Buffer
	if err := b.renderer.Render(&buf, page.New(album, album.Items)); err != nil {
		return err
	}
	if err := ioutils.WriteFile(ctx, album.Index, buf.Bytes()); err != nil {
		return err
	}

	b.stats.Pages++
	b.stats.BytesWritten += int64(buf.Len())
	b.progress(ProgressEvent{Message: "Wrote index", Level: LevelSuccess, Path: album.Index})
	return nil
}

// resolveImage fills in the capture date and pixel size the first time the
// image is listed on a page.
func (b *Builder) resolveImage(image *model.Image) {
	if !image.DateResolved {
		date, err := b.dates.Date(image.Source)
		if err != nil {
			b.progress(ProgressEvent{Message: "No capture date: " + err.Error(), Level: LevelWarning, Path: image.Source})
		}
		image.Date = date
		image.DateResolved = true
	}

	if image.Width == 0 && !b.opts.DryRun {
		w, h, err := ioutils.Dimensions(image.Destination)
		if err != nil {
			b.opts.Log.Debug().Err(err).Str("path", image.Destination).Msg("Cannot read image size")
			return
		}
		image.Width, image.Height = w, h
	}
}

func itemDate(item model.Item) time.Time {
	switch it := item.(type) {
	case *model.Album:
		return it.Date
	case *model.Image:
		return it.Date
	}
	return time.Time{}
}

// step checks the result of a processor call. ok is false when the call
// failed; err is nil if the failure was recorded and the build keeps going.
func (b *Builder) step(err error, path string) (ok bool, fatal error) {
	if err == nil {
		return true, nil
	}
	if !b.opts.KeepGoing || errors.Is(err, context.Canceled) {
		return false, err
	}
	b.stats.Failures++
	b.progress(ProgressEvent{Message: err.Error(), Level: LevelError, Path: path})
	return false, nil
}

func (b *Builder) progress(event ProgressEvent) {
	report(b.opts.Log, b.opts.OnProgress, event)
}

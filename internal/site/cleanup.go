package site

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/photosite/internal/model"
)

// cleanup deletes entries of the album's destination and thumbnail
// directories that belong to no current child and are not protected.
// Entries holding the destination of any album in the tree are kept, so an
// album with an explicit url survives the cleanup of every ancestor.
// It returns the number of entries removed, or that would be removed in a
// dry run. Failures are reported and skipped.
func (b *Builder) cleanup(album *model.Album) int {
	pages := map[string]bool{}
	thumbs := map[string]bool{model.PreviewName: true}

	for _, image := range album.Images() {
		pages[image.Href] = true
		thumbs[image.Href] = true
	}

	removed := b.removeOrphans(album, album.Destination, pages)
	removed += b.removeOrphans(album, filepath.Join(album.Destination, model.ThumbnailsDir), thumbs)
	return removed
}

func (b *Builder) removeOrphans(album *model.Album, dir string, expected map[string]bool) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			b.progress(ProgressEvent{Message: "Cannot list destination: " + err.Error(), Level: LevelError, Path: dir})
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		if expected[name] || album.IsProtected(name) || b.holdsAlbum(path) {
			continue
		}

		if b.opts.DryRun {
			b.progress(ProgressEvent{Message: "Would remove orphan", Level: LevelWarning, Path: path})
			removed++
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			b.progress(ProgressEvent{Message: "Cannot remove orphan: " + err.Error(), Level: LevelError, Path: path})
			continue
		}
		b.progress(ProgressEvent{Message: "Removed orphan", Level: LevelWarning, Path: path})
		b.stats.Deleted++
		removed++
	}
	return removed
}

// holdsAlbum reports whether path is the destination of an album in the
// tree being built, or a directory above one.
func (b *Builder) holdsAlbum(path string) bool {
	prefix := path + string(filepath.Separator)
	for dest := range b.destinations {
		if dest == path || strings.HasPrefix(dest, prefix) {
			return true
		}
	}
	return false
}

// albumDestinations returns the destination of album and every descendant.
func albumDestinations(album *model.Album) map[string]bool {
	dests := map[string]bool{filepath.Clean(album.Destination): true}
	for _, child := range album.Albums() {
		for dest := range albumDestinations(child) {
			dests[dest] = true
		}
	}
	return dests
}

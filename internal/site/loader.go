package site

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/handiism/photosite/internal/model"
)

// Loader builds the album tree of a source directory.
//
// Example:
//
//	loader := NewLoader(NewResolver("/www", log), log)
//	root, err := loader.Load(ctx, "/photos")
type Loader struct {
	resolver *Resolver
	log      zerolog.Logger

	// sources maps each album URL of the current load to its directory.
	sources map[string]string
}

// NewLoader creates a Loader resolving albums with resolver.
func NewLoader(resolver *Resolver, log zerolog.Logger) *Loader {
	return &Loader{resolver: resolver, log: log}
}

// Load walks source and returns the root album with every descendant.
//
// Directories without an album file below an oblivious album are not
// albums: their contents are listed as if they were in the enclosing album.
// An album whose URL is already taken by an earlier album is skipped with a
// warning, as are duplicate image names.
func (l *Loader) Load(ctx context.Context, source string) (*model.Album, error) {
	source, err := filepath.Abs(source)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", source)
	}

	root, err := l.resolver.Resolve(source, nil)
	if err != nil {
		return nil, err
	}
	l.sources = map[string]string{root.URL: source}
	if err := l.fill(ctx, root, source); err != nil {
		return nil, err
	}
	return root, nil
}

// fill appends the contents of dir to album.Items. dir is either the
// album's own source or an omitted directory below it.
func (l *Loader) fill(ctx context.Context, album *model.Album, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dirs, files, err := listDir(dir)
	if err != nil {
		return err
	}

	for _, sub := range dirs {
		if sub == album.Root {
			l.log.Warn().Str("path", sub).Msg("Skipping destination inside source tree")
			continue
		}

		child, err := l.resolver.Resolve(sub, album)
		if errors.Is(err, ErrOmit) {
			l.log.Debug().Str("path", sub).Msg("Listing directory contents in enclosing album")
			if err := l.fill(ctx, album, sub); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if other, ok := l.sources[child.URL]; ok {
			l.log.Warn().Str("path", sub).Str("album", child.URL).Str("taken_by", other).Msg("Skipping album with duplicate URL")
			continue
		}
		l.sources[child.URL] = sub

		if err := l.fill(ctx, child, sub); err != nil {
			return err
		}
		album.Items = append(album.Items, child)
	}

	for _, file := range files {
		image := model.NewImage(album, file)
		if album.HasImage(image.Href) {
			l.log.Warn().Str("path", file).Str("album", album.URL).Msg("Skipping image with duplicate name")
			continue
		}
		album.Items = append(album.Items, image)
	}

	return nil
}

// listDir returns the subdirectories and image files of dir, each sorted by
// name ignoring case. Hidden entries are skipped.
func listDir(dir string) (dirs, files []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			// dangling symlink
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		switch {
		case info.IsDir():
			dirs = append(dirs, path)
		case info.Mode().IsRegular() && model.IsImageFile(name):
			files = append(files, path)
		}
	}

	slices.SortFunc(dirs, compareFold)
	slices.SortFunc(files, compareFold)
	return dirs, files, nil
}

func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(filepath.Base(a)), strings.ToLower(filepath.Base(b))); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

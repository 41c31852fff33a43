package site

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/handiism/photosite/internal/config"
	"github.com/handiism/photosite/internal/model"
)

var (
	// ErrOmit is returned by Resolve for a directory that is not an album:
	// it has no configuration file and its parent is oblivious.
	ErrOmit = errors.New("directory is not an album")

	// ErrNoDestination is returned when the root album has no website root.
	ErrNoDestination = errors.New("no destination root")
)

// Configuration keys with a meaning to the builder. Every other key of an
// album file ends up in Album.Extra.
const (
	keySlug        = "slug"
	keyURL         = "url"
	keyUnlisted    = "unlisted"
	keyDate        = "date"
	keyPrivate     = "private"
	keyTitle       = "title"
	keyCopyright   = "copyright"
	keyTemplate    = "template"
	keyPreview     = "preview"
	keyWatermark   = "watermark"
	keySort        = "sort"
	keyFullscreen  = "fullscreen"
	keyOblivious   = "oblivious"
	keyScale       = "scale"
	keyWatermarker = "watermarker"
	keyThumbnailer = "thumbnailer"
	keyPreviewer   = "previewer"
)

// ignoredKeys are fixed by context and silently ignored when configured.
var ignoredKeys = []string{"source", "root", "name", "href", "destination", "thumbnail", "index"}

var knownKeys = func() map[string]bool {
	known := make(map[string]bool)
	for _, k := range []string{
		keySlug, keyURL, keyUnlisted, keyDate, keyPrivate, keyTitle, keyCopyright,
		keyTemplate, keyPreview, keyWatermark, keySort, keyFullscreen, keyOblivious,
		keyScale, keyWatermarker, keyThumbnailer, keyPreviewer,
	} {
		known[k] = true
	}
	for _, k := range ignoredKeys {
		known[k] = true
	}
	return known
}()

// noWatermark clears an inherited watermark.
const noWatermark = "none"

// Resolver turns a source directory into an Album with its configuration
// resolved against the parent album.
//
// Fields fall in three classes:
//   - static (source, root, name) come from context only
//   - dynamic (slug, url, href, destination, thumbnail, index, unlisted,
//     date) come from the album file or are computed from the parent
//   - inherited (title, copyright, template, preview, watermark, sort,
//     fullscreen, oblivious and the processor commands) come from the album
//     file, else the parent, else a default
type Resolver struct {
	// Root is the website root given to the root album.
	Root string

	// Random feeds private slug generation; nil uses crypto/rand.
	Random io.Reader

	Log        zerolog.Logger
	OnProgress func(ProgressEvent)
}

// NewResolver creates a Resolver for the website root.
func NewResolver(root string, log zerolog.Logger) *Resolver {
	return &Resolver{Root: root, Log: log}
}

// Resolve builds the album for source. parent is nil for the root album.
//
// It returns ErrOmit when source has no album file and parent is oblivious.
// A private album's generated slug is written back to its album file before
// any field is derived from it.
func (r *Resolver) Resolve(source string, parent *model.Album) (*model.Album, error) {
	cfgPath := filepath.Join(source, model.ConfigName)
	file, found, err := config.LoadAlbumFile(cfgPath)
	if err != nil {
		return nil, err
	}
	if !found && parent != nil && parent.Oblivious {
		return nil, ErrOmit
	}

	if found {
		if err := r.persistPrivateSlug(file); err != nil {
			return nil, err
		}
	}

	album := &model.Album{
		Source:     source,
		Name:       filepath.Base(source),
		ConfigPath: cfgPath,
		Parent:     parent,
		IsRoot:     parent == nil,
	}

	if err := r.resolveStatic(album); err != nil {
		return nil, err
	}
	if err := r.resolveDynamic(album, file); err != nil {
		return nil, err
	}
	if err := r.resolveInherited(album, file); err != nil {
		return nil, err
	}

	album.Extra = file.Extra(func(key string) bool { return knownKeys[key] })

	album.Protect(model.IndexName, model.ThumbnailsDir)
	if album.IsRoot {
		album.Protect(model.StaticDir, LockName)
	}

	return album, nil
}

// persistPrivateSlug replaces the private sentinel with a generated token and
// saves the album file, so the secret URL survives later builds.
func (r *Resolver) persistPrivateSlug(file *config.AlbumFile) error {
	slug, hasSlug := file.String(keySlug)
	private, _, err := file.Bool(keyPrivate)
	if err != nil {
		return err
	}
	if slug != PrivateSentinel && !(private && !hasSlug) {
		return nil
	}

	token, err := NewPrivateSlug(r.Random)
	if err != nil {
		return fmt.Errorf("generate private slug for %s: %w", file.Path, err)
	}
	file.Set(keySlug, token)
	file.Set(keyPrivate, "true")
	file.Set(keyUnlisted, "true")
	if err := file.Save(); err != nil {
		return err
	}

	report(r.Log, r.OnProgress, ProgressEvent{
		Message: "Generated private slug " + token,
		Level:   LevelInfo,
		Path:    file.Path,
	})
	return nil
}

func (r *Resolver) resolveStatic(album *model.Album) error {
	if album.IsRoot {
		if r.Root == "" {
			return fmt.Errorf("%w for %s", ErrNoDestination, album.Source)
		}
		root, err := filepath.Abs(r.Root)
		if err != nil {
			return err
		}
		album.Root = root
		return nil
	}

	if album.Parent.Root == "" {
		return fmt.Errorf("%w for %s", ErrNoDestination, album.Source)
	}
	album.Root = album.Parent.Root
	return nil
}

func (r *Resolver) resolveDynamic(album *model.Album, file *config.AlbumFile) error {
	parent := album.Parent

	if slug, ok := file.String(keySlug); ok {
		album.Slug = slug
	} else if !album.IsRoot {
		album.Slug = model.Slugify(album.Name)
	}

	url, ok := file.String(keyURL)
	switch {
	case ok:
	case album.IsRoot:
		url = "/"
	default:
		url = parent.URL + album.Slug + "/"
	}
	album.SetURL(url)

	if !album.IsRoot {
		album.Href = album.URL
		if strings.HasPrefix(album.URL, parent.URL) {
			album.Href = strings.TrimPrefix(album.URL, parent.URL)
		}
	}

	unlisted, _, err := file.Bool(keyUnlisted)
	if err != nil {
		return err
	}
	album.Unlisted = unlisted || album.IsRoot

	private, _, err := file.Bool(keyPrivate)
	if err != nil {
		return err
	}
	album.Private = private

	date, ok, err := file.Time(keyDate)
	if err != nil {
		return err
	}
	if !ok {
		info, err := os.Stat(album.Source)
		if err != nil {
			return err
		}
		date = info.ModTime()
	}
	album.Date = date

	return nil
}

func (r *Resolver) resolveInherited(album *model.Album, file *config.AlbumFile) error {
	parent := album.Parent
	if parent == nil {
		parent = &model.Album{
			Preview:  model.DefaultPreview,
			Sort:     model.SortAscending,
			Commands: model.DefaultCommands(),
		}
	}

	album.Title = stringOr(file, keyTitle, parent.Title)
	album.Copyright = stringOr(file, keyCopyright, parent.Copyright)

	album.Template = parent.Template
	if v, ok := file.String(keyTemplate); ok {
		album.Template = localPath(album.Source, v)
	}

	album.Watermark = parent.Watermark
	if v, ok := file.String(keyWatermark); ok {
		if strings.EqualFold(v, noWatermark) {
			album.Watermark = ""
		} else {
			album.Watermark = localPath(album.Source, v)
		}
	}

	album.Preview = parent.Preview
	if n, ok, err := file.Int(keyPreview); err != nil {
		return err
	} else if ok {
		if model.RoundPreview(n) != n {
			return &config.ConfigError{Path: file.Path, Key: keyPreview, Err: fmt.Errorf("must be one of %v, got %d", model.PreviewSizes, n)}
		}
		album.Preview = n
	}

	album.Sort = parent.Sort
	if v, ok := file.String(keySort); ok {
		order, err := model.ParseSortOrder(v)
		if err != nil {
			return &config.ConfigError{Path: file.Path, Key: keySort, Err: err}
		}
		album.Sort = order
	}

	var err error
	if album.Fullscreen, err = boolOr(file, keyFullscreen, parent.Fullscreen); err != nil {
		return err
	}
	if album.Oblivious, err = boolOr(file, keyOblivious, parent.Oblivious); err != nil {
		return err
	}

	album.Commands = model.Commands{
		Scale:     commandOr(file, album.Source, keyScale, parent.Commands.Scale),
		Watermark: commandOr(file, album.Source, keyWatermarker, parent.Commands.Watermark),
		Thumbnail: commandOr(file, album.Source, keyThumbnailer, parent.Commands.Thumbnail),
		Preview:   commandOr(file, album.Source, keyPreviewer, parent.Commands.Preview),
	}

	return nil
}

func stringOr(file *config.AlbumFile, key, fallback string) string {
	if v, ok := file.String(key); ok {
		return v
	}
	return fallback
}

func boolOr(file *config.AlbumFile, key string, fallback bool) (bool, error) {
	v, ok, err := file.Bool(key)
	if err != nil || !ok {
		return fallback, err
	}
	return v, nil
}

// commandOr resolves a processor command. Relative paths containing a
// separator are taken relative to the declaring album; bare names are left
// for a PATH lookup.
func commandOr(file *config.AlbumFile, dir, key, fallback string) string {
	v, ok := file.String(key)
	if !ok {
		return fallback
	}
	if v == model.Builtin || !strings.ContainsAny(v, `/\`) {
		return v
	}
	return localPath(dir, v)
}

// localPath resolves p against dir unless it is absolute.
func localPath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}

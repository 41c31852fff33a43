package model

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// IndexName is the file name of every album page.
	IndexName = "index.html"

	// ThumbnailsDir is the per-album directory holding thumbnails and the preview.
	ThumbnailsDir = "thumbnails"

	// PreviewName is the file name of the album preview collage inside ThumbnailsDir.
	PreviewName = "all.jpg"

	// StaticDir is the directory under the website root holding static assets.
	StaticDir = "static"

	// ConfigName is the optional per-directory album configuration file.
	ConfigName = "album.cfg"
)

// Album represents one source directory mapped to one destination directory.
//
// Albums are created once per build by the tree loader and only their computed
// fields (item order, image dates and sizes) change afterwards.
//
// Example:
//
//	root := &Album{Source: "/photos", Root: "/www", IsRoot: true}
//	root.SetURL("/")
//	// root.Destination = "/www"
//	// root.Index = "/www/index.html"
type Album struct {
	// Source is the absolute source directory.
	Source string

	// Root is the absolute website root every destination lives under.
	Root string

	// Name is the base name of the source directory.
	Name string

	// Slug is the URL path segment of this album, empty for the root.
	Slug string

	// URL is the absolute URL path; it always begins and ends with "/".
	URL string

	// Href is the link to this album relative to its parent page.
	Href string

	// Destination is Root joined with URL.
	Destination string

	// Thumbnail is the preview collage path.
	Thumbnail string

	// Index is the album page path.
	Index string

	// ConfigPath is the album configuration file, which may not exist.
	ConfigPath string

	Title     string
	Copyright string

	// Template is the page template file; empty selects the built-in one.
	Template string

	// Preview is the number of images in the preview collage: 3, 6 or 9.
	Preview int

	// Watermark is the watermark image applied to scaled images, if any.
	Watermark string

	Sort       SortOrder
	Unlisted   bool
	Oblivious  bool
	Fullscreen bool

	// Private is set when the slug is a generated secret token.
	Private bool

	// Date orders the album among its siblings.
	Date time.Time

	// Commands names the image processors used for this album.
	Commands Commands

	// Protected holds destination base names the cleanup pass never deletes.
	Protected map[string]struct{}

	// Extra holds configuration keys with no meaning to the builder.
	// Templates read them as custom fields.
	Extra map[string]string

	// Items are the child albums and images in source listing order.
	Items []Item

	// Parent is nil for the root album.
	Parent *Album

	IsRoot bool
}

func (*Album) item() {}

// SetURL assigns the album URL and derives every destination path from it.
//
// The URL is normalised to begin and end with a slash.
func (a *Album) SetURL(url string) {
	url = "/" + strings.Trim(url, "/") + "/"
	if url == "//" {
		url = "/"
	}
	a.URL = url
	a.Destination = filepath.Join(a.Root, filepath.FromSlash(strings.TrimPrefix(url, "/")))
	a.Thumbnail = filepath.Join(a.Destination, ThumbnailsDir, PreviewName)
	a.Index = filepath.Join(a.Destination, IndexName)
}

// Protect marks destination base names as exempt from cleanup.
func (a *Album) Protect(names ...string) {
	if a.Protected == nil {
		a.Protected = make(map[string]struct{})
	}
	for _, name := range names {
		a.Protected[name] = struct{}{}
	}
}

// IsProtected reports whether the base name is exempt from cleanup.
func (a *Album) IsProtected(name string) bool {
	_, ok := a.Protected[name]
	return ok
}

// Albums returns the child albums in item order.
func (a *Album) Albums() []*Album {
	var albums []*Album
	for _, item := range a.Items {
		if album, ok := item.(*Album); ok {
			albums = append(albums, album)
		}
	}
	return albums
}

// Images returns the child images in item order.
func (a *Album) Images() []*Image {
	var images []*Image
	for _, item := range a.Items {
		if image, ok := item.(*Image); ok {
			images = append(images, image)
		}
	}
	return images
}

// HasImage reports whether an image with the given href is a direct child.
func (a *Album) HasImage(href string) bool {
	for _, image := range a.Images() {
		if image.Href == href {
			return true
		}
	}
	return false
}

// Count returns the number of nodes in the subtree rooted at a, a included.
func (a *Album) Count() int {
	n := 1
	for _, item := range a.Items {
		if album, ok := item.(*Album); ok {
			n += album.Count()
		} else {
			n++
		}
	}
	return n
}

// Depth returns the number of URL segments below the website root.
func (a *Album) Depth() int {
	trimmed := strings.Trim(a.URL, "/")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "/") + 1
}

// RootPath returns the relative path from this album's page to the website root.
//
// Example:
//
//	album.URL = "/travel/2020/"
//	album.RootPath("static/style.css") // "../../static/style.css"
func (a *Album) RootPath(elem ...string) string {
	rel := strings.Repeat("../", a.Depth())
	joined := path.Join(elem...)
	if joined == "" || joined == "." {
		if rel == "" {
			return "./"
		}
		return rel
	}
	return rel + joined
}

// DisplayTitle returns the title, or the directory name when none is set.
func (a *Album) DisplayTitle() string {
	if a.Title != "" {
		return a.Title
	}
	return a.Name
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9._~-]+`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a directory name into a URL path segment.
//
// Example:
//
//	Slugify("Summer Trip: Part 1") // Returns "summer-trip-part-1"
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-.")
	if slug == "" {
		return "album"
	}
	return slug
}

package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Image represents one source photograph mapped to one full-size destination
// image and one thumbnail.
//
// Paths are computed by NewImage from the owning album. Date, Width and
// Height are resolved lazily by the site builder since reading them costs a
// file access per image.
//
// Example:
//
//	img := NewImage(album, "/photos/travel/IMG_0001.JPG")
//	// img.Href = "IMG_0001.JPG"
//	// img.Destination = "/www/travel/IMG_0001.JPG"
//	// img.Thumbnail = "/www/travel/thumbnails/IMG_0001.JPG"
type Image struct {
	// Source is the source photograph path.
	Source string

	// Name is the file name without extension.
	Name string

	// Href is the destination base name, relative to the album page.
	Href string

	// URL is the absolute URL path of the full-size image.
	URL string

	Destination string
	Thumbnail   string

	// Watermark is inherited from the owning album.
	Watermark string

	// Album is the album the image is listed in.
	Album *Album

	// Date is the capture time; zero until resolved.
	Date         time.Time
	DateResolved bool

	Width  int
	Height int
}

func (*Image) item() {}

// NewImage creates an Image listed in album with computed paths.
func NewImage(album *Album, source string) *Image {
	base := filepath.Base(source)
	return &Image{
		Source:      source,
		Name:        strings.TrimSuffix(base, filepath.Ext(base)),
		Href:        base,
		URL:         album.URL + base,
		Destination: filepath.Join(album.Destination, base),
		Thumbnail:   filepath.Join(album.Destination, ThumbnailsDir, base),
		Watermark:   album.Watermark,
		Album:       album,
	}
}

// IsImageFile reports whether the file name carries a recognised photograph
// extension. The comparison ignores case.
func IsImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

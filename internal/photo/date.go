// Package photo reads capture metadata from photographs.
package photo

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ErrNoDate is returned when a photograph carries no usable capture date.
var ErrNoDate = errors.New("no capture date")

// DateReader returns the capture time of a photograph.
type DateReader interface {
	Date(path string) (time.Time, error)
}

// ExifReader reads capture times from EXIF metadata.
//
// The DateTimeOriginal tag is preferred, falling back to DateTime. Times
// are interpreted in Location, or local time when it is nil, because EXIF
// stores them without a zone.
type ExifReader struct {
	Location *time.Location
}

// NewExifReader creates an ExifReader using local time.
func NewExifReader() *ExifReader {
	return &ExifReader{}
}

// Date returns the capture time of the photograph at path.
//
// A file without EXIF data or without a date tag yields an error wrapping
// ErrNoDate; an unreadable file yields the underlying error.
func (r *ExifReader) Date(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w: %v", path, ErrNoDate, err)
	}

	loc := r.Location
	if loc == nil {
		loc = time.Local
	}

	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			continue
		}
		if t, err := time.ParseInLocation("2006:01:02 15:04:05", s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%s: %w", path, ErrNoDate)
}

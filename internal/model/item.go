package model

import (
	"fmt"
	"strings"
)

// Item is a child of an album: either an *Album or an *Image.
//
// The interface is sealed; use a type switch to tell the variants apart.
type Item interface {
	item()
}

// SortOrder determines how album children are ordered by date.
type SortOrder int

const (
	// SortAscending lists the oldest item first.
	SortAscending SortOrder = iota

	// SortDescending lists the newest item first.
	SortDescending
)

// ParseSortOrder parses the textual sort order of an album configuration.
//
// Accepted values are "ascending"/"asc" and "descending"/"desc", in any case.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascending", "asc":
		return SortAscending, nil
	case "descending", "desc":
		return SortDescending, nil
	}
	return SortAscending, fmt.Errorf("invalid sort order %q", s)
}

// String returns the configuration spelling of the sort order.
func (s SortOrder) String() string {
	if s == SortDescending {
		return "descending"
	}
	return "ascending"
}

// Builtin is the command identifier selecting the in-process image processor.
const Builtin = "builtin"

// Commands names the image processors of an album. Each value is either
// Builtin or an executable invoked with positional arguments.
type Commands struct {
	Scale     string
	Watermark string
	Thumbnail string
	Preview   string
}

// DefaultCommands returns commands that use the built-in processors.
func DefaultCommands() Commands {
	return Commands{
		Scale:     Builtin,
		Watermark: Builtin,
		Thumbnail: Builtin,
		Preview:   Builtin,
	}
}

// PreviewSizes are the collage sizes the preview processor accepts.
var PreviewSizes = []int{3, 6, 9}

// DefaultPreview is the preview size used when no album configures one.
const DefaultPreview = 9

// RoundPreview rounds n down to the nearest supported collage size.
// It returns 0 when n is below the smallest size.
//
// Example:
//
//	RoundPreview(7)  // Returns 6
//	RoundPreview(12) // Returns 9
func RoundPreview(n int) int {
	size := 0
	for _, s := range PreviewSizes {
		if n >= s {
			size = s
		}
	}
	return size
}

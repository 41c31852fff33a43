package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"travel", "travel"},
		{"Summer Trip", "summer-trip"},
		{"Summer Trip: Part 1", "summer-trip-part-1"},
		{"  spaces  ", "spaces"},
		{"a//b", "a-b"},
		{"2020-01", "2020-01"},
		{"???", "album"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestAlbum_SetURL(t *testing.T) {
	root := filepath.FromSlash("/www")

	tests := []struct {
		url      string
		wantURL  string
		wantDest string
	}{
		{"/", "/", root},
		{"", "/", root},
		{"/travel/", "/travel/", filepath.Join(root, "travel")},
		{"travel", "/travel/", filepath.Join(root, "travel")},
		{"/travel/2020", "/travel/2020/", filepath.Join(root, "travel", "2020")},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			album := &Album{Root: root}
			album.SetURL(tt.url)

			assert.Equal(t, tt.wantURL, album.URL)
			assert.Equal(t, tt.wantDest, album.Destination)
			assert.Equal(t, filepath.Join(tt.wantDest, IndexName), album.Index)
			assert.Equal(t, filepath.Join(tt.wantDest, ThumbnailsDir, PreviewName), album.Thumbnail)
		})
	}
}

func TestAlbum_RootPath(t *testing.T) {
	album := &Album{}

	album.SetURL("/")
	assert.Equal(t, "./", album.RootPath())
	assert.Equal(t, "static/style.css", album.RootPath("static", "style.css"))

	album.SetURL("/travel/2020/")
	assert.Equal(t, 2, album.Depth())
	assert.Equal(t, "../../", album.RootPath())
	assert.Equal(t, "../../static/style.css", album.RootPath("static/style.css"))
}

func TestNewImage(t *testing.T) {
	album := &Album{Root: filepath.FromSlash("/www"), Watermark: "/marks/w.png"}
	album.SetURL("/travel/")

	img := NewImage(album, filepath.FromSlash("/photos/travel/IMG_0001.JPG"))

	assert.Equal(t, "IMG_0001", img.Name)
	assert.Equal(t, "IMG_0001.JPG", img.Href)
	assert.Equal(t, "/travel/IMG_0001.JPG", img.URL)
	assert.Equal(t, filepath.FromSlash("/www/travel/IMG_0001.JPG"), img.Destination)
	assert.Equal(t, filepath.FromSlash("/www/travel/thumbnails/IMG_0001.JPG"), img.Thumbnail)
	assert.Equal(t, "/marks/w.png", img.Watermark)
	assert.Same(t, album, img.Album)
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("a.jpg"))
	assert.True(t, IsImageFile("a.JPEG"))
	assert.True(t, IsImageFile("a.JpG"))
	assert.False(t, IsImageFile("a.png"))
	assert.False(t, IsImageFile("album.cfg"))
	assert.False(t, IsImageFile("jpg"))
}

func TestAlbum_Children(t *testing.T) {
	parent := &Album{Root: "/www"}
	parent.SetURL("/")
	child := &Album{Root: "/www", Parent: parent}
	child.SetURL("/child/")
	a := NewImage(parent, "/src/a.jpg")
	b := NewImage(parent, "/src/b.jpg")
	parent.Items = []Item{child, a, b}

	require.Len(t, parent.Albums(), 1)
	require.Len(t, parent.Images(), 2)
	assert.True(t, parent.HasImage("b.jpg"))
	assert.False(t, parent.HasImage("c.jpg"))
	assert.Equal(t, 4, parent.Count())
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input   string
		want    SortOrder
		wantErr bool
	}{
		{"ascending", SortAscending, false},
		{"ASC", SortAscending, false},
		{"descending", SortDescending, false},
		{" desc ", SortDescending, false},
		{"random", SortAscending, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortOrder(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundPreview(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0}, {2, 0}, {3, 3}, {5, 3}, {6, 6}, {7, 6}, {8, 6}, {9, 9}, {20, 9},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundPreview(tt.n), "RoundPreview(%d)", tt.n)
	}
}

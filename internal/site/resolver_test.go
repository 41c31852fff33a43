package site

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/photosite/internal/config"
	"github.com/handiism/photosite/internal/model"
)

func resolveTree(t *testing.T, files map[string]string) (src string, root *model.Album, resolver *Resolver) {
	t.Helper()
	base := t.TempDir()
	src = filepath.Join(base, "photos")
	writeTree(t, src, files)

	resolver = NewResolver(filepath.Join(base, "www"), zerolog.Nop())
	root, err := resolver.Resolve(src, nil)
	require.NoError(t, err)
	return src, root, resolver
}

func TestResolve_Root(t *testing.T) {
	src, root, resolver := resolveTree(t, map[string]string{
		model.ConfigName: "title = Photos\nunlisted = false\ncamera = Leica\n[meta]\nauthor = Ann\n",
	})

	assert.True(t, root.IsRoot)
	assert.Nil(t, root.Parent)
	assert.Equal(t, "/", root.URL)
	assert.Equal(t, filepath.Clean(resolver.Root), root.Destination)
	assert.Equal(t, filepath.Join(resolver.Root, "index.html"), root.Index)
	assert.Equal(t, filepath.Join(src, model.ConfigName), root.ConfigPath)
	assert.True(t, root.Unlisted, "the root is never listed")
	assert.Equal(t, "Photos", root.Title)
	assert.Equal(t, model.DefaultPreview, root.Preview)
	assert.Equal(t, model.SortAscending, root.Sort)
	assert.Equal(t, model.DefaultCommands(), root.Commands)
	assert.Equal(t, map[string]string{"camera": "Leica", "meta.author": "Ann"}, root.Extra)

	for _, name := range []string{model.IndexName, model.ThumbnailsDir, model.StaticDir, LockName} {
		assert.True(t, root.IsProtected(name), name)
	}
}

func TestResolve_NoDestination(t *testing.T) {
	src := t.TempDir()
	_, err := NewResolver("", zerolog.Nop()).Resolve(src, nil)
	require.ErrorIs(t, err, ErrNoDestination)
}

func TestResolve_Inheritance(t *testing.T) {
	src, root, resolver := resolveTree(t, map[string]string{
		model.ConfigName:                  "title = Photos\ncopyright = Ann\nwatermark = mark.png\npreview = 6\nsort = desc\nfullscreen = yes\ntemplate = tpl/page.html\n",
		"Summer 2020/" + model.ConfigName: "title = Summer\nwatermark = none\n",
	})

	child, err := resolver.Resolve(filepath.Join(src, "Summer 2020"), root)
	require.NoError(t, err)

	assert.Equal(t, "Summer", child.Title)
	assert.Equal(t, "Ann", child.Copyright)
	assert.Empty(t, child.Watermark)
	assert.Equal(t, filepath.Join(src, "mark.png"), root.Watermark)
	assert.Equal(t, 6, child.Preview)
	assert.Equal(t, model.SortDescending, child.Sort)
	assert.True(t, child.Fullscreen)
	assert.Equal(t, filepath.Join(src, "tpl", "page.html"), child.Template)

	assert.False(t, child.IsRoot)
	assert.Same(t, root, child.Parent)
	assert.Equal(t, "summer-2020", child.Slug)
	assert.Equal(t, "/summer-2020/", child.URL)
	assert.Equal(t, "summer-2020/", child.Href)
	assert.Equal(t, filepath.Join(resolver.Root, "summer-2020"), child.Destination)
	assert.Equal(t, filepath.Join(resolver.Root, "summer-2020", "thumbnails", "all.jpg"), child.Thumbnail)
	assert.False(t, child.Unlisted)
	assert.True(t, child.IsProtected(model.IndexName))
	assert.False(t, child.IsProtected(model.StaticDir))
}

func TestResolve_DynamicFields(t *testing.T) {
	src, root, resolver := resolveTree(t, map[string]string{
		"a/" + model.ConfigName: "slug = first\nunlisted = 1\ndate = 2019-05-04\n",
		"b/" + model.ConfigName: "url = /elsewhere/deep\n",
		"c/" + model.ConfigName: "destination = /tmp/ignored\nindex = x.html\n",
	})

	a, err := resolver.Resolve(filepath.Join(src, "a"), root)
	require.NoError(t, err)
	assert.Equal(t, "/first/", a.URL)
	assert.True(t, a.Unlisted)
	assert.Equal(t, time.Date(2019, 5, 4, 0, 0, 0, 0, time.UTC), a.Date.UTC())

	b, err := resolver.Resolve(filepath.Join(src, "b"), root)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/deep/", b.URL)
	assert.Equal(t, "elsewhere/deep/", b.Href)
	assert.Equal(t, filepath.Join(resolver.Root, "elsewhere", "deep"), b.Destination)

	c, err := resolver.Resolve(filepath.Join(src, "c"), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolver.Root, "c"), c.Destination)
	assert.Equal(t, filepath.Join(resolver.Root, "c", "index.html"), c.Index)
	assert.Empty(t, c.Extra)
	assert.Equal(t, past, c.Date.UTC(), "date defaults to the directory time")
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  string
		key  string
	}{
		{name: "preview not 3, 6 or 9", cfg: "preview = 7\n", key: "preview"},
		{name: "preview not a number", cfg: "preview = many\n", key: "preview"},
		{name: "sort", cfg: "sort = sideways\n", key: "sort"},
		{name: "bool", cfg: "oblivious = perhaps\n", key: "oblivious"},
		{name: "date", cfg: "date = someday\n", key: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, root, resolver := resolveTree(t, map[string]string{
				"bad/" + model.ConfigName: tt.cfg,
			})

			_, err := resolver.Resolve(filepath.Join(src, "bad"), root)
			var cfgErr *config.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.key, cfgErr.Key)
			assert.Equal(t, filepath.Join(src, "bad", model.ConfigName), cfgErr.Path)
		})
	}
}

func TestResolve_Commands(t *testing.T) {
	src, root, resolver := resolveTree(t, map[string]string{
		model.ConfigName:          "scale = convert-web\nthumbnailer = ./bin/thumb\n",
		"sub/" + model.ConfigName: "previewer = /usr/local/bin/collage\n",
	})

	sub, err := resolver.Resolve(filepath.Join(src, "sub"), root)
	require.NoError(t, err)

	assert.Equal(t, model.Commands{
		Scale:     "convert-web",
		Watermark: model.Builtin,
		Thumbnail: filepath.Join(src, "bin", "thumb"),
		Preview:   "/usr/local/bin/collage",
	}, sub.Commands)
}

func TestResolve_Oblivious(t *testing.T) {
	src, root, resolver := resolveTree(t, map[string]string{
		model.ConfigName:           "oblivious = true\n",
		"raw/x.jpg":                "x",
		"kept/" + model.ConfigName: "title = Kept\n",
	})

	_, err := resolver.Resolve(filepath.Join(src, "raw"), root)
	require.ErrorIs(t, err, ErrOmit)

	kept, err := resolver.Resolve(filepath.Join(src, "kept"), root)
	require.NoError(t, err)
	assert.True(t, kept.Oblivious)
}

func TestResolve_PrivateSlugIsPersisted(t *testing.T) {
	src, root, resolver := resolveTree(t, map[string]string{
		"secret/" + model.ConfigName: "slug = private\ntitle = Secret\n",
		"hidden/" + model.ConfigName: "private = true\n",
	})
	resolver.Random = bytes.NewReader(bytes.Repeat([]byte{7, 200, 31, 99}, 64))

	first, err := resolver.Resolve(filepath.Join(src, "secret"), root)
	require.NoError(t, err)
	require.True(t, IsPrivateSlug(first.Slug), first.Slug)
	assert.True(t, first.Private)
	assert.True(t, first.Unlisted)
	assert.Equal(t, "/"+first.Slug+"/", first.URL)

	saved, err := os.ReadFile(filepath.Join(src, "secret", model.ConfigName))
	require.NoError(t, err)
	assert.Contains(t, string(saved), first.Slug)
	assert.Contains(t, string(saved), "Secret")

	resolver.Random = nil
	second, err := resolver.Resolve(filepath.Join(src, "secret"), root)
	require.NoError(t, err)
	assert.Equal(t, first.Slug, second.Slug)

	hidden, err := resolver.Resolve(filepath.Join(src, "hidden"), root)
	require.NoError(t, err)
	assert.True(t, IsPrivateSlug(hidden.Slug), hidden.Slug)
	assert.NotEqual(t, first.Slug, hidden.Slug)
}

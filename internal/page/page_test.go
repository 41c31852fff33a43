package page

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/photosite/internal/model"
)

func testTree(t *testing.T) (*model.Album, *model.Album, *model.Album) {
	t.Helper()
	root := &model.Album{Root: t.TempDir(), Name: "photos", Title: "My Photos", IsRoot: true, Unlisted: true}
	root.SetURL("/")

	listed := &model.Album{Root: root.Root, Name: "travel", Title: "Travel", Slug: "travel", Href: "travel/", Parent: root}
	listed.SetURL("/travel/")
	require.NoError(t, os.MkdirAll(filepath.Dir(listed.Thumbnail), 0755))
	require.NoError(t, os.WriteFile(listed.Thumbnail, []byte("jpg"), 0644))

	hidden := &model.Album{Root: root.Root, Name: "secret", Slug: "secret", Href: "secret/", Parent: root, Unlisted: true}
	hidden.SetURL("/secret/")
	require.NoError(t, os.MkdirAll(filepath.Dir(hidden.Thumbnail), 0755))
	require.NoError(t, os.WriteFile(hidden.Thumbnail, []byte("jpg"), 0644))

	return root, listed, hidden
}

func TestNew_FiltersAlbums(t *testing.T) {
	root, listed, hidden := testTree(t)

	noPreview := &model.Album{Root: root.Root, Name: "empty", Slug: "empty", Href: "empty/", Parent: root}
	noPreview.SetURL("/empty/")

	img := model.NewImage(root, "/src/beach.jpg")

	p := New(root, []model.Item{hidden, listed, noPreview, img})

	require.Len(t, p.Albums, 1)
	assert.Equal(t, "Travel", p.Albums[0].Title)
	assert.Equal(t, "travel/thumbnails/all.jpg", p.Albums[0].Thumbnail)
	require.Len(t, p.Images, 1)
	assert.Equal(t, "thumbnails/beach.jpg", p.Images[0].Thumbnail)
	assert.Equal(t, "My Photos", p.Title)
}

func TestNew_UpLink(t *testing.T) {
	root, listed, _ := testTree(t)

	moved := &model.Album{Root: root.Root, Name: "deep", Parent: listed}
	moved.SetURL("/elsewhere/deep/")

	assert.Empty(t, New(root, nil).Up)
	assert.Equal(t, "../", New(listed, nil).Up)
	assert.Equal(t, "../../travel/", New(moved, nil).Up)
}

func TestRenderer_Builtin(t *testing.T) {
	root, listed, _ := testTree(t)
	root.Copyright = "Jane Doe"
	root.Extra = map[string]string{"description": "Pictures <of> things"}

	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, New(root, []model.Item{listed, model.NewImage(root, "/src/a.jpg")})))

	out := buf.String()
	assert.Contains(t, out, "<title>My Photos</title>")
	assert.Contains(t, out, `href="static/style.css"`)
	assert.Contains(t, out, `href="travel/"`)
	assert.Contains(t, out, `src="thumbnails/a.jpg"`)
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Pictures &lt;of&gt; things")
}

func TestRenderer_NestedRootPath(t *testing.T) {
	_, listed, _ := testTree(t)

	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, New(listed, nil)))
	assert.Contains(t, buf.String(), `href="../static/style.css"`)
	assert.Contains(t, buf.String(), `<a class="up" href="../">`)
}

func TestRenderer_CustomTemplate(t *testing.T) {
	root, _, _ := testTree(t)
	tmpl := filepath.Join(t.TempDir(), "custom.html")
	require.NoError(t, os.WriteFile(tmpl, []byte(`{{ .Title }}|{{ index .Album.Extra "mood" }}|{{ .Root "x.css" }}`), 0644))
	root.Template = tmpl
	root.Extra = map[string]string{"mood": "sunny"}

	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, New(root, nil)))
	assert.Equal(t, "My Photos|sunny|x.css", buf.String())
}

func TestRenderer_TemplateErrors(t *testing.T) {
	root, _, _ := testTree(t)
	r, err := NewRenderer()
	require.NoError(t, err)

	root.Template = filepath.Join(t.TempDir(), "missing.html")
	err = r.Render(&bytes.Buffer{}, New(root, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.html")

	broken := filepath.Join(t.TempDir(), "broken.html")
	require.NoError(t, os.WriteFile(broken, []byte(`{{ .NoSuchField }}`), 0644))
	root.Template = broken
	err = r.Render(&bytes.Buffer{}, New(root, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render /")
}

func TestStatic(t *testing.T) {
	data, err := fs.ReadFile(Static(), "style.css")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

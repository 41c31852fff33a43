// Package page renders album index pages.
//
// Pages are produced with html/template. The built-in template and the
// stylesheet it links to are embedded in the binary; albums may name their
// own template file instead. Templates receive a *Page.
package page

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	ioutils "github.com/handiism/photosite/internal/io"
	"github.com/handiism/photosite/internal/model"
)

//go:embed templates/album.html
var defaultTemplate string

//go:embed static
var staticFiles embed.FS

// Static returns the bundled static assets, rooted at the asset directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page is the data a template renders.
type Page struct {
	// Album is the album with its fully resolved configuration.
	Album *model.Album

	Title string

	// Up links to the parent album's page. Empty on the root page.
	Up string

	// Albums are the listed child albums in sort order. Unlisted albums and
	// albums without a preview are left out.
	Albums []AlbumLink

	// Images are the child images in sort order.
	Images []ImageLink

	Generated time.Time
}

// AlbumLink is a child album as shown on its parent's page.
type AlbumLink struct {
	Album     *model.Album
	Title     string
	Href      string
	Thumbnail string
	Date      time.Time
}

// ImageLink is a child image as shown on its album's page.
type ImageLink struct {
	Image     *model.Image
	Name      string
	Href      string
	Thumbnail string
	Width     int
	Height    int
	Date      time.Time
}

// New builds the page of album listing items, which must already be sorted.
func New(album *model.Album, items []model.Item) *Page {
	p := &Page{
		Album:     album,
		Title:     album.DisplayTitle(),
		Generated: time.Now(),
	}
	if album.Parent != nil {
		p.Up = album.RootPath(strings.TrimPrefix(album.Parent.URL, "/"))
		if !strings.HasSuffix(p.Up, "/") {
			p.Up += "/"
		}
	}

	for _, item := range items {
		switch it := item.(type) {
		case *model.Album:
			if it.Unlisted || !ioutils.Exists(it.Thumbnail) {
				continue
			}
			p.Albums = append(p.Albums, AlbumLink{
				Album:     it,
				Title:     it.DisplayTitle(),
				Href:      it.Href,
				Thumbnail: it.Href + path.Join(model.ThumbnailsDir, model.PreviewName),
				Date:      it.Date,
			})
		case *model.Image:
			p.Images = append(p.Images, ImageLink{
				Image:     it,
				Name:      it.Name,
				Href:      it.Href,
				Thumbnail: path.Join(model.ThumbnailsDir, it.Href),
				Width:     it.Width,
				Height:    it.Height,
				Date:      it.Date,
			})
		}
	}

	return p
}

// Root returns the path from this page to a file under the website root,
// for links to static assets.
//
//	{{ .Root "static/style.css" }}
func (p *Page) Root(elem ...string) string {
	return p.Album.RootPath(elem...)
}

var funcs = template.FuncMap{
	"bytes": func(n int64) string { return humanize.Bytes(uint64(n)) },
	"ago":   humanize.Time,
	"date":  func(t time.Time) string { return t.Format("2 January 2006") },
}

// Renderer executes page templates.
//
// Custom templates are parsed on first use and cached by path. A Renderer
// is not safe for concurrent use.
type Renderer struct {
	builtin *template.Template
	cache   map[string]*template.Template
}

// NewRenderer creates a Renderer with the built-in template parsed.
func NewRenderer() (*Renderer, error) {
	builtin, err := template.New("album.html").Funcs(funcs).Parse(defaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse built-in template: %w", err)
	}
	return &Renderer{
		builtin: builtin,
		cache:   make(map[string]*template.Template),
	}, nil
}

// Render writes the page to w using the album's template.
func (r *Renderer) Render(w io.Writer, p *Page) error {
	tmpl, err := r.template(p.Album.Template)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("render %s: %w", p.Album.URL, err)
	}
	return nil
}

func (r *Renderer) template(file string) (*template.Template, error) {
	if file == "" {
		return r.builtin, nil
	}
	if tmpl, ok := r.cache[file]; ok {
		return tmpl, nil
	}

	tmpl, err := template.New(filepath.Base(file)).Funcs(funcs).ParseFiles(file)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", file, err)
	}
	r.cache[file] = tmpl
	return tmpl, nil
}

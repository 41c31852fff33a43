package ioutils

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration (watermarks)
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// ImageConfig holds the sizes used by ImageService.
type ImageConfig struct {
	// MaxSize bounds the width and height of scaled web images.
	MaxSize int

	// ThumbnailSize is the edge of the square thumbnails.
	ThumbnailSize int

	// TileSize is the edge of one square tile in a preview collage.
	TileSize int

	// Quality is the JPEG encoding quality, 1-100.
	Quality int
}

// previewColumns is the number of tiles per collage row.
const previewColumns = 3

// ImageService provides the built-in image processing operations.
//
// ImageService is used to:
//   - Scale photographs to fit the web image size
//   - Stamp a watermark onto scaled photographs
//   - Crop square thumbnails
//   - Composite album preview collages from thumbnails
//
// Example usage:
//
//	svc := NewImageService(ImageConfig{MaxSize: 1600, ThumbnailSize: 240, TileSize: 160, Quality: 90})
//	err := svc.Scale(ctx, "/photos/beach.jpg", "/www/beach.jpg")
//	err = svc.Thumbnail(ctx, "/photos/beach.jpg", "/www/thumbnails/beach.jpg")
type ImageService struct {
	cfg ImageConfig
}

// NewImageService creates a new ImageService.
func NewImageService(cfg ImageConfig) *ImageService {
	return &ImageService{cfg: cfg}
}

// Scale writes src resized to fit within the configured maximum size.
//
// The aspect ratio is preserved and EXIF orientation is applied. Images
// already smaller than the maximum are re-encoded at their own size.
func (s *ImageService) Scale(ctx context.Context, src, dst string) error {
	img, err := s.open(ctx, src)
	if err != nil {
		return err
	}
	return s.save(fit(img, s.cfg.MaxSize), dst)
}

// Watermark writes src scaled as by Scale with mark blended into the
// bottom right corner.
//
// A mark wider than a quarter of the photograph is shrunk to that width.
func (s *ImageService) Watermark(ctx context.Context, src, mark, dst string) error {
	img, err := s.open(ctx, src)
	if err != nil {
		return err
	}
	wm, err := imaging.Open(mark)
	if err != nil {
		return fmt.Errorf("open watermark: %w", err)
	}

	scaled := fit(img, s.cfg.MaxSize)
	bounds := scaled.Bounds()

	if maxWidth := bounds.Dx() / 4; maxWidth > 0 && wm.Bounds().Dx() > maxWidth {
		wm = imaging.Resize(wm, maxWidth, 0, imaging.Lanczos)
	}

	margin := bounds.Dx() / 50
	pos := image.Pt(
		bounds.Max.X-wm.Bounds().Dx()-margin,
		bounds.Max.Y-wm.Bounds().Dy()-margin,
	)

	return s.save(imaging.Overlay(scaled, wm, pos, 0.6), dst)
}

// Thumbnail writes a square thumbnail of src, cropped around the centre.
func (s *ImageService) Thumbnail(ctx context.Context, src, dst string) error {
	img, err := s.open(ctx, src)
	if err != nil {
		return err
	}
	size := s.cfg.ThumbnailSize
	return s.save(imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos), dst)
}

// Composite writes a collage of tiles, three per row, in the given order.
//
// The number of tiles must be a positive multiple of three. Tiles are decoded
// concurrently.
func (s *ImageService) Composite(ctx context.Context, tiles []string, dst string) error {
	if len(tiles) == 0 || len(tiles)%previewColumns != 0 {
		return fmt.Errorf("composite needs a multiple of %d tiles, got %d", previewColumns, len(tiles))
	}

	size := s.cfg.TileSize
	decoded := make([]image.Image, len(tiles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(previewColumns)
	for i, tile := range tiles {
		g.Go(func() error {
			img, err := s.open(ctx, tile)
			if err != nil {
				return err
			}
			decoded[i] = imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	rows := len(tiles) / previewColumns
	canvas := imaging.New(previewColumns*size, rows*size, color.White)
	for i, tile := range decoded {
		pos := image.Pt((i%previewColumns)*size, (i/previewColumns)*size)
		canvas = imaging.Paste(canvas, tile, pos)
	}

	return s.save(canvas, dst)
}

// Dimensions returns the pixel size of the image at path without decoding
// the pixel data.
func Dimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func (s *ImageService) open(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return img, nil
}

func (s *ImageService) save(img image.Image, dst string) error {
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	quality := s.cfg.Quality
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	return imaging.Save(img, dst, imaging.JPEGQuality(quality))
}

// fit scales img down so that its longer side is at most size pixels.
// Smaller images are returned unchanged.
func fit(img image.Image, size int) image.Image {
	b := img.Bounds()
	long := max(b.Dx(), b.Dy())
	if size <= 0 || long <= size {
		return img
	}

	w := b.Dx() * size / long
	h := b.Dy() * size / long
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

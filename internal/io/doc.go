// Package ioutils provides file system and image processing utilities.
//
// # File Operations
//
//	// Copy a file
//	err := ioutils.CopyFile(ctx, "/src/style.css", "/www/static/style.css")
//
//	// Copy a bundled asset tree, skipping files that are up to date
//	n, err := ioutils.CopyFS(ctx, assets, "/www/static")
//
//	// Look up a modification time
//	mtime, exists, err := ioutils.ModTime("/www/index.html")
//
// # Image Processing
//
// The ImageService implements the built-in image processors:
//
//	svc := ioutils.NewImageService(ioutils.ImageConfig{MaxSize: 1600, ThumbnailSize: 240})
//
//	// Scale to fit within 1600x1600
//	err := svc.Scale(ctx, "/photos/beach.jpg", "/www/beach.jpg")
//
//	// Three, six or nine thumbnails into one collage
//	err = svc.Composite(ctx, thumbnails, "/www/thumbnails/all.jpg")
package ioutils

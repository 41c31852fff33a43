// Package ioutils provides file system utilities for photosite.
//
// This package contains functions for:
//   - File copying and writing
//   - Copying bundled asset trees
//   - Directory creation
//   - Modification time lookups
//
// All functions that accept a context.Context check it for cancellation
// before starting, though file operations themselves are not interruptible.
package ioutils

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The source file must exist and be readable.
//
// Example:
//
//	err := CopyFile(ctx, "/assets/style.css", "/www/static/style.css")
func CopyFile(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	return writeFrom(dst, sourceFile)
}

// WriteFile writes data to a file, creating it and its parent directories
// if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CopyFS copies every file of fsys into the directory dst.
//
// Files whose destination is at least as new as the source are left alone,
// so repeated copies of an unchanged tree write nothing. Sources without a
// modification time, such as embedded files, are only copied when missing.
// It returns the number of files written.
//
// Example:
//
//	n, err := CopyFS(ctx, os.DirFS("/assets"), "/www/static")
func CopyFS(ctx context.Context, fsys fs.FS, dst string) (int, error) {
	written := 0
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		target := filepath.Join(dst, filepath.FromSlash(path))
		if d.IsDir() {
			return EnsureDir(target)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if mtime, ok, err := ModTime(target); err != nil {
			return err
		} else if ok && !info.ModTime().After(mtime) {
			return nil
		}

		src, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		if err := writeFrom(target, src); err != nil {
			return err
		}
		written++
		return nil
	})
	return written, err
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// ModTime returns the modification time of path.
//
// ok is false, with a nil error, when the path does not exist.
func ModTime(path string) (mtime time.Time, ok bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return info.ModTime(), true, nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeFrom(dst string, r io.Reader) error {
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, r); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}

// Package site turns a tree of photograph directories into a static website.
//
// # Loading
//
// A Loader walks the source directory and returns an album tree. Each
// directory becomes an Album whose configuration is resolved by a Resolver
// from its album.cfg file, its parent album and built-in defaults:
//
//	resolver := site.NewResolver("/var/www/photos", log)
//	root, err := site.NewLoader(resolver, log).Load(ctx, "/home/me/photos")
//
// Below an album with oblivious = true, directories without album.cfg are not
// albums: their images are listed in the enclosing album.
//
// An album whose file sets slug = private gets a random 16 character slug on
// its first build. The slug is written back to album.cfg so the secret URL is
// stable across builds.
//
// # Building
//
// A Builder updates the destination tree in post-order:
//
//  1. Lock the website root and copy the static assets
//  2. Regenerate images whose source is strictly newer than the destination
//  3. Delete destination entries that no longer belong to any child
//  4. Rebuild the preview and index of every album with a changed child, a
//     changed album.cfg or a missing artifact
//
//	b := site.NewBuilder(tools, renderer, photo.NewExifReader(), site.Options{Log: log})
//	changed, err := b.Build(ctx, root)
//
// A second build of an unchanged source tree runs no processor at all.
//
// # Progress Tracking
//
// Progress is reported via the Options.OnProgress callback and mirrored to
// the zerolog logger:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	    Path    string
//	}
//
// Builder.Progress returns processed and total node counts for progress bars.
package site

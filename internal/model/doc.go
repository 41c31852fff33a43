// Package model defines the in-memory website tree built from a source
// directory of photographs.
//
// # Album
//
// Album maps one source directory to one destination directory and page:
//
//	album := &model.Album{Source: src, Root: "/www", Slug: "travel"}
//	album.SetURL(parent.URL + album.Slug)
//	fmt.Println(album.Destination) // "/www/travel"
//	fmt.Println(album.Index)       // "/www/travel/index.html"
//
// # Image
//
// Image maps one photograph to a full-size image and a thumbnail:
//
//	img := model.NewImage(album, "/photos/travel/beach.jpg")
//	fmt.Println(img.Thumbnail) // "/www/travel/thumbnails/beach.jpg"
//
// # Items
//
// Album.Items holds both variants through the sealed Item interface, in
// source listing order: directories first, then files.
package model

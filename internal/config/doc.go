// Package config provides configuration management for photosite.
//
// This package handles two kinds of configuration:
//   - Settings: program options loaded from a JSON file and PHOTOSITE_*
//     environment variables
//   - AlbumFile: the optional album.cfg file of each source directory
//
// # Settings
//
//	settings, err := config.Load("/path/to/photosite.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//	err = settings.ApplyEnv(".env")
//
// # Album Files
//
//	file, found, err := config.LoadAlbumFile("/photos/travel/album.cfg")
//	if found {
//	    title, _ := file.String("title")
//	    preview, _, err := file.Int("preview")
//	}
//
// Album files are flat "key = value" lines. Booleans accept tokens such as
// true, 1, yes and on.
package config

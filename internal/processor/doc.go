// Package processor runs the image processing steps of a build.
//
// There are four steps, each called with fixed positional arguments:
//
//	scale(source, destination)
//	watermark(source, watermark, destination)
//	thumbnail(source, destination)
//	preview(image1, ..., imageN, destination)   N in {3, 6, 9}
//
// Albums name the implementation of each step. The identifier "builtin"
// selects the in-process ImageService; any other identifier is an
// executable, so existing shell scripts around an image tool can be used:
//
//	# album.cfg
//	scale       = /usr/local/bin/scale.sh
//	previewer   = builtin
package processor

package site

import (
	"math/rand/v2"

	"github.com/handiism/photosite/internal/model"
)

// MinPreviewImages is the smallest number of candidates a preview needs.
var MinPreviewImages = model.PreviewSizes[0]

// SelectCandidates returns the thumbnails of the images eligible for the
// album's preview collage, in item order.
//
// Images whose file name also appears among the parent album's images are
// left out: a picture promoted to the parent page should not show up again
// in the collage that represents the album on that same page.
func SelectCandidates(album *model.Album) []string {
	var candidates []string
	for _, image := range album.Images() {
		if album.Parent != nil && album.Parent.HasImage(image.Href) {
			continue
		}
		candidates = append(candidates, image.Thumbnail)
	}
	return candidates
}

// PreviewSize returns how many of available candidates a collage configured
// for configured images uses: the configured size clamped to availability,
// rounded down to 3, 6 or 9. clamped reports whether availability limited it.
// A size of 0 means no preview can be made.
//
// Example:
//
//	PreviewSize(7, 9) // Returns 6, true
func PreviewSize(available, configured int) (size int, clamped bool) {
	size = configured
	if available < size {
		size = available
		clamped = true
	}
	return model.RoundPreview(size), clamped
}

// choose returns n candidates from a uniformly random permutation.
// A nil r uses the global source.
func choose(r *rand.Rand, candidates []string, n int) []string {
	shuffled := make([]string, len(candidates))
	copy(shuffled, candidates)

	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if r != nil {
		r.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}
	return shuffled[:n]
}

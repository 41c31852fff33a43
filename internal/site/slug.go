package site

import (
	"crypto/rand"
	"io"
	"math/big"
	"regexp"
)

// PrivateSentinel is the slug value that requests a generated secret slug.
const PrivateSentinel = "private"

// Token alphabets. Letters that are easily misread when a URL is read aloud
// or typed by hand are left out.
const (
	tokenFirst  = "123456789"
	tokenRest   = "abcdefghjkpqrstuvwxyz23456789"
	tokenLength = 16
)

var privateSlugPattern = regexp.MustCompile(`^[1-9][a-hjkp-z2-9]{15}$`)

// NewPrivateSlug returns a random token matching [1-9][a-hjkp-z2-9]{15},
// drawing uniformly from r. A nil r uses crypto/rand.
func NewPrivateSlug(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}

	token := make([]byte, tokenLength)
	for i := range token {
		alphabet := tokenRest
		if i == 0 {
			alphabet = tokenFirst
		}
		n, err := rand.Int(r, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		token[i] = alphabet[n.Int64()]
	}
	return string(token), nil
}

// IsPrivateSlug reports whether slug has the shape of a generated token.
func IsPrivateSlug(slug string) bool {
	return privateSlugPattern.MatchString(slug)
}

package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify turns an episode title into a filesystem-safe stem:
// "My Title: Äß!" -> "my-title-a". Empty results fall back to "episode" so
// output naming never degenerates.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	// Decompose accents (NFD) and drop combining marks.
	decomposed := norm.NFD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))

	prevHyphen := true // also trims leading hyphens
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > 80 {
		slug = strings.Trim(slug[:80], "-")
	}
	if slug == "" {
		return "episode"
	}
	return slug
}

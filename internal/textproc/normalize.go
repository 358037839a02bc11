package textproc

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// zeroWidth removes the zero-width and BOM code points that slip into
// copy-pasted post bodies and confuse the synthesis service.
var zeroWidth = strings.NewReplacer(
	"\u200b", "", // zero width space
	"\u200c", "", // zero width non-joiner
	"\u200d", "", // zero width joiner
	"\ufeff", "", // BOM
	"\u2060", "", // word joiner
)

// Normalize prepares raw post text for parsing: line endings collapsed to LF,
// zero-width and control characters stripped (tab and newline kept), NFC form.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = zeroWidth.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= ' ' || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}
	return norm.NFC.String(b.String())
}

const strictAllowed = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 .,!?;:'\"-()[]{}%/:+&=_"

// StrictClean replaces anything outside a conservative ASCII set with a space.
// Optional, for inputs that keep tripping the service's markup parser.
func StrictClean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(strictAllowed, r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

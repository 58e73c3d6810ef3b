// Package matcher implements name normalization and fuzzy resolution of
// extracted worker names against the pay-rate directory.
package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a raw worker name for comparison: lowercase,
// accents stripped, anything outside [a-z0-9 ] removed, whitespace collapsed.
// Two names that differ only by case, accents or punctuation normalize
// identically; that is the equality notion the matcher relies on.
//
// Normalize is pure and total: it never fails, and empty input yields "".
func Normalize(raw string) string {
	lower := strings.ToLower(raw)

	// Decompose so accents become combining marks, then drop the marks.
	decomposed := norm.NFD.String(lower)

	var b strings.Builder
	b.Grow(len(decomposed))
	space := false
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark; skip
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

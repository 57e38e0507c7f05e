package document

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify converts a name into a URL-safe slug: lowercase, alphanumerics
// preserved (non-ASCII letters included), every other rune collapsed to a
// single dash, leading and trailing dashes trimmed.
//
// Input is NFC-normalized first so composed and decomposed spellings of the
// same name produce the same slug. Slugify is idempotent.
func Slugify(name string) string {
	name = norm.NFC.String(name)
	name = strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(name))
	lastDash := true // suppress a leading dash
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

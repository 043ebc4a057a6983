package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// strips combining marks so that accented and unaccented spellings
// compare equal, e.g. "Équipe" -> "Equipe"
var foldDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize maps a name or key onto a case, diacritic and whitespace
// insensitive form used for substring matching.
func Normalize(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err == nil {
		name = folded
	}
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// ContainsNormalized reports whether the normalized needle occurs in the
// normalized haystack.
func ContainsNormalized(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}

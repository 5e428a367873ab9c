package reconcile

import (
	"strings"
	"unicode"
)

var accentFold = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ä': 'a', 'ã': 'a', 'å': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o', 'ø': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ý': 'y', 'ÿ': 'y',
	'ç': 'c', 'ñ': 'n', 'š': 's', 'ž': 'z', 'ł': 'l',
	'œ': 'o', 'æ': 'a', 'ß': 's',
}

// NormalizeName produces the comparison key used for cross-operator
// name linking: lowercased, accents stripped, every run of
// non-alphanumerics collapsed to a single space.
func NormalizeName(name string) string {
	var builder strings.Builder
	builder.Grow(len(name))

	pendingSpace := false
	for _, r := range strings.ToLower(name) {
		if folded, exists := accentFold[r]; exists {
			r = folded
		}

		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && builder.Len() > 0 {
				builder.WriteByte(' ')
			}
			pendingSpace = false
			builder.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}

	return builder.String()
}

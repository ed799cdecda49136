package recognizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanText normalizes a recognized string: NFKC folds full-width forms,
// control and zero-width characters are removed, and surrounding whitespace
// is trimmed. Interior spaces are preserved (tategaki lines legitimately
// contain none).
func CleanText(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\u200b' || r == '\u200c' || r == '\u200d' || r == '\ufeff':
			continue
		case unicode.IsControl(r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

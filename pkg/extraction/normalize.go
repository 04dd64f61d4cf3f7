package extraction

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares text for rule matching: compatibility decomposition,
// accents dropped, typographic quotes and dashes folded to ASCII, lower case,
// and runs of whitespace collapsed to one space.
func Normalize(text string) string {
	text = norm.NFKD.String(text)

	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsSpace(r):
			if !space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = true
			continue
		case unicode.Is(unicode.Pd, r):
			r = '-'
		case r == '‘' || r == '’' || r == 'ʼ':
			r = '\''
		case r == '“' || r == '”':
			r = '"'
		}
		space = false
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.TrimRight(b.String(), " ")
}

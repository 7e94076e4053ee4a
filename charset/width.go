package charset

import (
	"unicode/utf8"

	"golang.org/x/text/width"
)

// StringWidth measures the display width of a UTF-8 string in terminal
// columns.  East-Asian wide and fullwidth runes count as two columns,
// everything else as one; invalid bytes count one column each so the
// measure never underestimates.
func StringWidth(s string) int {
	w := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			w++
			i++
			continue
		}
		w += RuneWidth(r)
		i += size
	}
	return w
}

// RuneWidth is the display width of a single rune.
func RuneWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

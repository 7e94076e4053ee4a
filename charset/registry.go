// Package charset knows the encodings that portably appear in PO file
// headers, how to canonicalize their names, and how to step over their
// multi-byte characters without misreading trail bytes as ASCII.
package charset

import "strings"

// Canonical is the canonical spelling of a recognized charset name.
// Canonicalize always returns one of the table entries below, so two
// Canonical values refer to the same encoding iff they are ==.
type Canonical string

const (
	ASCII Canonical = "ASCII"
	UTF8  Canonical = "UTF-8"
)

// standardCharsets lists the canonical spellings.  The PO format does
// not allow arbitrary encodings; this fixed set is the portability
// contract shared with the other gettext implementations.
var standardCharsets = []Canonical{
	ASCII,
	"ISO-8859-1",
	"ISO-8859-2",
	"ISO-8859-3",
	"ISO-8859-4",
	"ISO-8859-5",
	"ISO-8859-6",
	"ISO-8859-7",
	"ISO-8859-8",
	"ISO-8859-9",
	"ISO-8859-13",
	"ISO-8859-14",
	"ISO-8859-15",
	"KOI8-R",
	"KOI8-U",
	"KOI8-T",
	"CP850",
	"CP866",
	"CP874",
	"CP932",
	"CP949",
	"CP950",
	"CP1250",
	"CP1251",
	"CP1252",
	"CP1253",
	"CP1254",
	"CP1255",
	"CP1256",
	"CP1257",
	"GB2312",
	"EUC-JP",
	"EUC-KR",
	"EUC-TW",
	"BIG5",
	"BIG5-HKSCS",
	"GBK",
	"GB18030",
	"SHIFT_JIS",
	"JOHAB",
	"TIS-620",
	"VISCII",
	"GEORGIAN-PS",
	UTF8,
}

// aliases maps additional recognized spellings (lower-cased) onto the
// canonical one.  The ISO-8859 family is commonly written with an
// underscore after "ISO" as well.
var aliases = map[string]Canonical{
	"ansi_x3.4-1968": ASCII,
	"us-ascii":       ASCII,
}

var byLowerName = func() map[string]Canonical {
	m := make(map[string]Canonical, 2*len(standardCharsets))
	for _, c := range standardCharsets {
		m[strings.ToLower(string(c))] = c
		if strings.HasPrefix(string(c), "ISO-8859-") {
			m["iso_8859-"+strings.TrimPrefix(strings.ToLower(string(c)), "iso-8859-")] = c
		}
	}
	for name, c := range aliases {
		m[name] = c
	}
	return m
}()

// Canonicalize resolves a user-supplied charset name, case
// insensitively, to its canonical spelling.  The second return value
// is false for names outside the portable set.
func Canonicalize(name string) (Canonical, bool) {
	c, ok := byLowerName[strings.ToLower(name)]
	return c, ok
}

func (c Canonical) String() string { return string(c) }

// AsciiCompatible reports whether bytes in the 0x00-0x7F range always
// stand for themselves.  Only three encodings in the portable set
// violate this.
func (c Canonical) AsciiCompatible() bool {
	switch c {
	case "SHIFT_JIS", "JOHAB", "VISCII":
		return false
	}
	return true
}

// Weird reports whether the encoding has double-byte characters whose
// second byte can be 0x5C.  A lexer that treats backslash as an escape
// introducer must step over whole characters in these encodings.
func (c Canonical) Weird() bool {
	switch c {
	case "BIG5", "BIG5-HKSCS", "GBK", "GB18030", "SHIFT_JIS", "JOHAB":
		return true
	}
	return false
}

// WeirdCJK reports whether the encoding is one of the structured CJK
// encodings: single bytes in 0x00-0x7F plus double bytes in fixed
// lead/trail ranges.  Currently the same set as Weird.
func (c Canonical) WeirdCJK() bool {
	return c.Weird()
}

// Iterator is a character iterator: given the remainder of a byte
// buffer it returns the number of bytes (1..4) occupied by the next
// character.  For invalid or empty input it returns 1, so callers
// degrade to single-byte stepping instead of failing.
type Iterator func(s []byte) int

func singleByteIterator(s []byte) int { return 1 }

func eucIterator(s []byte) int {
	if len(s) >= 2 && s[0] >= 0xa1 && s[0] < 0xff && s[1] >= 0xa1 && s[1] < 0xff {
		return 2
	}
	return 1
}

func eucJPIterator(s []byte) int {
	if len(s) >= 2 {
		c, c2 := s[0], s[1]
		if c >= 0xa1 && c < 0xff && c2 >= 0xa1 && c2 < 0xff {
			return 2
		}
		if c == 0x8e && c2 >= 0xa1 && c2 < 0xe0 {
			return 2
		}
		if c == 0x8f && len(s) >= 3 && c2 >= 0xa1 && c2 < 0xff &&
			s[2] >= 0xa1 && s[2] < 0xff {
			return 3
		}
	}
	return 1
}

func eucTWIterator(s []byte) int {
	if len(s) >= 2 && s[0] >= 0xa1 && s[0] < 0xff && s[1] >= 0xa1 && s[1] < 0xff {
		return 2
	}
	if len(s) >= 4 && s[0] == 0x8e &&
		s[1] >= 0xa1 && s[1] <= 0xb0 &&
		s[2] >= 0xa1 && s[2] < 0xff &&
		s[3] >= 0xa1 && s[3] < 0xff {
		return 4
	}
	return 1
}

func big5Iterator(s []byte) int {
	if len(s) >= 2 && s[0] >= 0xa1 && s[0] < 0xff {
		if c2 := s[1]; (c2 >= 0x40 && c2 < 0x7f) || (c2 >= 0xa1 && c2 < 0xff) {
			return 2
		}
	}
	return 1
}

func big5HKSCSIterator(s []byte) int {
	if len(s) >= 2 && s[0] >= 0x88 && s[0] < 0xff {
		if c2 := s[1]; (c2 >= 0x40 && c2 < 0x7f) || (c2 >= 0xa1 && c2 < 0xff) {
			return 2
		}
	}
	return 1
}

func gbkIterator(s []byte) int {
	if len(s) >= 2 && s[0] >= 0x81 && s[0] < 0xff {
		if c2 := s[1]; (c2 >= 0x40 && c2 < 0x7f) || (c2 >= 0x80 && c2 < 0xff) {
			return 2
		}
	}
	return 1
}

func gb18030Iterator(s []byte) int {
	if n := gbkIterator(s); n == 2 {
		return 2
	}
	if len(s) >= 4 && s[0] >= 0x81 && s[0] <= 0x84 &&
		s[1] >= 0x30 && s[1] <= 0x39 &&
		s[2] >= 0x81 && s[2] < 0xff &&
		s[3] >= 0x30 && s[3] <= 0x39 {
		return 4
	}
	return 1
}

func shiftJISIterator(s []byte) int {
	if len(s) >= 2 {
		c, c2 := s[0], s[1]
		if ((c >= 0x81 && c <= 0x9f) || (c >= 0xe0 && c <= 0xf9)) &&
			((c2 >= 0x40 && c2 <= 0x7e) || (c2 >= 0x80 && c2 <= 0xfc)) {
			return 2
		}
	}
	return 1
}

func johabIterator(s []byte) int {
	if len(s) >= 2 {
		c, c2 := s[0], s[1]
		if c >= 0x84 && c <= 0xd3 {
			if (c2 >= 0x41 && c2 < 0x7f) || (c2 >= 0x81 && c2 < 0xff) {
				return 2
			}
		} else if c >= 0xd9 && c <= 0xf9 {
			if (c2 >= 0x31 && c2 <= 0x7e) || (c2 >= 0x91 && c2 <= 0xfe) {
				return 2
			}
		}
	}
	return 1
}

func utf8Iterator(s []byte) int {
	if len(s) == 0 || s[0] < 0xc2 {
		return 1
	}
	cont := func(i int) bool { return i < len(s) && s[i] >= 0x80 && s[i] < 0xc0 }
	c := s[0]
	switch {
	case c < 0xe0:
		if cont(1) {
			return 2
		}
	case c < 0xf0:
		if cont(1) && cont(2) {
			return 3
		}
	case c < 0xf8:
		if cont(1) && cont(2) && cont(3) {
			return 4
		}
	}
	return 1
}

// CharacterIterator returns the character iterator for the encoding.
// Encodings without multi-byte structure get the single-byte stepper.
func (c Canonical) CharacterIterator() Iterator {
	switch c {
	case UTF8:
		return utf8Iterator
	case "GB2312", "EUC-KR":
		return eucIterator
	case "EUC-JP":
		return eucJPIterator
	case "EUC-TW":
		return eucTWIterator
	case "BIG5":
		return big5Iterator
	case "BIG5-HKSCS":
		return big5HKSCSIterator
	case "GBK":
		return gbkIterator
	case "GB18030":
		return gb18030Iterator
	case "SHIFT_JIS":
		return shiftJISIterator
	case "JOHAB":
		return johabIterator
	}
	return singleByteIterator
}

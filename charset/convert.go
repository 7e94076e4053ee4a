package charset

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// encodings maps canonical names onto x/text decoders.  ASCII and
// UTF-8 need no conversion and are handled by the callers; names
// absent here (KOI8-T, EUC-TW, JOHAB, VISCII, GEORGIAN-PS) have no
// converter available.
var encodings = map[Canonical]encoding.Encoding{
	"ISO-8859-1":  charmap.ISO8859_1,
	"ISO-8859-2":  charmap.ISO8859_2,
	"ISO-8859-3":  charmap.ISO8859_3,
	"ISO-8859-4":  charmap.ISO8859_4,
	"ISO-8859-5":  charmap.ISO8859_5,
	"ISO-8859-6":  charmap.ISO8859_6,
	"ISO-8859-7":  charmap.ISO8859_7,
	"ISO-8859-8":  charmap.ISO8859_8,
	"ISO-8859-9":  charmap.ISO8859_9,
	"ISO-8859-13": charmap.ISO8859_13,
	"ISO-8859-14": charmap.ISO8859_14,
	"ISO-8859-15": charmap.ISO8859_15,
	"KOI8-R":      charmap.KOI8R,
	"KOI8-U":      charmap.KOI8U,
	"CP850":       charmap.CodePage850,
	"CP866":       charmap.CodePage866,
	"CP874":       charmap.Windows874,
	"CP932":       japanese.ShiftJIS,
	"CP949":       korean.EUCKR,
	"CP950":       traditionalchinese.Big5,
	"CP1250":      charmap.Windows1250,
	"CP1251":      charmap.Windows1251,
	"CP1252":      charmap.Windows1252,
	"CP1253":      charmap.Windows1253,
	"CP1254":      charmap.Windows1254,
	"CP1255":      charmap.Windows1255,
	"CP1256":      charmap.Windows1256,
	"CP1257":      charmap.Windows1257,
	// GB2312 text is EUC-CN encoded; GBK is a byte-compatible
	// superset.
	"GB2312":     simplifiedchinese.GBK,
	"EUC-JP":     japanese.EUCJP,
	"EUC-KR":     korean.EUCKR,
	"BIG5":       traditionalchinese.Big5,
	"BIG5-HKSCS": traditionalchinese.Big5,
	"GBK":        simplifiedchinese.GBK,
	"GB18030":    simplifiedchinese.GB18030,
	"SHIFT_JIS":  japanese.ShiftJIS,
	"TIS-620":    charmap.Windows874,
}

// ToUTF8 decodes a string from the given charset into UTF-8.  ASCII
// and UTF-8 input comes back unchanged.
func ToUTF8(s string, from Canonical) (string, error) {
	if from == ASCII || from == UTF8 || s == "" {
		return s, nil
	}
	enc, ok := encodings[from]
	if !ok {
		return "", fmt.Errorf("cannot convert from %s: no converter available", from)
	}
	out, err := enc.NewDecoder().String(s)
	if err != nil {
		return "", fmt.Errorf("cannot convert from %s: %v", from, err)
	}
	return out, nil
}

// FromUTF8 encodes a UTF-8 string into the given charset.
func FromUTF8(s string, to Canonical) (string, error) {
	if to == ASCII || to == UTF8 || s == "" {
		return s, nil
	}
	enc, ok := encodings[to]
	if !ok {
		return "", fmt.Errorf("cannot convert to %s: no converter available", to)
	}
	out, err := enc.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("cannot convert to %s: %v", to, err)
	}
	return out, nil
}

// CanConvert reports whether a converter exists for the charset.
func CanConvert(c Canonical) bool {
	if c == ASCII || c == UTF8 {
		return true
	}
	_, ok := encodings[c]
	return ok
}

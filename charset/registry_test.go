package charset

import (
	"reflect"
	"testing"
)

func assertEqual(t *testing.T, expected, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, got) {
		t.Logf("%#v != %#v", expected, got)
		t.Fail()
	}
}

func TestCanonicalize(t *testing.T) {
	for _, tc := range []struct {
		name string
		want Canonical
	}{
		{"UTF-8", UTF8},
		{"utf-8", UTF8},
		{"ISO-8859-1", "ISO-8859-1"},
		{"iso-8859-1", "ISO-8859-1"},
		{"ISO_8859-1", "ISO-8859-1"},
		{"ascii", ASCII},
		{"US-ASCII", ASCII},
		{"ANSI_X3.4-1968", ASCII},
		{"Shift_JIS", "SHIFT_JIS"},
		{"gb18030", "GB18030"},
	} {
		got, ok := Canonicalize(tc.name)
		if !ok {
			t.Errorf("Canonicalize(%q) not found", tc.name)
			continue
		}
		assertEqual(t, tc.want, got)

		// Idempotence: a canonical name canonicalizes to itself.
		again, ok := Canonicalize(string(got))
		if !ok || again != got {
			t.Errorf("Canonicalize(%q) not idempotent: %q", got, again)
		}
	}

	if _, ok := Canonicalize("UTF-16LE"); ok {
		t.Error("UTF-16LE unexpectedly recognized")
	}
	if _, ok := Canonicalize(""); ok {
		t.Error("empty name unexpectedly recognized")
	}
}

func TestClassification(t *testing.T) {
	for _, c := range []Canonical{"SHIFT_JIS", "JOHAB", "VISCII"} {
		if c.AsciiCompatible() {
			t.Errorf("%s should not be ASCII compatible", c)
		}
	}
	for _, c := range []Canonical{ASCII, UTF8, "ISO-8859-1", "EUC-JP", "BIG5"} {
		if !c.AsciiCompatible() {
			t.Errorf("%s should be ASCII compatible", c)
		}
	}

	weird := []Canonical{"BIG5", "BIG5-HKSCS", "GBK", "GB18030", "SHIFT_JIS", "JOHAB"}
	for _, c := range weird {
		if !c.Weird() || !c.WeirdCJK() {
			t.Errorf("%s should be weird", c)
		}
	}
	for _, c := range []Canonical{ASCII, UTF8, "EUC-JP", "KOI8-R"} {
		if c.Weird() {
			t.Errorf("%s should not be weird", c)
		}
	}
}

func TestCharacterIterators(t *testing.T) {
	for _, tc := range []struct {
		charset Canonical
		input   []byte
		want    int
	}{
		{UTF8, []byte("a"), 1},
		{UTF8, []byte("é"), 2},
		{UTF8, []byte("€"), 3},
		{UTF8, []byte("\U0001F600"), 4},
		{UTF8, []byte{0xe2, 0x82}, 1}, // truncated sequence
		{UTF8, []byte{0x80}, 1},       // stray continuation byte
		{UTF8, nil, 1},

		{"EUC-JP", []byte{0xa4, 0xa2}, 2},
		{"EUC-JP", []byte{0x8e, 0xb1}, 2},
		{"EUC-JP", []byte{0x8f, 0xa1, 0xa1}, 3},
		{"EUC-JP", []byte{0x41}, 1},

		{"EUC-TW", []byte{0x8e, 0xa1, 0xa1, 0xa1}, 4},
		{"EUC-TW", []byte{0xa1, 0xa1}, 2},

		// Second byte 0x5C: the reason weird charsets exist.
		{"BIG5", []byte{0xb1, 0x5c}, 2},
		{"SHIFT_JIS", []byte{0x81, 0x5c}, 2},
		{"GBK", []byte{0x81, 0x5c}, 2},
		{"GB18030", []byte{0x81, 0x30, 0x81, 0x30}, 4},
		{"JOHAB", []byte{0x84, 0x41}, 2},
		{"JOHAB", []byte{0xd9, 0x31}, 2},

		{ASCII, []byte{0x41, 0x42}, 1},
		{"ISO-8859-1", []byte{0xe9}, 1},
	} {
		iter := tc.charset.CharacterIterator()
		got := iter(tc.input)
		if got != tc.want {
			t.Errorf("%s iterator on % x = %d, want %d", tc.charset, tc.input, got, tc.want)
		}
	}
}

func TestConvert(t *testing.T) {
	got, err := ToUTF8("caf\xe9", "ISO-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, "café", got)

	back, err := FromUTF8(got, "ISO-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, "caf\xe9", back)

	same, err := ToUTF8("plain", UTF8)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, "plain", same)

	if _, err := ToUTF8("x\xff", "VISCII"); err == nil {
		t.Fatal("expected missing-converter error for VISCII")
	}
	if CanConvert("GEORGIAN-PS") {
		t.Fatal("GEORGIAN-PS unexpectedly convertible")
	}
}

func TestStringWidth(t *testing.T) {
	assertEqual(t, 5, StringWidth("hello"))
	assertEqual(t, 4, StringWidth("日本"))
	assertEqual(t, 6, StringWidth("ab日本"))
	assertEqual(t, 0, StringWidth(""))
}

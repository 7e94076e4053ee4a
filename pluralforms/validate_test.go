package pluralforms

import (
	"strings"
	"testing"

	"github.com/potools/potools/catalog"
)

func headerList(t *testing.T, pluralForms string, extra ...*catalog.Message) *catalog.MessageList {
	t.Helper()
	ml := catalog.NewMessageList()
	blob := "Content-Type: text/plain; charset=UTF-8\n"
	if pluralForms != "" {
		blob += "Plural-Forms: " + pluralForms + "\n"
	}
	if err := ml.Append(&catalog.Message{MsgID: "", MsgStr: []string{blob}}); err != nil {
		t.Fatal(err)
	}
	for _, m := range extra {
		if err := ml.Append(m); err != nil {
			t.Fatal(err)
		}
	}
	return ml
}

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader("Plural-Forms: nplurals=2; plural=n != 1;\n")
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, 2, h.NPlurals)
	assertEqual(t, int64(0), mustEval(t, h.Plural, 1))
	assertEqual(t, int64(1), mustEval(t, h.Plural, 5))

	h, err = ParseHeader("Content-Type: text/plain\n")
	if err != nil || h != nil {
		t.Fatalf("expected absent header, got %v, %v", h, err)
	}

	if _, err := ParseHeader("Plural-Forms: nplurals=2; plural=n ==;\n"); err == nil {
		t.Fatal("malformed expression unexpectedly accepted")
	}
	if _, err := ParseHeader("Plural-Forms: plural=n != 1;\n"); err == nil {
		t.Fatal("missing nplurals unexpectedly accepted")
	}
}

func TestValidateSweep(t *testing.T) {
	h, err := ParseHeader("Plural-Forms: nplurals=2; plural=n != 1;\n")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Validate(); err != nil {
		t.Fatal(err)
	}

	// Out of range for n >= 2.
	h, err = ParseHeader("Plural-Forms: nplurals=2; plural=n;\n")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Validate(); err == nil {
		t.Fatal("out-of-range expression unexpectedly validated")
	}

	// Division by zero must surface as a diagnostic, not a crash.
	h, err = ParseHeader("Plural-Forms: nplurals=2; plural=n/0;\n")
	if err != nil {
		t.Fatal(err)
	}
	err = h.Validate()
	if err == nil || !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("expected division-by-zero diagnostic, got %v", err)
	}
}

func TestValidateCatalog(t *testing.T) {
	plural := &catalog.Message{
		MsgID:       "%d file",
		MsgIDPlural: "%d files",
		HasPlural:   true,
		MsgStr:      []string{"%d Datei", "%d Dateien"},
	}
	diags := ValidateCatalog(headerList(t, "nplurals=2; plural=n != 1;", plural))
	assertEqual(t, 0, len(diags))

	short := &catalog.Message{
		MsgID:       "%d file",
		MsgIDPlural: "%d files",
		HasPlural:   true,
		MsgStr:      []string{"%d Datei"},
	}
	diags = ValidateCatalog(headerList(t, "nplurals=2; plural=n != 1;", short))
	assertEqual(t, 1, len(diags))

	diags = ValidateCatalog(headerList(t, "", plural))
	assertEqual(t, 1, len(diags))

	// No plural messages: a missing header is fine.
	plain := &catalog.Message{MsgID: "Save", MsgStr: []string{"Speichern"}}
	diags = ValidateCatalog(headerList(t, "", plain))
	assertEqual(t, 0, len(diags))
}

package catalog

import (
	"errors"
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

func TestAppendRejectsDuplicates(t *testing.T) {
	ml := NewMessageList()
	if err := ml.Append(&Message{MsgID: "Save", MsgStr: []string{""}}); err != nil {
		t.Fatal(err)
	}
	err := ml.Append(&Message{MsgID: "Save", MsgStr: []string{""}})
	var dup *ErrDuplicate
	if !errors.As(err, &dup) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	assertEqual(t, "Save", dup.MsgID)
}

func TestAppendFoldsDuplicatesWhenTolerant(t *testing.T) {
	ml := NewMessageList()
	ml.AllowDuplicates = true
	first := &Message{MsgID: "Save", MsgStr: []string{""}}
	first.AddPos(Position{"a.go", 1})
	if err := ml.Append(first); err != nil {
		t.Fatal(err)
	}
	second := &Message{MsgID: "Save", MsgStr: []string{""}}
	second.AddPos(Position{"b.go", 2})
	if err := ml.Append(second); err != nil {
		t.Fatal(err)
	}
	assertEqual(t, 1, len(ml.Messages))
	assertEqual(t, []Position{{"a.go", 1}, {"b.go", 2}}, ml.Messages[0].FilePos)
}

func TestObsoleteSkipsUniqueness(t *testing.T) {
	ml := NewMessageList()
	if err := ml.Append(&Message{MsgID: "Save", MsgStr: []string{"Enregistrer"}}); err != nil {
		t.Fatal(err)
	}
	if err := ml.Append(&Message{MsgID: "Save", MsgStr: []string{"old"}, Obsolete: true}); err != nil {
		t.Fatal(err)
	}
	assertEqual(t, "Enregistrer", ml.Search("Save").MsgStr[0])
}

func TestFuzzySearch(t *testing.T) {
	ml := NewMessageList()
	ml.Append(&Message{MsgID: "Save", MsgStr: []string{"Enregistrer"}})
	ml.Append(&Message{MsgID: "Quit", MsgStr: []string{"Quitter"}})
	ml.Append(&Message{MsgID: "Open", MsgStr: []string{""}})

	m, score := ml.FuzzySearch("Saev")
	if m == nil {
		t.Fatal("expected a fuzzy match for Saev")
	}
	assertEqual(t, "Save", m.MsgID)
	if score < FuzzyThreshold {
		t.Fatalf("score %v below threshold", score)
	}

	m, _ = ml.FuzzySearch("Preferences")
	if m != nil {
		t.Fatalf("unexpected match %q", m.MsgID)
	}
}

func TestHeaderFields(t *testing.T) {
	ml := NewMessageList()
	ml.Append(&Message{MsgID: "", MsgStr: []string{
		"Project-Id-Version: demo 1.0\n" +
			"Content-Type: text/plain; charset=UTF-8\n" +
			"Plural-Forms: nplurals=2; plural=n != 1;\n",
	}})
	assertEqual(t, "demo 1.0", ml.HeaderField("Project-Id-Version"))
	assertEqual(t, "demo 1.0", ml.HeaderField("project-id-version"))
	assertEqual(t, "UTF-8", ml.Charset())
	assertEqual(t, "", ml.HeaderField("POT-Creation-Date"))
}

func TestSetHeaderField(t *testing.T) {
	blob := "Project-Id-Version: demo\nPOT-Creation-Date: 2001-01-01\n"
	got := SetHeaderField(blob, "POT-Creation-Date", "2026-08-27")
	assertEqual(t, "Project-Id-Version: demo\nPOT-Creation-Date: 2026-08-27\n", got)

	got = SetHeaderField("Project-Id-Version: demo\n", "Language", "de")
	assertEqual(t, "Project-Id-Version: demo\nLanguage: de\n", got)
}

func TestRemember(t *testing.T) {
	ml := NewMessageList()
	ml.Remember("%d file", "%d files", Position{"main.go", 10}, nil, "c")
	ml.Remember("%d file", "%d files", Position{"util.go", 4}, []string{"shown in status bar"}, "")

	m := ml.Search("%d file")
	if m == nil {
		t.Fatal("message not remembered")
	}
	assertEqual(t, true, m.HasPlural)
	assertEqual(t, 2, len(m.MsgStr))
	assertEqual(t, []Position{{"main.go", 10}, {"util.go", 4}}, m.FilePos)
	assertEqual(t, []string{"shown in status bar"}, m.ExtractedComments)
	assertEqual(t, FormatYes, m.Format["c"])
}

func TestSortKeepsHeaderAndObsoleteOrder(t *testing.T) {
	ml := NewMessageList()
	ml.Append(&Message{MsgID: "zebra", MsgStr: []string{"z"}})
	ml.Append(&Message{MsgID: "", MsgStr: []string{"X: y\n"}})
	ml.Append(&Message{MsgID: "old", MsgStr: []string{"o"}, Obsolete: true})
	ml.Append(&Message{MsgID: "apple", MsgStr: []string{"a"}})
	ml.SortByID()

	var ids []string
	for _, m := range ml.Messages {
		ids = append(ids, m.MsgID)
	}
	assertEqual(t, []string{"", "apple", "zebra", "old"}, ids)
	assertEqual(t, "a", ml.Search("apple").MsgStr[0])
}

func TestListDomains(t *testing.T) {
	l := NewList()
	assertEqual(t, DefaultDomain, l.Domains[0].Name)
	d := l.Domain("extra")
	if d != l.Domain("extra") {
		t.Fatal("domain not reused")
	}
	assertEqual(t, 2, len(l.Domains))
}

package mo

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/potools/potools/catalog"
)

func assertEqual(t *testing.T, expected, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, got) {
		t.Logf("%#v != %#v", expected, got)
		t.Fail()
	}
}

func sampleList() *catalog.MessageList {
	ml := catalog.NewMessageList()
	ml.Append(&catalog.Message{MsgID: "", MsgStr: []string{
		"Content-Type: text/plain; charset=UTF-8\nPlural-Forms: nplurals=2; plural=n != 1;\n",
	}})
	ml.Append(&catalog.Message{MsgID: "Hello", MsgStr: []string{"Bonjour"}})
	ml.Append(&catalog.Message{
		MsgID:       "%d file",
		MsgIDPlural: "%d files",
		HasPlural:   true,
		MsgStr:      []string{"%d fichier", "%d fichiers"},
	})
	ml.Append(&catalog.Message{MsgID: "Save", MsgStr: []string{"Enregistrer"}})
	ml.Append(&catalog.Message{MsgID: "Skipped", MsgStr: []string{"x"}, Obsolete: true})
	return ml
}

func encode(t *testing.T, ml *catalog.MessageList, opts *WriteOptions) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, ml, opts); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRoundTripBothEndiannesses(t *testing.T) {
	ml := sampleList()
	for _, opts := range []*WriteOptions{
		nil,
		{Order: binary.LittleEndian},
		{Order: binary.BigEndian},
		{Alignment: 4},
		{Order: binary.BigEndian, Alignment: 8},
		{NoHash: true},
	} {
		data := encode(t, ml, opts)
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("opts %+v: %v", opts, err)
		}

		// Obsolete entries are excluded from MO output.
		assertEqual(t, 4, len(got.Messages))
		if got.Search("Skipped") != nil {
			t.Error("obsolete message leaked into MO output")
		}
		for _, id := range []string{"", "Hello", "Save", "%d file"} {
			want := ml.Search(id)
			m := got.Search(id)
			if m == nil {
				t.Fatalf("opts %+v: message %q missing", opts, id)
			}
			assertEqual(t, want.MsgStr, m.MsgStr)
			assertEqual(t, want.MsgIDPlural, m.MsgIDPlural)
			assertEqual(t, want.HasPlural, m.HasPlural)
		}
	}
}

func TestWriterSortsByMsgid(t *testing.T) {
	data := encode(t, sampleList(), nil)
	order := binary.ByteOrder(binary.LittleEndian)
	n := int(order.Uint32(data[8:]))
	origTabOffset := order.Uint32(data[12:])
	origTab := data[origTabOffset:]

	var prev []byte
	for i := 0; i < n; i++ {
		strLen := order.Uint32(origTab[8*i:])
		strOffset := order.Uint32(origTab[8*i+4:])
		blob := data[strOffset : strOffset+strLen]
		// The sort key is the msgid alone, not the plural.
		if zero := bytes.IndexByte(blob, 0); zero >= 0 {
			blob = blob[:zero]
		}
		if i > 0 && bytes.Compare(prev, blob) >= 0 {
			t.Fatalf("original table not sorted: %q before %q", prev, blob)
		}
		prev = blob
	}
}

func TestHashTableProbing(t *testing.T) {
	data := encode(t, sampleList(), nil)
	order := binary.ByteOrder(binary.LittleEndian)
	n := int(order.Uint32(data[8:]))
	origTabOffset := order.Uint32(data[12:])
	hashSize := order.Uint32(data[20:])
	hashTabOffset := order.Uint32(data[24:])
	if hashSize < 3 {
		t.Fatalf("hash table too small: %d", hashSize)
	}

	slot := func(i uint32) uint32 {
		return order.Uint32(data[hashTabOffset+4*i:])
	}
	msgid := func(i uint32) []byte {
		strLen := order.Uint32(data[origTabOffset+8*i:])
		strOffset := order.Uint32(data[origTabOffset+8*i+4:])
		blob := data[strOffset : strOffset+strLen]
		if zero := bytes.IndexByte(blob, 0); zero >= 0 {
			blob = blob[:zero]
		}
		return blob
	}

	// Every msgid must be reachable by the double-hashing probe
	// sequence within hashSize steps.
	for i := 0; i < n; i++ {
		id := string(msgid(uint32(i)))
		hval := hashString(id)
		idx := hval % hashSize
		incr := 1 + hval%(hashSize-2)
		found := false
		for probes := uint32(0); probes < hashSize; probes++ {
			v := slot(idx)
			if v == 0 {
				break
			}
			if int(v-1) == i {
				found = true
				break
			}
			if idx >= hashSize-incr {
				idx -= hashSize - incr
			} else {
				idx += incr
			}
		}
		if !found {
			t.Errorf("msgid %q not reachable through hash probing", id)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not a catalog at all........")); err == nil {
		t.Fatal("garbage accepted")
	}
	if _, err := Decode([]byte{0xde}); err == nil {
		t.Fatal("truncated header accepted")
	}

	// Truncate a valid file inside the string data.
	data := encode(t, sampleList(), nil)
	if _, err := Decode(data[:len(data)-10]); err == nil {
		t.Fatal("truncated file accepted")
	}
}

func TestNoHashOmitsTable(t *testing.T) {
	data := encode(t, sampleList(), &WriteOptions{NoHash: true})
	order := binary.ByteOrder(binary.LittleEndian)
	assertEqual(t, uint32(0), order.Uint32(data[20:]))
	assertEqual(t, uint32(0), order.Uint32(data[24:]))
}

func TestReadFileUsesMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.mo")
	if err := WriteFile(sampleList(), path, nil); err != nil {
		t.Fatal(err)
	}
	ml, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, "Bonjour", ml.Search("Hello").MsgStr[0])
}

func TestNextPrime(t *testing.T) {
	for _, tc := range []struct{ seed, want uint32 }{
		{1, 2},
		{2, 2},
		{3, 3},
		{4, 5},
		{6, 7},
		{8, 11},
		{20, 23},
	} {
		assertEqual(t, tc.want, nextPrime(tc.seed))
	}
}

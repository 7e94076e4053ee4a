package mo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/potools/potools/catalog"
)

const leMagic = 0x950412de
const beMagic = 0xde120495

type header struct {
	Magic          uint32
	Version        uint32
	NumStrings     uint32
	OrigTabOffset  uint32
	TransTabOffset uint32
	HashTabSize    uint32
	HashTabOffset  uint32
}

func (h header) majorVersion() uint32 {
	return h.Version >> 16
}

func (h header) minorVersion() uint32 {
	return h.Version & 0xffff
}

// ReadFile decodes one MO file into a message list.  The file is
// memory mapped when possible and read into memory otherwise.
func ReadFile(path string) (*catalog.MessageList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := openMapping(f)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	ml, err := Decode(m.data)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return ml, nil
}

// Decode decodes MO data.  Both byte orders are accepted; the magic
// number is probed each way.
func Decode(data []byte) (*catalog.MessageList, error) {
	var h header
	headerSize := binary.Size(&h)
	if len(data) < headerSize {
		return nil, fmt.Errorf("message catalogue is too short")
	}

	var order binary.ByteOrder = binary.LittleEndian
	magic := order.Uint32(data)
	switch magic {
	case leMagic:
		// nothing
	case beMagic:
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("file is not in GNU .mo format")
	}
	if err := binary.Read(bytes.NewBuffer(data[:headerSize]), order, &h); err != nil {
		return nil, err
	}
	if h.majorVersion() != 0 && h.majorVersion() != 1 {
		return nil, fmt.Errorf("unsupported version: %d.%d", h.majorVersion(), h.minorVersion())
	}
	if int64(int(h.NumStrings)) != int64(h.NumStrings) {
		return nil, fmt.Errorf("too many strings in catalog")
	}
	numStrings := int(h.NumStrings)

	if int64(h.OrigTabOffset)+8*int64(h.NumStrings) > int64(len(data)) {
		return nil, fmt.Errorf("original strings table out of bounds")
	}
	origTab := data[h.OrigTabOffset : h.OrigTabOffset+8*h.NumStrings]
	if err := validateStringTable(data, origTab, numStrings, order); err != nil {
		return nil, err
	}

	if int64(h.TransTabOffset)+8*int64(h.NumStrings) > int64(len(data)) {
		return nil, fmt.Errorf("translated strings table out of bounds")
	}
	transTab := data[h.TransTabOffset : h.TransTabOffset+8*h.NumStrings]
	if err := validateStringTable(data, transTab, numStrings, order); err != nil {
		return nil, err
	}

	if h.HashTabSize > 2 {
		if int64(h.HashTabOffset)+4*int64(h.HashTabSize) > int64(len(data)) {
			return nil, fmt.Errorf("hash table out of bounds")
		}
		hashTab := data[h.HashTabOffset : h.HashTabOffset+4*h.HashTabSize]
		if err := validateHashTable(hashTab, numStrings, order); err != nil {
			return nil, err
		}
	}

	ml := catalog.NewMessageList()
	for i := 0; i < numStrings; i++ {
		orig := tableString(data, origTab, i, order)
		trans := tableString(data, transTab, i, order)

		m := &catalog.Message{}
		// An embedded NUL inside the length-bounded original blob
		// separates msgid from msgid_plural.
		if zero := bytes.IndexByte(orig, 0); zero >= 0 {
			m.MsgID = string(orig[:zero])
			m.MsgIDPlural = string(orig[zero+1:])
			m.HasPlural = true
			m.MsgStr = strings.Split(string(trans), "\x00")
		} else {
			m.MsgID = string(orig)
			m.MsgStr = []string{string(trans)}
		}
		if err := ml.Append(m); err != nil {
			return nil, fmt.Errorf("string %d: %v", i, err)
		}
	}
	return ml, nil
}

func tableString(data, table []byte, idx int, order binary.ByteOrder) []byte {
	strLen := order.Uint32(table[8*idx:])
	strOffset := order.Uint32(table[8*idx+4:])
	return data[strOffset : strOffset+strLen]
}

func validateStringTable(data, table []byte, numStrings int, order binary.ByteOrder) error {
	for i := 0; i < numStrings; i++ {
		strLen := order.Uint32(table[8*i:])
		strOffset := order.Uint32(table[8*i+4:])
		end := int64(strLen) + int64(strOffset)
		if end >= int64(len(data)) {
			return fmt.Errorf("string %d data (len=%x, offset=%x) is out of bounds", i, strLen, strOffset)
		}
		if data[end] != 0 {
			return fmt.Errorf("string %d is not NUL terminated", i)
		}
	}
	return nil
}

func validateHashTable(table []byte, numStrings int, order binary.ByteOrder) error {
	n := len(table) / 4
	for i := 0; i < n; i++ {
		strIndex := order.Uint32(table[4*i:])
		// hash entries are either zero or a string index
		// incremented by one
		if int(strIndex) >= numStrings+1 {
			return fmt.Errorf("hash table is corrupt")
		}
	}
	return nil
}

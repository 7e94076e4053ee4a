package mo

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/potools/potools/catalog"
)

// WriteOptions control MO output.
type WriteOptions struct {
	// Order is the byte order of the output; little endian when
	// nil, so output is host independent by default.  Readers
	// accept either.
	Order binary.ByteOrder

	// Alignment pads each string block up to a multiple of this
	// many bytes; zero means 1 (no padding).
	Alignment int

	// NoHash omits the hash table.
	NoHash bool
}

func (o *WriteOptions) order() binary.ByteOrder {
	if o != nil && o.Order != nil {
		return o.Order
	}
	return binary.LittleEndian
}

func (o *WriteOptions) alignment() int {
	if o != nil && o.Alignment > 1 {
		return o.Alignment
	}
	return 1
}

type moEntry struct {
	msgid string
	orig  string // msgid [NUL msgid_plural]
	trans string // plural forms NUL-joined
}

// Write encodes the active (non-obsolete) messages of a list.
func Write(w io.Writer, ml *catalog.MessageList, opts *WriteOptions) error {
	order := opts.order()
	alignment := opts.alignment()

	var entries []moEntry
	for _, m := range ml.Messages {
		if m.Obsolete {
			continue
		}
		e := moEntry{msgid: m.MsgID, orig: m.MsgID}
		if m.HasPlural {
			e.orig += "\x00" + m.MsgIDPlural
		}
		for i, s := range m.MsgStr {
			if i > 0 {
				e.trans += "\x00"
			}
			e.trans += s
		}
		entries = append(entries, e)
	}
	// Byte-wise msgid order determines the runtime binary search;
	// deliberately not locale aware.
	sort.Slice(entries, func(i, j int) bool { return entries[i].msgid < entries[j].msgid })

	n := len(entries)
	hashSize := uint32(0)
	if opts == nil || !opts.NoHash {
		hashSize = nextPrime(uint32(n)*4/3 | 1)
		if hashSize < 3 {
			hashSize = 3
		}
	}

	headerSize := uint32(7 * 4)
	origTabOffset := headerSize
	transTabOffset := origTabOffset + uint32(8*n)
	hashTabOffset := transTabOffset + uint32(8*n)
	dataOffset := hashTabOffset + 4*hashSize
	if hashSize == 0 {
		hashTabOffset = 0
	}

	roundup := func(off uint32) uint32 {
		a := uint32(alignment)
		return (off + a - 1) / a * a
	}

	// Lay out string data: originals first, then translations, each
	// string NUL terminated and aligned.
	type placed struct {
		length uint32
		offset uint32
	}
	origPlaced := make([]placed, n)
	transPlaced := make([]placed, n)
	off := dataOffset
	for i, e := range entries {
		off = roundup(off)
		origPlaced[i] = placed{length: uint32(len(e.orig)), offset: off}
		off += uint32(len(e.orig)) + 1
	}
	for i, e := range entries {
		off = roundup(off)
		transPlaced[i] = placed{length: uint32(len(e.trans)), offset: off}
		off += uint32(len(e.trans)) + 1
	}

	bw := bufio.NewWriter(w)
	u32 := func(v uint32) {
		var buf [4]byte
		order.PutUint32(buf[:], v)
		bw.Write(buf[:])
	}

	u32(leMagic)
	u32(0) // revision
	u32(uint32(n))
	u32(origTabOffset)
	u32(transTabOffset)
	u32(hashSize)
	u32(hashTabOffset)

	for _, p := range origPlaced {
		u32(p.length)
		u32(p.offset)
	}
	for _, p := range transPlaced {
		u32(p.length)
		u32(p.offset)
	}

	if hashSize > 0 {
		hashTab := make([]uint32, hashSize)
		for i, e := range entries {
			insertEntry(hashTab, e.msgid, uint32(i))
		}
		for _, v := range hashTab {
			u32(v)
		}
	}

	pos := dataOffset
	pad := func(target uint32) {
		for pos < target {
			bw.WriteByte(0)
			pos++
		}
	}
	for i, e := range entries {
		pad(origPlaced[i].offset)
		bw.WriteString(e.orig)
		bw.WriteByte(0)
		pos += uint32(len(e.orig)) + 1
	}
	for i, e := range entries {
		pad(transPlaced[i].offset)
		bw.WriteString(e.trans)
		bw.WriteByte(0)
		pos += uint32(len(e.trans)) + 1
	}
	return bw.Flush()
}

// WriteFile encodes a message list to path.
func WriteFile(ml *catalog.MessageList, path string, opts *WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, ml, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// insertEntry places a string index into the open-addressing table
// using double hashing.  Stored values are index+1; zero marks an
// empty slot.
func insertEntry(tab []uint32, msgid string, index uint32) {
	size := uint32(len(tab))
	hval := hashString(msgid)
	idx := hval % size
	if tab[idx] != 0 {
		incr := 1 + hval%(size-2)
		for {
			if idx >= size-incr {
				idx -= size - incr
			} else {
				idx += incr
			}
			if tab[idx] == 0 {
				break
			}
		}
	}
	tab[idx] = index + 1
}

// hashString is the hashpjw function the runtime uses for MO lookup.
func hashString(s string) uint32 {
	var hval uint32
	for i := 0; i < len(s); i++ {
		hval <<= 4
		hval += uint32(s[i])
		if g := hval & 0xf0000000; g != 0 {
			hval ^= g >> 24
			hval ^= g
		}
	}
	return hval
}

// nextPrime returns the smallest prime >= seed.
func nextPrime(seed uint32) uint32 {
	if seed <= 2 {
		return 2
	}
	candidate := seed | 1
	for !isPrime(candidate) {
		candidate += 2
	}
	return candidate
}

func isPrime(n uint32) bool {
	if n < 2 {
		return false
	}
	for d := uint32(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return n == 2 || n%2 != 0
}

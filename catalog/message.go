// Package catalog holds the in-memory representation of a message
// catalog: domains, messages, plural variants, comments and file
// positions.  Both codecs populate it and the merge engine transforms
// it; the package itself does no I/O.
package catalog

import "fmt"

// Position is a source location used for reference comments and
// diagnostics.
type Position struct {
	File string
	Line int
}

func (p Position) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	}
	return p.File
}

// FormatState is the per-language format-string classification carried
// in #, comments (c-format, no-c-format and friends).
type FormatState int

const (
	FormatUndecided FormatState = iota
	FormatYes
	FormatPossible
	FormatImpossible
	FormatNo
)

// Tristate is used for the wrap flag.
type Tristate int

const (
	Undecided Tristate = iota
	Yes
	No
)

// Message is one catalog entry.  MsgStr has one element for ordinary
// messages and one per plural form when HasPlural is set; empty
// elements mean untranslated.
type Message struct {
	MsgID       string
	MsgIDPlural string
	HasPlural   bool
	MsgStr      []string

	// Translator comments (#) and extracted comments (#.), one
	// element per line, in file order.
	Comments          []string
	ExtractedComments []string

	// Reference positions from #: comments.  Duplicates are
	// suppressed on insert, insertion order is kept for output.
	FilePos []Position

	Fuzzy  bool
	Format map[string]FormatState
	Wrap   Tristate

	// Obsolete entries come from #~ lines.  They are excluded from
	// lookup and from MO output but survive PO round trips.
	Obsolete bool

	// Pos is where the entry was defined, for diagnostics.
	Pos Position
}

// Translated reports whether every plural form has a translation.
func (m *Message) Translated() bool {
	if len(m.MsgStr) == 0 {
		return false
	}
	for _, s := range m.MsgStr {
		if s == "" {
			return false
		}
	}
	return true
}

// IsHeader reports whether this is the domain header entry.
func (m *Message) IsHeader() bool {
	return m.MsgID == "" && !m.Obsolete
}

// AddPos records a reference position unless it is already present.
func (m *Message) AddPos(pos Position) {
	for _, p := range m.FilePos {
		if p == pos {
			return
		}
	}
	m.FilePos = append(m.FilePos, pos)
}

// SetFormat records the format classification for one language.
func (m *Message) SetFormat(lang string, state FormatState) {
	if m.Format == nil {
		m.Format = make(map[string]FormatState)
	}
	m.Format[lang] = state
}

// Clone returns a deep copy.  Merge operations never share Message
// records between catalogs.
func (m *Message) Clone() *Message {
	c := *m
	c.MsgStr = append([]string(nil), m.MsgStr...)
	c.Comments = append([]string(nil), m.Comments...)
	c.ExtractedComments = append([]string(nil), m.ExtractedComments...)
	c.FilePos = append([]Position(nil), m.FilePos...)
	if m.Format != nil {
		c.Format = make(map[string]FormatState, len(m.Format))
		for k, v := range m.Format {
			c.Format[k] = v
		}
	}
	return &c
}

// Diagnostic is a positioned report from a parse or check.  Parts
// holds the continuation lines of a multi-part report; they carry
// their own positions but do not count as separate errors.
type Diagnostic struct {
	Pos     Position
	Message string
	Parts   []Diagnostic
}

func (d Diagnostic) String() string {
	if d.Pos.File == "" {
		return d.Message
	}
	return d.Pos.String() + ": " + d.Message
}

package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultDomain is the domain used when a PO file has no domain
// directive.
const DefaultDomain = "messages"

// ErrDuplicate is returned by Append for a second definition of a
// msgid in the same list when duplicates are not tolerated.
type ErrDuplicate struct {
	MsgID string
	Pos   Position
	Prev  Position
}

func (e *ErrDuplicate) Error() string {
	return fmt.Sprintf("duplicate message definition for %q", e.MsgID)
}

// MessageList is an ordered list of messages with unique-msgid lookup.
// With AllowDuplicates set, a second definition of a msgid is folded
// into the first (positions and comments accumulate) instead of being
// rejected; the merge engine uses that mode while accumulating input
// files.
type MessageList struct {
	Messages        []*Message
	AllowDuplicates bool

	byID map[string]int
}

func NewMessageList() *MessageList {
	return &MessageList{byID: make(map[string]int)}
}

// Append adds a message to the list.  Obsolete messages skip the
// uniqueness check, matching the PO convention that #~ entries shadow
// nothing.
func (ml *MessageList) Append(m *Message) error {
	if ml.byID == nil {
		ml.byID = make(map[string]int)
	}
	if m.Obsolete {
		ml.Messages = append(ml.Messages, m)
		return nil
	}
	if i, ok := ml.byID[m.MsgID]; ok {
		prev := ml.Messages[i]
		if !ml.AllowDuplicates {
			return &ErrDuplicate{MsgID: m.MsgID, Pos: m.Pos, Prev: prev.Pos}
		}
		for _, p := range m.FilePos {
			prev.AddPos(p)
		}
		prev.Comments = append(prev.Comments, m.Comments...)
		prev.ExtractedComments = append(prev.ExtractedComments, m.ExtractedComments...)
		return nil
	}
	ml.byID[m.MsgID] = len(ml.Messages)
	ml.Messages = append(ml.Messages, m)
	return nil
}

// Search returns the active message with the given msgid, or nil.
func (ml *MessageList) Search(msgid string) *Message {
	if ml.byID == nil {
		return nil
	}
	if i, ok := ml.byID[msgid]; ok {
		return ml.Messages[i]
	}
	return nil
}

// FuzzyThreshold is the minimum similarity for FuzzySearch to accept a
// candidate.
const FuzzyThreshold = 0.6

// FuzzySearch returns the translated message most similar to msgid,
// provided the similarity reaches FuzzyThreshold.  Header and obsolete
// entries never match.
func (ml *MessageList) FuzzySearch(msgid string) (*Message, float64) {
	var best *Message
	bestScore := 0.0
	for _, m := range ml.Messages {
		if m.Obsolete || m.MsgID == "" || !m.Translated() {
			continue
		}
		if score := Similarity(msgid, m.MsgID); score > bestScore {
			best, bestScore = m, score
		}
	}
	if bestScore < FuzzyThreshold {
		return nil, 0
	}
	return best, bestScore
}

// Header returns the domain header entry, or nil.
func (ml *MessageList) Header() *Message {
	return ml.Search("")
}

// HeaderField extracts one field value from the header msgstr blob.
// Field names compare case-insensitively; a missing field yields "".
func (ml *MessageList) HeaderField(name string) string {
	h := ml.Header()
	if h == nil || len(h.MsgStr) == 0 {
		return ""
	}
	return HeaderField(h.MsgStr[0], name)
}

// HeaderField extracts one Key: Value field from an RFC822-like header
// blob.
func HeaderField(header, name string) string {
	for _, line := range strings.Split(header, "\n") {
		k, v, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(k), name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// SetHeaderField replaces (or appends) one field in a header blob,
// keeping the remaining lines untouched.
func SetHeaderField(header, name, value string) string {
	lines := strings.Split(header, "\n")
	for i, line := range lines {
		k, _, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(k), name) {
			lines[i] = name + ": " + value
			return strings.Join(lines, "\n")
		}
	}
	// Header blobs conventionally end with a newline, leaving a
	// trailing empty element after Split.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines[n-1] = name + ": " + value
		lines = append(lines, "")
	} else {
		lines = append(lines, name+": "+value)
	}
	return strings.Join(lines, "\n")
}

// Charset returns the charset= parameter of the header Content-Type.
func (ml *MessageList) Charset() string {
	ct := ml.HeaderField("Content-Type")
	if _, after, ok := strings.Cut(ct, "charset="); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// Remember is the entry point used by source extractors: it records an
// extracted occurrence of msgid, creating the message on first sight
// and accumulating positions and comments on subsequent ones.
func (ml *MessageList) Remember(msgid, msgidPlural string, pos Position, comment []string, formatLang string) *Message {
	m := ml.Search(msgid)
	if m == nil {
		m = &Message{MsgID: msgid, Pos: pos}
		if msgidPlural != "" {
			m.MsgIDPlural = msgidPlural
			m.HasPlural = true
			m.MsgStr = []string{"", ""}
		} else {
			m.MsgStr = []string{""}
		}
		ml.Append(m)
	} else if msgidPlural != "" && !m.HasPlural {
		m.MsgIDPlural = msgidPlural
		m.HasPlural = true
		m.MsgStr = []string{"", ""}
	}
	m.AddPos(pos)
	for _, c := range comment {
		m.ExtractedComments = append(m.ExtractedComments, c)
	}
	if formatLang != "" {
		m.SetFormat(formatLang, FormatYes)
	}
	return m
}

// SortByID orders active messages by msgid, header first, obsolete
// entries after all active ones.
func (ml *MessageList) SortByID() {
	ml.sortWith(func(a, b *Message) bool { return a.MsgID < b.MsgID })
}

// SortByFilePos orders active messages by their first reference
// position.
func (ml *MessageList) SortByFilePos() {
	key := func(m *Message) Position {
		if len(m.FilePos) > 0 {
			return m.FilePos[0]
		}
		return Position{}
	}
	ml.sortWith(func(a, b *Message) bool {
		pa, pb := key(a), key(b)
		if pa.File != pb.File {
			return pa.File < pb.File
		}
		return pa.Line < pb.Line
	})
}

func (ml *MessageList) sortWith(less func(a, b *Message) bool) {
	sort.SliceStable(ml.Messages, func(i, j int) bool {
		a, b := ml.Messages[i], ml.Messages[j]
		if a.Obsolete != b.Obsolete {
			return !a.Obsolete
		}
		if a.IsHeader() != b.IsHeader() {
			return a.IsHeader()
		}
		return less(a, b)
	})
	ml.reindex()
}

func (ml *MessageList) reindex() {
	ml.byID = make(map[string]int, len(ml.Messages))
	for i, m := range ml.Messages {
		if !m.Obsolete {
			if _, ok := ml.byID[m.MsgID]; !ok {
				ml.byID[m.MsgID] = i
			}
		}
	}
}

// Domain is a named partition of messages.
type Domain struct {
	Name     string
	Messages *MessageList
}

// List is a whole catalog: an ordered sequence of domains, default
// domain first so it can be written without a domain directive.
type List struct {
	Domains []*Domain
}

func NewList() *List {
	return &List{Domains: []*Domain{{Name: DefaultDomain, Messages: NewMessageList()}}}
}

// Domain returns the named domain, creating it at the end of the list
// if needed.
func (l *List) Domain(name string) *Domain {
	for _, d := range l.Domains {
		if d.Name == name {
			return d
		}
	}
	d := &Domain{Name: name, Messages: NewMessageList()}
	l.Domains = append(l.Domains, d)
	return d
}

// Default returns the default domain.
func (l *List) Default() *Domain {
	return l.Domain(DefaultDomain)
}

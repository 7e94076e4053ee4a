// Package merge implements the catalog combination algorithms: the
// msgmerge-style three-way merge, the msgcmp completeness check and
// the msgcat N-way union.
package merge

import (
	"github.com/potools/potools/catalog"
)

// Stats counts what happened to each reference message during a
// merge.
type Stats struct {
	Merged   int
	Fuzzied  int
	Missing  int
	Obsolete int
}

// Options tune Merge.
type Options struct {
	// MultiDomain applies the reference's default domain to every
	// definition domain instead of matching domains by name.
	MultiDomain bool
}

// Merge combines a translator-maintained definition catalog with a
// freshly extracted reference catalog.  Message IDs, extracted
// comments and positions come from the reference; translations,
// translator comments and the fuzzy mark come from the definitions.
// Definition messages that no reference uses are kept as obsolete
// entries.  Compendiums are consulted, in order, when the primary
// definitions have no match.
func Merge(def, ref *catalog.List, compendiums []*catalog.MessageList, opts *Options) (*catalog.List, Stats) {
	if opts == nil {
		opts = &Options{}
	}
	out := catalog.NewList()
	var stats Stats

	if opts.MultiDomain {
		refMsgs := ref.Default().Messages
		for _, dd := range def.Domains {
			target := out.Domain(dd.Name)
			mergeDomain(dd.Messages, refMsgs, compendiums, target.Messages, &stats)
		}
		return out, stats
	}

	for _, rd := range ref.Domains {
		defMsgs := catalog.NewMessageList()
		for _, dd := range def.Domains {
			if dd.Name == rd.Name {
				defMsgs = dd.Messages
				break
			}
		}
		target := out.Domain(rd.Name)
		mergeDomain(defMsgs, rd.Messages, compendiums, target.Messages, &stats)
	}
	return out, stats
}

func mergeDomain(defMsgs, refMsgs *catalog.MessageList, compendiums []*catalog.MessageList, out *catalog.MessageList, stats *Stats) {
	used := make(map[*catalog.Message]bool)

	for _, refMsg := range refMsgs.Messages {
		if refMsg.Obsolete {
			continue
		}
		if refMsg.IsHeader() {
			out.Append(mergeHeader(defMsgs, refMsg, used))
			continue
		}

		if defMsg := defMsgs.Search(refMsg.MsgID); defMsg != nil {
			used[defMsg] = true
			out.Append(mergeMessage(defMsg, refMsg, defMsg.Fuzzy))
			stats.Merged++
			continue
		}

		compMsg := (*catalog.Message)(nil)
		for _, comp := range compendiums {
			if m := comp.Search(refMsg.MsgID); m != nil {
				compMsg = m
				break
			}
		}
		if compMsg != nil {
			out.Append(mergeMessage(compMsg, refMsg, compMsg.Fuzzy))
			stats.Merged++
			continue
		}

		fuzzyMsg, _ := defMsgs.FuzzySearch(refMsg.MsgID)
		if fuzzyMsg == nil {
			for _, comp := range compendiums {
				if fuzzyMsg, _ = comp.FuzzySearch(refMsg.MsgID); fuzzyMsg != nil {
					break
				}
			}
		}
		if fuzzyMsg != nil {
			if m := defMsgs.Search(fuzzyMsg.MsgID); m == fuzzyMsg {
				used[fuzzyMsg] = true
			}
			out.Append(mergeMessage(fuzzyMsg, refMsg, true))
			stats.Fuzzied++
			continue
		}

		out.Append(refMsg.Clone())
		stats.Missing++
	}

	// Unused definitions survive as obsolete entries so their
	// translations can be resurrected later.
	for _, defMsg := range defMsgs.Messages {
		if used[defMsg] || defMsg.IsHeader() {
			continue
		}
		if defMsg.Obsolete {
			if defMsg.Translated() {
				out.Append(defMsg.Clone())
			}
			continue
		}
		if !defMsg.Translated() {
			continue
		}
		o := defMsg.Clone()
		o.Obsolete = true
		out.Append(o)
		stats.Obsolete++
	}
}

// mergeMessage builds the merged entry: reference identity, definition
// translation.
func mergeMessage(defMsg, refMsg *catalog.Message, fuzzy bool) *catalog.Message {
	m := refMsg.Clone()
	m.Comments = append([]string(nil), defMsg.Comments...)
	m.MsgStr = append([]string(nil), defMsg.MsgStr...)
	m.Fuzzy = fuzzy

	// A reference that gained (or lost) plural forms cannot take
	// the old translation verbatim.
	if m.HasPlural && !defMsg.HasPlural {
		for len(m.MsgStr) < 2 {
			m.MsgStr = append(m.MsgStr, "")
		}
		m.Fuzzy = true
	} else if !m.HasPlural && defMsg.HasPlural {
		m.MsgStr = m.MsgStr[:1]
		m.Fuzzy = true
	}
	return m
}

// mergeHeader keeps the definition header (the translator's metadata)
// but carries the reference's POT-Creation-Date forward.
func mergeHeader(defMsgs *catalog.MessageList, refHeader *catalog.Message, used map[*catalog.Message]bool) *catalog.Message {
	defHeader := defMsgs.Header()
	if defHeader == nil {
		return refHeader.Clone()
	}
	used[defHeader] = true
	h := defHeader.Clone()
	if len(refHeader.MsgStr) > 0 && len(h.MsgStr) > 0 {
		if date := catalog.HeaderField(refHeader.MsgStr[0], "POT-Creation-Date"); date != "" {
			h.MsgStr[0] = catalog.SetHeaderField(h.MsgStr[0], "POT-Creation-Date", date)
		}
	}
	return h
}

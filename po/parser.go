package po

import (
	"strconv"
	"strings"

	"github.com/potools/potools/catalog"
	"github.com/potools/potools/charset"
)

// Consumer receives parse events.  One parser serves multiple
// consumers (the catalog builder, checking readers, extractor
// readers) through this fixed method set; comments arrive before the
// message they precede.
type Consumer interface {
	Domain(name string)
	Message(msgid, msgidPlural string, msgstr []string, pos catalog.Position, obsolete bool)
	Comment(text string)
	CommentDot(text string)
	CommentFilePos(file string, line int)
	CommentSpecial(text string)
}

// parser drives the grammar over the lexer token stream.
type parser struct {
	lex      *lexer
	rep      *Reporter
	consumer Consumer

	// pushback stack; two deep at most (msgstr followed by a
	// non-bracket token).
	pending []token
}

func (p *parser) next() (token, error) {
	if n := len(p.pending); n > 0 {
		t := p.pending[n-1]
		p.pending = p.pending[:n-1]
		return t, nil
	}
	return p.lex.next()
}

func (p *parser) unread(t token) {
	p.pending = append(p.pending, t)
}

// run is the parse loop: a PO file is a sequence of domain directives
// and message entries.
func (p *parser) run() error {
	for {
		t, err := p.next()
		if err != nil {
			return err
		}
		switch t.kind {
		case tokEOF:
			return nil
		case tokComment:
			// Comments are delivered here, between entries, never
			// from a lookahead inside one: a comment read past the
			// end of a message is unread, the message is emitted,
			// and the comment reaches the consumer afterwards so it
			// attaches to the entry it precedes.
			p.dispatchComment(t.str)
		case tokDomain:
			if err := p.domain(t); err != nil {
				return err
			}
		case tokMsgid:
			if err := p.message(t); err != nil {
				return err
			}
		default:
			if err := p.rep.Errorf(t.pos, "syntax error: expected msgid or domain directive"); err != nil {
				return err
			}
		}
	}
}

// dispatchComment routes one raw comment line to the consumer by its
// marker character.
func (p *parser) dispatchComment(line string) {
	if line == "" {
		p.consumer.Comment("")
		return
	}
	switch line[0] {
	case '.':
		p.consumer.CommentDot(strings.TrimPrefix(line[1:], " "))
	case ':':
		p.filePosComment(line[1:])
	case ',', '!':
		p.consumer.CommentSpecial(strings.TrimSpace(line[1:]))
	default:
		p.consumer.Comment(strings.TrimPrefix(line, " "))
	}
}

// filePosComment parses "file:line file:line ..." references.  A
// trailing ":column" after the line number is tolerated and dropped.
func (p *parser) filePosComment(s string) {
	for _, ref := range strings.Fields(s) {
		name := ref
		line := 0
		// Split on the last one or two colon-separated numbers so
		// file names containing colons survive.
		if i := strings.LastIndexByte(name, ':'); i >= 0 {
			if n, err := strconv.Atoi(name[i+1:]); err == nil {
				name, line = name[:i], n
				if j := strings.LastIndexByte(name, ':'); j >= 0 {
					if m, err := strconv.Atoi(name[j+1:]); err == nil {
						name, line = name[:j], m
					}
				}
			}
		}
		p.consumer.CommentFilePos(name, line)
	}
}

func (p *parser) domain(t token) error {
	s, ok, err := p.stringConcat()
	if err != nil {
		return err
	}
	if !ok {
		return p.rep.Errorf(t.pos, "missing name after domain directive")
	}
	p.consumer.Domain(s)
	return nil
}

// stringConcat collects one or more adjacent string literals; PO
// concatenates consecutive quoted lines of a field.
func (p *parser) stringConcat() (string, bool, error) {
	var sb strings.Builder
	seen := false
	for {
		t, err := p.next()
		if err != nil {
			return sb.String(), seen, err
		}
		if t.kind != tokString {
			p.unread(t)
			return sb.String(), seen, nil
		}
		seen = true
		sb.WriteString(t.str)
	}
}

func (p *parser) message(start token) error {
	msgid, ok, err := p.stringConcat()
	if err != nil {
		return err
	}
	if !ok {
		if err := p.rep.Errorf(start.pos, "missing string after msgid"); err != nil {
			return err
		}
	}

	msgidPlural := ""
	hasPlural := false
	t, err := p.next()
	if err != nil {
		return err
	}
	if t.kind == tokMsgidPlural {
		hasPlural = true
		msgidPlural, ok, err = p.stringConcat()
		if err != nil {
			return err
		}
		if !ok {
			if err := p.rep.Errorf(t.pos, "missing string after msgid_plural"); err != nil {
				return err
			}
		}
		t, err = p.next()
		if err != nil {
			return err
		}
	}

	if t.kind != tokMsgstr {
		p.unread(t)
		if err := p.rep.Errorf(start.pos, "missing msgstr section"); err != nil {
			return err
		}
		return nil
	}

	msgstr, indexed, err := p.msgstrForms(t)
	if err != nil {
		return err
	}
	if hasPlural && !indexed {
		if err := p.rep.Errorf(t.pos, "missing msgstr[] section for plural message"); err != nil {
			return err
		}
	} else if !hasPlural && indexed {
		if err := p.rep.Errorf(t.pos, "msgstr[] section without msgid_plural"); err != nil {
			return err
		}
	}

	if msgid == "" && !start.obsolete {
		p.applyHeaderCharset(msgstr, start.pos)
	}
	p.consumer.Message(msgid, msgidPlural, msgstr, start.pos, start.obsolete)
	return nil
}

// msgstrForms reads either one plain msgstr string or a run of
// msgstr[N] forms.  The first msgstr token is already consumed.
func (p *parser) msgstrForms(first token) ([]string, bool, error) {
	t, err := p.next()
	if err != nil {
		return nil, false, err
	}
	if t.kind != tokLBracket {
		p.unread(t)
		s, ok, err := p.stringConcat()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			if rerr := p.rep.Errorf(first.pos, "missing string after msgstr"); rerr != nil {
				return nil, false, rerr
			}
		}
		return []string{s}, false, nil
	}

	var forms []string
	for {
		// Opening bracket already consumed.
		t, err := p.next()
		if err != nil {
			return forms, true, err
		}
		if t.kind != tokNumber {
			if rerr := p.rep.Errorf(t.pos, "missing plural index in msgstr[]"); rerr != nil {
				return forms, true, rerr
			}
			p.unread(t)
			return forms, true, nil
		}
		index := t.num
		t, err = p.next()
		if err != nil {
			return forms, true, err
		}
		if t.kind != tokRBracket {
			if rerr := p.rep.Errorf(t.pos, "missing ] after plural index"); rerr != nil {
				return forms, true, rerr
			}
			p.unread(t)
		}
		s, ok, err := p.stringConcat()
		if err != nil {
			return forms, true, err
		}
		if !ok {
			if rerr := p.rep.Errorf(t.pos, "missing string after msgstr[%d]", index); rerr != nil {
				return forms, true, rerr
			}
		}
		if index != len(forms) {
			if rerr := p.rep.Errorf(t.pos, "plural form index %d out of sequence", index); rerr != nil {
				return forms, true, rerr
			}
			// A gap is padded with empty forms; a repeated index is
			// dropped so it cannot shift the forms that follow.
			for len(forms) < index {
				forms = append(forms, "")
			}
		}
		if index == len(forms) {
			forms = append(forms, s)
		}

		t, err = p.next()
		if err != nil {
			return forms, true, err
		}
		if t.kind != tokMsgstr {
			p.unread(t)
			return forms, true, nil
		}
		t2, err := p.next()
		if err != nil {
			return forms, true, err
		}
		if t2.kind != tokLBracket {
			p.unread(t2)
			p.unread(t)
			return forms, true, nil
		}
	}
}

// applyHeaderCharset picks the charset= value out of a freshly parsed
// header and reconfigures the lexer for the remainder of the file.
func (p *parser) applyHeaderCharset(msgstr []string, pos catalog.Position) {
	if len(msgstr) == 0 {
		return
	}
	ct := catalog.HeaderField(msgstr[0], "Content-Type")
	_, name, ok := strings.Cut(ct, "charset=")
	if !ok {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "CHARSET" {
		return
	}
	c, found := charset.Canonicalize(name)
	if !found {
		p.rep.Warnf(pos, "charset %q is not a portable encoding name; message conversion may fail", name)
		return
	}
	p.lex.setCharset(c)
}

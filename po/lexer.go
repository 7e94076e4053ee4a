package po

import (
	"strconv"
	"strings"

	"github.com/potools/potools/catalog"
	"github.com/potools/potools/charset"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokDomain
	tokMsgid
	tokMsgidPlural
	tokMsgstr
	tokLBracket
	tokRBracket
	tokNumber
	tokString
	tokComment
)

type token struct {
	kind     tokenKind
	str      string
	num      int
	pos      catalog.Position
	obsolete bool
}

// lexer is a single-pass tokenizer over one PO file.  All mutable
// scan state lives here so parses are reentrant.
type lexer struct {
	data []byte
	pos  int
	file string
	line int

	// obsolete is set by a #~ marker and cleared at each newline.
	obsolete bool

	// weird charsets need multi-byte-aware scanning so a trail byte
	// 0x5C is not taken for an escape introducer.
	weird bool
	iter  charset.Iterator

	rep *Reporter
}

func newLexer(data []byte, file string, rep *Reporter) *lexer {
	return &lexer{
		data: data,
		file: file,
		line: 1,
		iter: charset.ASCII.CharacterIterator(),
		rep:  rep,
	}
}

// setCharset switches multi-byte handling once the header's charset=
// value has been seen.
func (l *lexer) setCharset(c charset.Canonical) {
	l.weird = c.Weird()
	l.iter = c.CharacterIterator()
}

func (l *lexer) here() catalog.Position {
	return catalog.Position{File: l.file, Line: l.line}
}

func (l *lexer) eof() bool { return l.pos >= len(l.data) }

// next returns the next token.  Comment lines come back as tokComment
// tokens so the parser controls when they are delivered; a comment
// read as lookahead past a message must not fire before that message
// does.  A nil error with tokEOF kind signals end of input; a non-nil
// error aborts the parse.
func (l *lexer) next() (token, error) {
	for {
		if l.eof() {
			return token{kind: tokEOF, pos: l.here()}, nil
		}
		c := l.data[l.pos]
		switch {
		case c == '\n':
			l.pos++
			l.line++
			l.obsolete = false
			continue
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
			continue
		case c == '#':
			pos := l.here()
			l.pos++
			if !l.eof() && l.data[l.pos] == '~' {
				l.pos++
				l.obsolete = true
				continue
			}
			return token{kind: tokComment, str: l.comment(), pos: pos}, nil
		case c == '"':
			pos := l.here()
			s, err := l.scanString()
			return token{kind: tokString, str: s, pos: pos, obsolete: l.obsolete}, err
		case c == '[':
			l.pos++
			return token{kind: tokLBracket, pos: l.here(), obsolete: l.obsolete}, nil
		case c == ']':
			l.pos++
			return token{kind: tokRBracket, pos: l.here(), obsolete: l.obsolete}, nil
		case c >= '0' && c <= '9':
			pos := l.here()
			start := l.pos
			for !l.eof() && l.data[l.pos] >= '0' && l.data[l.pos] <= '9' {
				l.pos++
			}
			n, _ := strconv.Atoi(string(l.data[start:l.pos]))
			return token{kind: tokNumber, num: n, pos: pos, obsolete: l.obsolete}, nil
		case c >= 'a' && c <= 'z' || c == '_':
			pos := l.here()
			start := l.pos
			for !l.eof() && (l.data[l.pos] >= 'a' && l.data[l.pos] <= 'z' || l.data[l.pos] == '_') {
				l.pos++
			}
			word := string(l.data[start:l.pos])
			kind, ok := keywords[word]
			if !ok {
				if err := l.rep.Errorf(pos, "keyword %q unknown", word); err != nil {
					return token{kind: tokEOF, pos: pos}, err
				}
				continue
			}
			return token{kind: kind, pos: pos, obsolete: l.obsolete}, nil
		default:
			pos := l.here()
			l.pos++
			if err := l.rep.Errorf(pos, "invalid character %q in input", rune(c)); err != nil {
				return token{kind: tokEOF, pos: pos}, err
			}
			continue
		}
	}
}

var keywords = map[string]tokenKind{
	"domain":       tokDomain,
	"msgid":        tokMsgid,
	"msgid_plural": tokMsgidPlural,
	"msgstr":       tokMsgstr,
}

// comment consumes the rest of a comment line (the leading # is
// already consumed) and returns its raw content, marker included.
func (l *lexer) comment() string {
	start := l.pos
	for !l.eof() && l.data[l.pos] != '\n' {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// scanString reads one double-quoted literal, processing C escapes.
func (l *lexer) scanString() (string, error) {
	l.pos++ // opening quote
	var sb strings.Builder
	for {
		if l.eof() {
			return sb.String(), l.rep.Errorf(l.here(), "end-of-file within string")
		}
		c := l.data[l.pos]
		switch {
		case c == '"':
			l.pos++
			return sb.String(), nil
		case c == '\n':
			// Do not consume: the newline still resets the
			// obsolete flag in next.
			return sb.String(), l.rep.Errorf(l.here(), "end-of-line within string")
		case c == '\\':
			if err := l.scanEscape(&sb); err != nil {
				return sb.String(), err
			}
		case c >= 0x80 && l.weird:
			n := l.iter(l.data[l.pos:])
			sb.Write(l.data[l.pos : l.pos+n])
			l.pos += n
		default:
			sb.WriteByte(c)
			l.pos++
		}
	}
}

func (l *lexer) scanEscape(sb *strings.Builder) error {
	l.pos++ // backslash
	if l.eof() {
		return l.rep.Errorf(l.here(), "end-of-file within string")
	}
	c := l.data[l.pos]
	l.pos++
	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'r':
		sb.WriteByte('\r')
	case 'v':
		sb.WriteByte('\v')
	case 'a':
		sb.WriteByte('\a')
	case '\\':
		sb.WriteByte('\\')
	case '"':
		sb.WriteByte('"')
	case 'x', 'X':
		v, digits := 0, 0
		for !l.eof() && digits < 2 {
			d := hexDigit(l.data[l.pos])
			if d < 0 {
				break
			}
			v = v<<4 | d
			l.pos++
			digits++
		}
		if digits == 0 {
			return l.rep.Errorf(l.here(), "invalid control sequence")
		}
		sb.WriteByte(byte(v))
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := int(c - '0')
		for digits := 1; digits < 3 && !l.eof(); digits++ {
			d := l.data[l.pos]
			if d < '0' || d > '7' {
				break
			}
			v = v<<3 | int(d-'0')
			l.pos++
		}
		sb.WriteByte(byte(v))
	default:
		return l.rep.Errorf(l.here(), "invalid control sequence")
	}
	return nil
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

package po

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/potools/potools/catalog"
)

// ParseOptions tune a parse.
type ParseOptions struct {
	// AllowDuplicates folds repeated msgid definitions together
	// instead of rejecting them.  The merge engine uses this while
	// accumulating input files.
	AllowDuplicates bool

	// MaxErrors overrides the abort cap (default 20).
	MaxErrors int
}

// Parse reads PO text into a catalog.  Diagnostics are returned in
// file order; err is non-nil when the input had fatal errors.
func Parse(r io.Reader, filename string, opts *ParseOptions) (*catalog.List, []catalog.Diagnostic, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return parseBytes(data, filename, opts)
}

// ReadFile parses one PO file.
func ReadFile(path string, opts *ParseOptions) (*catalog.List, []catalog.Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return parseBytes(data, path, opts)
}

func parseBytes(data []byte, filename string, opts *ParseOptions) (*catalog.List, []catalog.Diagnostic, error) {
	if opts == nil {
		opts = &ParseOptions{}
	}
	rep := &Reporter{MaxErrors: opts.MaxErrors}
	builder := NewCatalogBuilder(rep)
	builder.AllowDuplicates = opts.AllowDuplicates

	if err := ParseWith(data, filename, builder, rep); err != nil && !errors.Is(err, ErrTooManyErrors) {
		return nil, rep.Diags, err
	}
	if rep.ErrorCount() > 0 {
		return builder.List, rep.Diags, &ParseError{File: filename, Errors: rep.ErrorCount()}
	}
	return builder.List, rep.Diags, nil
}

// ParseWith runs the parser over data, feeding events to an arbitrary
// consumer.  Checking readers and the extractor use this directly.
func ParseWith(data []byte, filename string, consumer Consumer, rep *Reporter) error {
	lex := newLexer(data, filename, rep)
	p := &parser{lex: lex, rep: rep, consumer: consumer}
	return p.run()
}

// CatalogBuilder is the standard Consumer: it assembles parse events
// into a catalog.List, attaching pending comments and flags to the
// next message.
type CatalogBuilder struct {
	List            *catalog.List
	AllowDuplicates bool

	rep    *Reporter
	domain *catalog.Domain

	comments  []string
	extracted []string
	filepos   []catalog.Position
	fuzzy     bool
	format    map[string]catalog.FormatState
	wrap      catalog.Tristate
}

func NewCatalogBuilder(rep *Reporter) *CatalogBuilder {
	l := catalog.NewList()
	return &CatalogBuilder{List: l, rep: rep, domain: l.Domains[0]}
}

func (b *CatalogBuilder) Domain(name string) {
	b.domain = b.List.Domain(name)
	b.domain.Messages.AllowDuplicates = b.AllowDuplicates
}

func (b *CatalogBuilder) Comment(text string) {
	b.comments = append(b.comments, text)
}

func (b *CatalogBuilder) CommentDot(text string) {
	b.extracted = append(b.extracted, text)
}

func (b *CatalogBuilder) CommentFilePos(file string, line int) {
	b.filepos = append(b.filepos, catalog.Position{File: file, Line: line})
}

// CommentSpecial parses a #, flag list.  Unknown tokens are ignored
// for forward compatibility.
func (b *CatalogBuilder) CommentSpecial(text string) {
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		switch {
		case tok == "fuzzy":
			b.fuzzy = true
		case tok == "wrap":
			b.wrap = catalog.Yes
		case tok == "no-wrap":
			b.wrap = catalog.No
		case strings.HasSuffix(tok, "-format"):
			lang := strings.TrimSuffix(tok, "-format")
			state := catalog.FormatYes
			switch {
			case strings.HasPrefix(lang, "no-"):
				lang, state = strings.TrimPrefix(lang, "no-"), catalog.FormatNo
			case strings.HasPrefix(lang, "possible-"):
				lang, state = strings.TrimPrefix(lang, "possible-"), catalog.FormatPossible
			case strings.HasPrefix(lang, "impossible-"):
				lang, state = strings.TrimPrefix(lang, "impossible-"), catalog.FormatImpossible
			}
			if lang != "" {
				if b.format == nil {
					b.format = make(map[string]catalog.FormatState)
				}
				b.format[lang] = state
			}
		}
	}
}

func (b *CatalogBuilder) Message(msgid, msgidPlural string, msgstr []string, pos catalog.Position, obsolete bool) {
	m := &catalog.Message{
		MsgID:             msgid,
		MsgIDPlural:       msgidPlural,
		HasPlural:         msgidPlural != "",
		MsgStr:            msgstr,
		Comments:          b.comments,
		ExtractedComments: b.extracted,
		Fuzzy:             b.fuzzy,
		Format:            b.format,
		Wrap:              b.wrap,
		Obsolete:          obsolete,
		Pos:               pos,
	}
	for _, p := range b.filepos {
		m.AddPos(p)
	}
	b.reset()

	b.domain.Messages.AllowDuplicates = b.AllowDuplicates
	if err := b.domain.Messages.Append(m); err != nil {
		var dup *catalog.ErrDuplicate
		if errors.As(err, &dup) {
			b.rep.Report(catalog.Diagnostic{
				Pos:     pos,
				Message: "duplicate message definition",
				Parts: []catalog.Diagnostic{{
					Pos:     dup.Prev,
					Message: "this is the location of the first definition",
				}},
			})
		} else {
			b.rep.Errorf(pos, "%v", err)
		}
	}
}

func (b *CatalogBuilder) reset() {
	b.comments = nil
	b.extracted = nil
	b.filepos = nil
	b.fuzzy = false
	b.format = nil
	b.wrap = catalog.Undecided
}

// Package xgettext extracts translatable strings from Go source files
// into a PO template catalog.
package xgettext

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/potools/potools/catalog"
	"github.com/potools/potools/po"
)

var (
	ErrNotString  = errors.New("not a string constant")
	ErrBadKeyword = errors.New("bad keyword")
	ErrOutOfRange = errors.New("argument index out of range")
)

// stringConstant evaluates an ast.Expr representing a string constant.
// Simple concatenation and parenthesised expressions are folded.
func stringConstant(expr ast.Expr) (string, error) {
	switch val := expr.(type) {
	case *ast.BasicLit:
		if val.Kind != token.STRING {
			return "", ErrNotString
		}
		s, err := strconv.Unquote(val.Value)
		if err != nil {
			return "", err
		}
		return s, nil
	case *ast.BinaryExpr:
		// we only support string concat
		if val.Op != token.ADD {
			return "", ErrNotString
		}
		left, err := stringConstant(val.X)
		if err != nil {
			return "", err
		}
		right, err := stringConstant(val.Y)
		if err != nil {
			return "", err
		}
		return left + right, nil
	case *ast.ParenExpr:
		return stringConstant(val.X)
	}
	return "", ErrNotString
}

type Keyword struct {
	name, pkg                      string
	msgid, msgidPlural, msgContext int
}

func ParseKeyword(spec string) (*Keyword, error) {
	// Keyword spec is of form [PKG.]FUNC[:ARG,...]
	idx := strings.IndexByte(spec, ':')
	var function, pkg string
	var args []string
	if idx >= 0 {
		function = spec[:idx]
		args = strings.Split(spec[idx+1:], ",")
	} else {
		function = spec
	}

	idx = strings.IndexByte(function, '.')
	if idx >= 0 {
		pkg = function[:idx]
		function = function[idx+1:]
		if strings.IndexByte(function, '.') >= 0 {
			return nil, ErrBadKeyword
		}
	}

	k := &Keyword{
		name:        function,
		pkg:         pkg,
		msgid:       0,
		msgidPlural: -1,
		msgContext:  -1,
	}

	// Now process arguments
	processed := 0
	for _, arg := range args {
		if arg == "" {
			return nil, ErrBadKeyword
		}
		if arg[len(arg)-1] == 'c' {
			// This is the context
			val, err := strconv.Atoi(arg[:len(arg)-1])
			if err != nil {
				return nil, err
			}
			k.msgContext = val - 1
			continue
		}

		val, err := strconv.Atoi(arg)
		if err != nil {
			return nil, err
		}
		switch processed {
		case 0:
			k.msgid = val - 1
		case 1:
			k.msgidPlural = val - 1
		default:
			return nil, ErrBadKeyword
		}
		processed += 1
	}

	return k, nil
}

func (k *Keyword) Match(call *ast.CallExpr) bool {
	var pkg, name string

	switch e := call.Fun.(type) {
	case *ast.Ident:
		name = e.Name
	case *ast.SelectorExpr:
		name = e.Sel.Name
		if ident, ok := e.X.(*ast.Ident); ok {
			pkg = ident.Name
		}
	default:
		return false
	}

	if name != k.name {
		return false
	}
	// If the keyword includes a package qualifier, make sure it matches
	return k.pkg == "" || k.pkg == pkg
}

// extracted is one keyword hit before it is folded into the catalog.
type extracted struct {
	msgid       string
	msgidPlural string
	msgContext  string
}

func (k *Keyword) Extract(call *ast.CallExpr) (msg extracted, err error) {
	if k.msgid >= len(call.Args) {
		return extracted{}, ErrOutOfRange
	}
	msg.msgid, err = stringConstant(call.Args[k.msgid])
	if err != nil {
		return extracted{}, err
	}
	if k.msgidPlural >= 0 {
		if k.msgidPlural >= len(call.Args) {
			return extracted{}, ErrOutOfRange
		}
		msg.msgidPlural, err = stringConstant(call.Args[k.msgidPlural])
		if err != nil {
			return extracted{}, err
		}
	}
	if k.msgContext >= 0 {
		if k.msgContext >= len(call.Args) {
			return extracted{}, ErrOutOfRange
		}
		msg.msgContext, err = stringConstant(call.Args[k.msgContext])
		if err != nil {
			return extracted{}, err
		}
	}
	return msg, nil
}

// key folds the context into the message id the way the runtime lookup
// does, with an EOT separator.
func (m *extracted) key() string {
	if m.msgContext == "" {
		return m.msgid
	}
	return m.msgContext + "\x04" + m.msgid
}

type visitor struct {
	*Extractor

	fset *token.FileSet
	file *ast.File
}

func commentGroupContent(cg *ast.CommentGroup) []string {
	var lines []string
	for _, comment := range cg.List {
		for _, line := range strings.Split(comment.Text, "\n") {
			line = strings.TrimPrefix(line, "//")
			line = strings.TrimPrefix(line, "/*")
			line = strings.TrimSuffix(line, "*/")
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

func (v *visitor) findCommentsBefore(pos token.Position) []string {
	for i := len(v.file.Comments) - 1; i >= 0; i-- {
		cg := v.file.Comments[i]
		cgPos := v.fset.Position(cg.End())
		if cgPos.Line+1 == pos.Line {
			return commentGroupContent(cg)
		}
	}
	return nil
}

func (v *visitor) Visit(node ast.Node) ast.Visitor {
	// We're only interested in calls
	call, ok := node.(*ast.CallExpr)
	if !ok {
		return v
	}

	for _, k := range v.Keywords {
		if !k.Match(call) {
			continue
		}

		msg, err := k.Extract(call)
		if err != nil {
			break
		}

		pos := v.fset.Position(node.Pos())
		var comments []string
		if len(v.CommentTags) != 0 {
			comments = v.findCommentsBefore(pos)
			keep := false
			for _, tag := range v.CommentTags {
				if len(comments) > 0 && strings.HasPrefix(comments[0], tag) {
					keep = true
					break
				}
			}
			if !keep {
				comments = nil
			}
		}

		// FIXME: too simplistic, should check if call
		// used as a format argument.
		formatLang := ""
		if strings.IndexByte(msg.msgid, '%') >= 0 {
			formatLang = "c"
		}

		v.messages().Remember(msg.key(), msg.msgidPlural,
			catalog.Position{File: pos.Filename, Line: pos.Line},
			comments, formatLang)
		break
	}
	return v
}

type Extractor struct {
	Messages    *catalog.MessageList
	Keywords    []*Keyword
	CommentTags []string
	Directories []string
	SortOutput  bool
	NoLocation  bool

	PackageName      string
	MsgidBugsAddress string
	CreationDate     string
}

func (e *Extractor) messages() *catalog.MessageList {
	if e.Messages == nil {
		e.Messages = catalog.NewMessageList()
	}
	return e.Messages
}

func (e *Extractor) AddDefaultKeywords() {
	for _, spec := range []string{
		"Gettext:1",
		"NGettext:1,2",
		"PGettext:1c,2",
		"NPGettext:1c,2,3",
	} {
		kw, err := ParseKeyword(spec)
		if err != nil {
			panic(err)
		}
		e.Keywords = append(e.Keywords, kw)
	}
}

func (e *Extractor) openFile(filename string) (f *os.File, err error) {
	if len(e.Directories) == 0 || filepath.IsAbs(filename) {
		return os.Open(filename)
	}
	for _, dir := range e.Directories {
		f, err = os.Open(filepath.Join(dir, filename))
		if !os.IsNotExist(err) {
			break
		}
	}
	return f, err
}

func (e *Extractor) parseStream(filename string, r io.Reader) (err error) {
	var v visitor
	v.Extractor = e
	v.fset = token.NewFileSet()
	v.file, err = parser.ParseFile(v.fset, filename, r, parser.ParseComments)
	if err != nil {
		return err
	}

	ast.Walk(&v, v.file)
	return nil
}

func (e *Extractor) ParseFile(filename string) error {
	f, err := e.openFile(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return e.parseStream(filename, f)
}

var headerComments = []string{
	"SOME DESCRIPTIVE TITLE.",
	"Copyright (C) YEAR THE PACKAGE'S COPYRIGHT HOLDER",
	"This file is distributed under the same license as the PACKAGE package.",
	"FIRST AUTHOR <EMAIL@ADDRESS>, YEAR.",
	"",
}

func (e *Extractor) header() *catalog.Message {
	pkg := e.PackageName
	if pkg == "" {
		pkg = "PACKAGE"
	}
	var sb strings.Builder
	sb.WriteString("Project-Id-Version: " + pkg + "\n")
	if e.MsgidBugsAddress != "" {
		sb.WriteString("Report-Msgid-Bugs-To: " + e.MsgidBugsAddress + "\n")
	}
	sb.WriteString("POT-Creation-Date: " + e.CreationDate + "\n")
	sb.WriteString("PO-Revision-Date: YEAR-MO-DA HO:MI+ZONE\n")
	sb.WriteString("Last-Translator: FULL NAME <EMAIL@ADDRESS>\n")
	sb.WriteString("Language-Team: LANGUAGE <LL@li.org>\n")
	sb.WriteString("Language: \n")
	sb.WriteString("MIME-Version: 1.0\n")
	sb.WriteString("Content-Type: text/plain; charset=CHARSET\n")
	sb.WriteString("Content-Transfer-Encoding: 8bit\n")

	return &catalog.Message{
		MsgID:    "",
		MsgStr:   []string{sb.String()},
		Comments: append([]string(nil), headerComments...),
		Fuzzy:    true,
	}
}

// Write serializes the extracted template, header first.
func (e *Extractor) Write(w io.Writer) error {
	out := catalog.NewMessageList()
	out.Append(e.header())
	for _, m := range e.messages().Messages {
		if e.SortOutput {
			sort.Slice(m.FilePos, func(i, j int) bool {
				a, b := m.FilePos[i], m.FilePos[j]
				return a.File < b.File || a.File == b.File && a.Line < b.Line
			})
		}
		out.Append(m)
	}

	pw := po.NewWriter(&po.WriteOptions{
		SortByID:   e.SortOutput,
		NoLocation: e.NoLocation,
	})
	return pw.WriteMessages(w, out)
}

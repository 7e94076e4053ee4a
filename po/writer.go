package po

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/potools/potools/catalog"
	"github.com/potools/potools/charset"
)

// DefaultWidth is the page width used for wrapping when none is
// given.
const DefaultWidth = 79

// WriteOptions control the PO output style.
type WriteOptions struct {
	// Width is the page width; zero means DefaultWidth.
	Width int
	// NoWrap disables wrapping of long message lines.
	NoWrap bool
	// Indent writes fields in the indented style (keyword, tab,
	// value on one line).
	Indent bool
	// Uniforum requests strict Uniforum conformance: a # line
	// between messages instead of a blank one, obsolete entries
	// dropped.
	Uniforum bool
	// Escape emits non-ASCII bytes as octal escapes.
	Escape bool
	// SortByID orders output by msgid; SortByFile by reference
	// position.
	SortByID   bool
	SortByFile bool
	// NoLocation suppresses #: lines.
	NoLocation bool
}

func (o *WriteOptions) pageWidth() int {
	if o.Width > 0 {
		return o.Width
	}
	return DefaultWidth
}

// Writer serializes catalogs to PO text.
type Writer struct {
	opts WriteOptions
}

func NewWriter(opts *WriteOptions) *Writer {
	w := &Writer{}
	if opts != nil {
		w.opts = *opts
	}
	return w
}

// WriteFile serializes list to path.
func (w *Writer) WriteFile(list *catalog.List, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.WriteList(f, list); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteList serializes a whole catalog, default domain first; other
// domains are introduced by a domain directive.
func (w *Writer) WriteList(out io.Writer, list *catalog.List) error {
	bw := bufio.NewWriter(out)
	for i, d := range list.Domains {
		if i > 0 {
			fmt.Fprintf(bw, "\ndomain %q\n\n", d.Name)
		}
		if err := w.writeMessages(bw, d.Messages); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteMessages serializes a single message list.
func (w *Writer) WriteMessages(out io.Writer, ml *catalog.MessageList) error {
	bw := bufio.NewWriter(out)
	if err := w.writeMessages(bw, ml); err != nil {
		return err
	}
	return bw.Flush()
}

func (w *Writer) writeMessages(bw *bufio.Writer, ml *catalog.MessageList) error {
	if w.opts.SortByID {
		ml.SortByID()
	} else if w.opts.SortByFile {
		ml.SortByFilePos()
	}

	var active, obsolete []*catalog.Message
	for _, m := range ml.Messages {
		if m.Obsolete {
			// Untranslated obsolete entries carry no
			// information worth keeping.
			if m.Translated() && !w.opts.Uniforum {
				obsolete = append(obsolete, m)
			}
		} else {
			active = append(active, m)
		}
	}

	first := true
	for _, m := range append(active, obsolete...) {
		if !first {
			if w.opts.Uniforum {
				bw.WriteString("#\n")
			} else {
				bw.WriteString("\n")
			}
		}
		first = false
		w.writeMessage(bw, m)
	}
	return nil
}

func (w *Writer) writeMessage(bw *bufio.Writer, m *catalog.Message) {
	for _, c := range m.Comments {
		if c == "" {
			bw.WriteString("#\n")
		} else {
			fmt.Fprintf(bw, "# %s\n", c)
		}
	}
	for _, c := range m.ExtractedComments {
		fmt.Fprintf(bw, "#. %s\n", c)
	}
	if !w.opts.NoLocation {
		w.writeFilePos(bw, m.FilePos)
	}
	if flags := w.flagLine(m); flags != "" {
		fmt.Fprintf(bw, "#, %s\n", flags)
	}

	prefix := ""
	if m.Obsolete {
		prefix = "#~ "
	}
	wrap := !w.opts.NoWrap && m.Wrap != catalog.No

	w.writeField(bw, prefix, "msgid", m.MsgID, wrap)
	if m.HasPlural {
		w.writeField(bw, prefix, "msgid_plural", m.MsgIDPlural, wrap)
		for i, s := range m.MsgStr {
			w.writeField(bw, prefix, fmt.Sprintf("msgstr[%d]", i), s, wrap)
		}
	} else {
		s := ""
		if len(m.MsgStr) > 0 {
			s = m.MsgStr[0]
		}
		w.writeField(bw, prefix, "msgstr", s, wrap)
	}
}

// flagLine assembles the #, flag list.  A fuzzy mark on a message with
// no translation at all is dropped, a normalization that keeps merge
// output from flagging entries a translator has not even started.
func (w *Writer) flagLine(m *catalog.Message) string {
	var flags []string
	if m.Fuzzy && (m.Translated() || m.IsHeader()) {
		flags = append(flags, "fuzzy")
	}
	langs := make([]string, 0, len(m.Format))
	for lang := range m.Format {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		switch m.Format[lang] {
		case catalog.FormatYes:
			flags = append(flags, lang+"-format")
		case catalog.FormatNo:
			flags = append(flags, "no-"+lang+"-format")
		case catalog.FormatPossible:
			flags = append(flags, "possible-"+lang+"-format")
		case catalog.FormatImpossible:
			flags = append(flags, "impossible-"+lang+"-format")
		}
	}
	switch m.Wrap {
	case catalog.Yes:
		flags = append(flags, "wrap")
	case catalog.No:
		flags = append(flags, "no-wrap")
	}
	return strings.Join(flags, ", ")
}

// writeFilePos emits #: lines, packing as many references per line as
// the page width allows.
func (w *Writer) writeFilePos(bw *bufio.Writer, refs []catalog.Position) {
	if len(refs) == 0 {
		return
	}
	width := w.opts.pageWidth()
	line := "#:"
	for _, ref := range refs {
		item := " " + ref.String()
		if line != "#:" && !w.opts.NoWrap && charset.StringWidth(line+item) > width {
			bw.WriteString(line + "\n")
			line = "#:"
		}
		line += item
	}
	bw.WriteString(line + "\n")
}

// writeField emits one keyword plus its quoted, wrapped value.
func (w *Writer) writeField(bw *bufio.Writer, prefix, keyword, value string, wrap bool) {
	width := w.opts.pageWidth()
	escaped := w.escapeLines(value)

	if w.opts.Indent {
		// Indented style: keyword and value always share the
		// first line, tab separated; continuation lines are tab
		// indented.
		lines := w.wrapLines(escaped, width-8, wrap)
		fmt.Fprintf(bw, "%s%s\t\"%s\"\n", prefix, keyword, lines[0])
		for _, l := range lines[1:] {
			fmt.Fprintf(bw, "%s\t\"%s\"\n", prefix, l)
		}
		return
	}

	avail := width - charset.StringWidth(prefix+keyword) - 3 // space + quotes
	lines := w.wrapLines(escaped, avail, wrap)
	if len(lines) == 1 && (!wrap || charset.StringWidth(lines[0]) <= avail) {
		fmt.Fprintf(bw, "%s%s \"%s\"\n", prefix, keyword, lines[0])
		return
	}
	// The content will not fit after the keyword: start with an
	// empty string and continue on the following lines.
	fmt.Fprintf(bw, "%s%s \"\"\n", prefix, keyword)
	lines = w.wrapLines(escaped, width-charset.StringWidth(prefix)-2, wrap)
	for _, l := range lines {
		fmt.Fprintf(bw, "%s\"%s\"\n", prefix, l)
	}
}

// escapeLines escapes value and splits it after each \n escape, so
// each element is one output line's content.
func (w *Writer) escapeLines(value string) []string {
	var lines []string
	var sb strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case '\n':
			sb.WriteString("\\n")
			lines = append(lines, sb.String())
			sb.Reset()
			continue
		case '\t':
			sb.WriteString("\\t")
		case '\b':
			sb.WriteString("\\b")
		case '\f':
			sb.WriteString("\\f")
		case '\r':
			sb.WriteString("\\r")
		case '\v':
			sb.WriteString("\\v")
		case '\a':
			sb.WriteString("\\a")
		case '\\':
			sb.WriteString("\\\\")
		case '"':
			sb.WriteString("\\\"")
		default:
			if c < 0x20 || (w.opts.Escape && c >= 0x80) {
				fmt.Fprintf(&sb, "\\%03o", c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	lines = append(lines, sb.String())
	// A value ending in \n leaves a trailing empty element; drop it
	// unless the value was empty.
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// wrapLines wraps each escaped line at the given display width,
// breaking only after spaces; escape sequences and quotes never
// split.  Words longer than the width overflow rather than break.
func (w *Writer) wrapLines(escaped []string, width int, wrap bool) []string {
	if !wrap || width <= 0 {
		return escaped
	}
	var out []string
	for _, line := range escaped {
		if charset.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}
		var cur strings.Builder
		curWidth := 0
		for _, word := range splitAfterSpaces(line) {
			ww := charset.StringWidth(word)
			if curWidth > 0 && curWidth+ww > width {
				out = append(out, cur.String())
				cur.Reset()
				curWidth = 0
			}
			cur.WriteString(word)
			curWidth += ww
		}
		if cur.Len() > 0 {
			out = append(out, cur.String())
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// splitAfterSpaces splits a string into chunks that end after runs of
// spaces, the only legal break points.
func splitAfterSpaces(s string) []string {
	var words []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			for i+1 < len(s) && s[i+1] == ' ' {
				i++
			}
			words = append(words, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}

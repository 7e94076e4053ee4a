package merge

import (
	"fmt"
	"strings"

	"github.com/potools/potools/catalog"
	"github.com/potools/potools/charset"
)

// Input is one catalog fed to Concatenate, with the file name used in
// conflict markers.
type Input struct {
	List *catalog.List
	Name string
}

// CatOptions tune Concatenate.
type CatOptions struct {
	// Selection window: a message is kept when it occurs in more
	// than MoreThan and fewer than LessThan inputs.  LessThan zero
	// means unbounded; unique output is LessThan=2.
	MoreThan int
	LessThan int

	// UseFirst resolves conflicts by taking the first input's
	// translation instead of emitting conflict markers.
	UseFirst bool

	// TargetCharset forces the output encoding.  When empty and the
	// inputs disagree, UTF-8 is selected automatically.
	TargetCharset charset.Canonical
}

// occurrence is one input's definition of a msgid.
type occurrence struct {
	input int
	msg   *catalog.Message
}

// Concatenate unions several catalogs into one, the msgcat operation.
// Disagreeing translations are joined with conflict markers and
// flagged fuzzy rather than silently dropped.
func Concatenate(inputs []Input, opts *CatOptions) (*catalog.List, []catalog.Diagnostic, error) {
	if opts == nil {
		opts = &CatOptions{}
	}
	var diags []catalog.Diagnostic

	target, convDiags, err := unifyCharsets(inputs, opts)
	if err != nil {
		return nil, diags, err
	}
	diags = append(diags, convDiags...)

	out := catalog.NewList()
	for _, name := range domainUnion(inputs) {
		if err := catDomain(inputs, name, target, opts, out.Domain(name).Messages); err != nil {
			return nil, diags, err
		}
	}
	return out, diags, nil
}

func domainUnion(inputs []Input) []string {
	var names []string
	seen := make(map[string]bool)
	for _, in := range inputs {
		for _, d := range in.List.Domains {
			if !seen[d.Name] {
				seen[d.Name] = true
				names = append(names, d.Name)
			}
		}
	}
	return names
}

func catDomain(inputs []Input, domain string, target charset.Canonical, opts *CatOptions, out *catalog.MessageList) error {
	// Collect occurrences per msgid, keeping first-seen order.
	var order []string
	occs := make(map[string][]occurrence)
	for i, in := range inputs {
		for _, d := range in.List.Domains {
			if d.Name != domain {
				continue
			}
			for _, m := range d.Messages.Messages {
				if m.Obsolete {
					continue
				}
				if _, ok := occs[m.MsgID]; !ok {
					order = append(order, m.MsgID)
				}
				occs[m.MsgID] = append(occs[m.MsgID], occurrence{input: i, msg: m})
			}
		}
	}

	for _, msgid := range order {
		list := occs[msgid]

		// The used counter: positive counts good translations,
		// negative counts weak (fuzzy or empty) ones.
		good := 0
		for _, o := range list {
			if isGood(o.msg) {
				good++
			}
		}
		used := good
		if good == 0 {
			used = -len(list)
		}

		header := msgid == ""
		if !header && !selected(used, opts) {
			continue
		}

		m, err := combine(inputs, list, used, target, opts)
		if err != nil {
			return err
		}
		if header && target != "" && len(m.MsgStr) > 0 {
			m.MsgStr[0] = setHeaderCharset(m.MsgStr[0], target)
		}
		out.Append(m)
	}
	return nil
}

func isGood(m *catalog.Message) bool {
	return !m.Fuzzy && m.Translated()
}

func selected(used int, opts *CatOptions) bool {
	n := used
	if n < 0 {
		n = -n
	}
	if n <= opts.MoreThan {
		return false
	}
	if opts.LessThan > 0 && n >= opts.LessThan {
		return false
	}
	return true
}

// combine folds all occurrences of one msgid into a single message.
func combine(inputs []Input, list []occurrence, used int, target charset.Canonical, opts *CatOptions) (*catalog.Message, error) {
	// Prefer good occurrences when any exist.
	candidates := list
	if used > 0 {
		candidates = nil
		for _, o := range list {
			if isGood(o.msg) {
				candidates = append(candidates, o)
			}
		}
	}

	m := candidates[0].msg.Clone()
	if err := convertMessage(m, inputCharset(inputs[candidates[0].input]), target); err != nil {
		return nil, err
	}

	// Positions and comments accumulate from every occurrence.
	for _, o := range list {
		if o.msg == candidates[0].msg {
			continue
		}
		for _, p := range o.msg.FilePos {
			m.AddPos(p)
		}
		m.Comments = append(m.Comments, o.msg.Comments...)
		m.ExtractedComments = append(m.ExtractedComments, o.msg.ExtractedComments...)
	}

	if opts.UseFirst {
		return m, nil
	}

	// Distinct translations among the candidates force a conflict
	// marker join.
	distinct := false
	for _, o := range candidates[1:] {
		if !sameMsgStr(o.msg, candidates[0].msg) {
			distinct = true
			break
		}
	}
	if !distinct {
		return m, nil
	}

	forms := len(m.MsgStr)
	joined := make([]string, forms)
	for _, o := range candidates {
		in := inputs[o.input]
		marker := catMarker(in)
		for f := 0; f < forms; f++ {
			s := ""
			if f < len(o.msg.MsgStr) {
				s = o.msg.MsgStr[f]
			}
			converted, err := convertString(s, inputCharset(in), target)
			if err != nil {
				return nil, err
			}
			if joined[f] != "" {
				joined[f] += "\n"
			}
			joined[f] += marker + "\n" + converted
		}
	}
	m.MsgStr = joined
	m.Fuzzy = true
	return m, nil
}

// catMarker builds the human-revisable conflict separator line.
func catMarker(in Input) string {
	name := in.Name
	if pid := in.List.Default().Messages.HeaderField("Project-Id-Version"); pid != "" {
		name += " (" + pid + ")"
	}
	return fmt.Sprintf("#-#-#-#-#  %s  #-#-#-#-#", name)
}

func sameMsgStr(a, b *catalog.Message) bool {
	if len(a.MsgStr) != len(b.MsgStr) {
		return false
	}
	for i := range a.MsgStr {
		if a.MsgStr[i] != b.MsgStr[i] {
			return false
		}
	}
	return true
}

// unifyCharsets decides the output charset.  Unresolvable charset
// names are a hard error here: cross-file consistency cannot be
// verified otherwise.
func unifyCharsets(inputs []Input, opts *CatOptions) (charset.Canonical, []catalog.Diagnostic, error) {
	var diags []catalog.Diagnostic
	var seen []charset.Canonical
	for _, in := range inputs {
		name := in.List.Default().Messages.Charset()
		if name == "" || name == "CHARSET" {
			continue
		}
		c, ok := charset.Canonicalize(name)
		if !ok {
			return "", diags, fmt.Errorf("%s: charset %q is not a portable encoding name", in.Name, name)
		}
		dup := false
		for _, s := range seen {
			if s == c {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, c)
		}
	}

	if opts.TargetCharset != "" {
		return opts.TargetCharset, diags, nil
	}
	if len(seen) <= 1 {
		// Uniform inputs need no conversion.
		return "", diags, nil
	}
	diags = append(diags, catalog.Diagnostic{
		Message: "warning: input files contain different charsets; converting output to UTF-8",
	})
	return charset.UTF8, diags, nil
}

func inputCharset(in Input) charset.Canonical {
	name := in.List.Default().Messages.Charset()
	if name == "" {
		return charset.ASCII
	}
	c, ok := charset.Canonicalize(name)
	if !ok {
		return charset.ASCII
	}
	return c
}

// convertMessage re-encodes all text fields of a message.
func convertMessage(m *catalog.Message, from, to charset.Canonical) error {
	if to == "" || from == to {
		return nil
	}
	var err error
	if m.MsgID, err = convertString(m.MsgID, from, to); err != nil {
		return err
	}
	if m.MsgIDPlural, err = convertString(m.MsgIDPlural, from, to); err != nil {
		return err
	}
	for i := range m.MsgStr {
		if m.MsgStr[i], err = convertString(m.MsgStr[i], from, to); err != nil {
			return err
		}
	}
	for i := range m.Comments {
		if m.Comments[i], err = convertString(m.Comments[i], from, to); err != nil {
			return err
		}
	}
	for i := range m.ExtractedComments {
		if m.ExtractedComments[i], err = convertString(m.ExtractedComments[i], from, to); err != nil {
			return err
		}
	}
	return nil
}

func convertString(s string, from, to charset.Canonical) (string, error) {
	if to == "" || from == to || s == "" {
		return s, nil
	}
	u, err := charset.ToUTF8(s, from)
	if err != nil {
		return "", err
	}
	return charset.FromUTF8(u, to)
}

func setHeaderCharset(header string, c charset.Canonical) string {
	ct := catalog.HeaderField(header, "Content-Type")
	if ct == "" {
		return catalog.SetHeaderField(header, "Content-Type", "text/plain; charset="+string(c))
	}
	if i := strings.Index(ct, "charset="); i >= 0 {
		ct = ct[:i] + "charset=" + string(c)
	} else {
		ct += "; charset=" + string(c)
	}
	return catalog.SetHeaderField(header, "Content-Type", ct)
}

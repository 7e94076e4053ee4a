package pluralforms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/potools/potools/catalog"
)

// Header is the parsed Plural-Forms attribute of a catalog header.
type Header struct {
	NPlurals int
	Plural   Expression

	// The raw expression text, kept for diagnostics.
	Expr string
}

// ParseHeader extracts and compiles the Plural-Forms field from a
// header msgstr blob.  It returns (nil, nil) when the field is absent
// and an error when it is present but malformed.
func ParseHeader(headerBlob string) (*Header, error) {
	field := catalog.HeaderField(headerBlob, "Plural-Forms")
	if field == "" {
		return nil, nil
	}

	h := &Header{NPlurals: -1}
	for _, part := range strings.Split(field, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		switch k {
		case "nplurals":
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid nplurals value %q", v)
			}
			h.NPlurals = n
		case "plural":
			expr, err := Compile(v)
			if err != nil {
				return nil, fmt.Errorf("invalid plural expression: %v", err)
			}
			h.Plural = expr
			h.Expr = v
		}
	}
	if h.NPlurals < 0 {
		return nil, fmt.Errorf("Plural-Forms field lacks nplurals")
	}
	if h.Plural == nil {
		return nil, fmt.Errorf("Plural-Forms field lacks plural expression")
	}
	return h, nil
}

// sweepLimit is the highest n checked by Validate.
const sweepLimit = 1000

// Validate evaluates the plural expression for every n in
// 0..sweepLimit and reports arithmetic faults, negative results and
// results outside 0..nplurals-1.
func (h *Header) Validate() error {
	for n := uint32(0); n <= sweepLimit; n++ {
		v, err := h.Plural.Eval(n)
		if err != nil {
			return fmt.Errorf("plural expression fails for n = %d: %v", n, err)
		}
		if v < 0 {
			return fmt.Errorf("plural expression yields negative value %d for n = %d", v, n)
		}
		if v >= int64(h.NPlurals) {
			return fmt.Errorf("plural expression yields value %d for n = %d, but nplurals = %d", v, n, h.NPlurals)
		}
	}
	return nil
}

// ValidateCatalog checks the Plural-Forms header of a message list
// against its messages: the expression must be well formed and stay in
// range, every plural message must carry exactly nplurals forms, and
// plural messages without any Plural-Forms header are an error.
func ValidateCatalog(ml *catalog.MessageList) []catalog.Diagnostic {
	var diags []catalog.Diagnostic
	report := func(pos catalog.Position, format string, args ...interface{}) {
		diags = append(diags, catalog.Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...)})
	}

	var h *Header
	var headerPos catalog.Position
	if hm := ml.Header(); hm != nil && len(hm.MsgStr) > 0 {
		headerPos = hm.Pos
		var err error
		h, err = ParseHeader(hm.MsgStr[0])
		if err != nil {
			report(headerPos, "%v", err)
			h = nil
		}
	}
	if h != nil {
		if err := h.Validate(); err != nil {
			report(headerPos, "%v", err)
		}
	}

	hasPlural := false
	for _, m := range ml.Messages {
		if m.Obsolete || !m.HasPlural {
			continue
		}
		hasPlural = true
		if h == nil {
			continue
		}
		if len(m.MsgStr) < h.NPlurals {
			report(m.Pos, "message %q has %d plural forms, but Plural-Forms declares nplurals=%d",
				m.MsgID, len(m.MsgStr), h.NPlurals)
		} else if len(m.MsgStr) > h.NPlurals {
			report(m.Pos, "message %q has too many plural forms: %d, but Plural-Forms declares nplurals=%d",
				m.MsgID, len(m.MsgStr), h.NPlurals)
		}
	}
	if hasPlural && h == nil && len(diags) == 0 {
		report(headerPos, "catalog has plural messages but no valid Plural-Forms header")
	}
	return diags
}

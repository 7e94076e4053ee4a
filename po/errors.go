// Package po reads and writes the PO text catalog format.
package po

import (
	"errors"
	"fmt"

	"github.com/potools/potools/catalog"
)

// DefaultMaxErrors is how many syntax errors a single parse tolerates
// before giving up on the file.
const DefaultMaxErrors = 20

// ErrTooManyErrors aborts a parse once the error cap is reached.
var ErrTooManyErrors = errors.New("too many errors, aborting")

// ParseError is returned when a parse finished but found errors.
type ParseError struct {
	File   string
	Errors int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: found %d fatal error(s)", e.File, e.Errors)
}

// Reporter accumulates positioned diagnostics during one file's parse.
// Errors count against the cap; warnings do not.  The parts of a
// multi-part report count as one error.
type Reporter struct {
	Diags []catalog.Diagnostic

	// MaxErrors is the abort cap; zero means DefaultMaxErrors.
	MaxErrors int

	errors int
}

func (r *Reporter) cap() int {
	if r.MaxErrors > 0 {
		return r.MaxErrors
	}
	return DefaultMaxErrors
}

// Errorf records an error diagnostic.  It returns ErrTooManyErrors
// once the cap is reached, nil otherwise.
func (r *Reporter) Errorf(pos catalog.Position, format string, args ...interface{}) error {
	r.errors++
	r.Diags = append(r.Diags, catalog.Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...)})
	if r.errors >= r.cap() {
		return ErrTooManyErrors
	}
	return nil
}

// Report records a prebuilt diagnostic (possibly multi-part) as one
// error.
func (r *Reporter) Report(d catalog.Diagnostic) error {
	r.errors++
	r.Diags = append(r.Diags, d)
	if r.errors >= r.cap() {
		return ErrTooManyErrors
	}
	return nil
}

// Warnf records a warning; warnings never trip the cap and never make
// the parse fail.
func (r *Reporter) Warnf(pos catalog.Position, format string, args ...interface{}) {
	r.Diags = append(r.Diags, catalog.Diagnostic{Pos: pos, Message: "warning: " + fmt.Sprintf(format, args...)})
}

// ErrorCount reports how many errors (not warnings) were recorded.
func (r *Reporter) ErrorCount() int {
	return r.errors
}

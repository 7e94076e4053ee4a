// Package cli carries the glue shared by the command line drivers:
// option parsing, the diagnostic stream and the verbose logger.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/potools/potools/catalog"
	"github.com/potools/potools/po"
)

// ParseArgs parses argv into opts and returns the positional
// arguments, exiting on --help or usage errors.
func ParseArgs(opts interface{}, argv []string) []string {
	args, err := flags.ParseArgs(opts, argv)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	return args[1:]
}

// Logger builds the -v progress logger.  It writes to stderr; the
// console format is only used on a terminal so redirected output
// stays machine readable.
func Logger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	var w io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// PrintDiagnostics writes diagnostics to stderr in the file:line:
// message form, one line per part.  Unpositioned diagnostics carry
// the program name prefix instead.
func PrintDiagnostics(progname string, diags []catalog.Diagnostic) {
	for _, d := range diags {
		printDiagnostic(progname, d)
	}
}

func printDiagnostic(progname string, d catalog.Diagnostic) {
	if d.Pos.File == "" {
		fmt.Fprintf(os.Stderr, "%s: %s\n", progname, d.Message)
	} else {
		fmt.Fprintf(os.Stderr, "%s: %s\n", d.Pos, d.Message)
	}
	for _, p := range d.Parts {
		printDiagnostic(progname, p)
	}
}

// Fatalf prints a progname-prefixed message and exits with status 1.
func Fatalf(progname, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", progname, fmt.Sprintf(format, args...))
	os.Exit(1)
}

// FindFile resolves filename against the -D search directories.
func FindFile(dirs []string, filename string) string {
	if len(dirs) == 0 || filepath.IsAbs(filename) {
		return filename
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, filename)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filename
}

// ReadPO parses one PO file, printing its diagnostic stream, and
// exits on fatal errors.
func ReadPO(progname, path string, opts *po.ParseOptions) *catalog.List {
	list, diags, err := po.ReadFile(path, opts)
	PrintDiagnostics(progname, diags)
	if err != nil {
		Fatalf(progname, "%s", err)
	}
	return list
}

// OutputOptions are the PO serialization flags shared by every tool
// that writes a catalog back out.
type OutputOptions struct {
	Indent     bool `short:"i" long:"indent" description:"write the .po file using indented style"`
	NoLocation bool `long:"no-location" description:"do not write '#: filename:line' lines"`
	Strict     bool `long:"strict" description:"write out strict Uniforum conforming .po file"`
	Escape     bool `short:"E" long:"escape" description:"use C escapes in output, no extended chars"`
	Width      int  `short:"w" long:"width" value-name:"NUMBER" description:"set output page width"`
	NoWrap     bool `long:"no-wrap" description:"do not break long message lines into several lines"`
	SortOutput bool `short:"s" long:"sort-output" description:"generate sorted output"`
	SortByFile bool `short:"F" long:"sort-by-file" description:"sort output by file location"`
}

// WriteOptions translates the flags into the writer's options.
func (o *OutputOptions) WriteOptions() *po.WriteOptions {
	return &po.WriteOptions{
		Width:      o.Width,
		NoWrap:     o.NoWrap,
		Indent:     o.Indent,
		Uniforum:   o.Strict,
		Escape:     o.Escape,
		SortByID:   o.SortOutput,
		SortByFile: o.SortByFile,
		NoLocation: o.NoLocation,
	}
}

// WritePO serializes a catalog to path, "-" or empty meaning stdout.
func WritePO(progname string, list *catalog.List, path string, opts *po.WriteOptions) {
	w := po.NewWriter(opts)
	var err error
	if path == "" || path == "-" {
		err = w.WriteList(os.Stdout, list)
	} else {
		err = w.WriteFile(list, path)
	}
	if err != nil {
		Fatalf(progname, "cannot write %s: %s", path, err)
	}
}

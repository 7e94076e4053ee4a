package main

import (
	"bytes"
	"os"
	"strings"

	"github.com/potools/potools/charset"
	"github.com/potools/potools/internal/cli"
	"github.com/potools/potools/merge"
	"github.com/potools/potools/po"
)

const progname = "msgcat"

type options struct {
	FilesFrom string `short:"f" long:"files-from" value-name:"FILE" description:"get list of input files from FILE"`

	Directories []string `short:"D" long:"directory" value-name:"DIRECTORY" description:"add DIRECTORY to list for input files search"`

	Output string `short:"o" long:"output-file" value-name:"FILE" description:"write output to specified file"`

	MoreThan int `long:"more-than" value-name:"NUMBER" description:"print messages with more than this many definitions"`

	LessThan int `long:"less-than" value-name:"NUMBER" description:"print messages with less than this many definitions, defaults to infinite if not set"`

	Unique bool `short:"u" long:"unique" description:"shorthand for --less-than=2, requests that only unique messages be printed"`

	UseFirst bool `long:"use-first" description:"use first available translation for each message, don't merge several translations"`

	ToCode string `short:"t" long:"to-code" value-name:"NAME" description:"encoding for output"`

	cli.OutputOptions

	Verbose bool `short:"v" long:"verbose" description:"increase verbosity level"`
}

func main() {
	var opts options
	args := cli.ParseArgs(&opts, os.Args)
	log := cli.Logger(opts.Verbose)

	files := args
	if opts.FilesFrom != "" {
		content, err := os.ReadFile(opts.FilesFrom)
		if err != nil {
			cli.Fatalf(progname, "cannot read file %s: %s", opts.FilesFrom, err)
		}
		content = bytes.TrimSpace(content)
		files = strings.Split(string(content), "\n")
	}
	if len(files) == 0 {
		cli.Fatalf(progname, "no input file given")
	}

	catOpts := merge.CatOptions{
		MoreThan: opts.MoreThan,
		LessThan: opts.LessThan,
		UseFirst: opts.UseFirst,
	}
	if opts.Unique {
		catOpts.LessThan = 2
	}
	if opts.ToCode != "" {
		c, ok := charset.Canonicalize(opts.ToCode)
		if !ok {
			cli.Fatalf(progname, "charset %q is not a portable encoding name", opts.ToCode)
		}
		catOpts.TargetCharset = c
	}

	var inputs []merge.Input
	for _, filename := range files {
		path := cli.FindFile(opts.Directories, filename)
		// Several input files may legitimately define the same
		// msgid twice; fold those instead of failing.
		list := cli.ReadPO(progname, path, &po.ParseOptions{AllowDuplicates: true})
		inputs = append(inputs, merge.Input{List: list, Name: filename})
	}
	log.Debug().Int("inputs", len(inputs)).Msg("parsed all inputs")

	out, diags, err := merge.Concatenate(inputs, &catOpts)
	cli.PrintDiagnostics(progname, diags)
	if err != nil {
		cli.Fatalf(progname, "%s", err)
	}

	cli.WritePO(progname, out, opts.Output, opts.WriteOptions())
}

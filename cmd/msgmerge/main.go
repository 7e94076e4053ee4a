package main

import (
	"os"

	"github.com/potools/potools/catalog"
	"github.com/potools/potools/internal/cli"
	"github.com/potools/potools/merge"
)

const progname = "msgmerge"

type options struct {
	Directories []string `short:"D" long:"directory" value-name:"DIRECTORY" description:"add DIRECTORY to list for input files search"`

	Compendiums []string `short:"C" long:"compendium" value-name:"FILE" description:"additional library of message translations, may be specified more than once"`

	Update bool `short:"U" long:"update" description:"update def.po, do nothing if def.po is already up to date"`

	Output string `short:"o" long:"output-file" value-name:"FILE" description:"write output to specified file"`

	MultiDomain bool `short:"m" long:"multi-domain" description:"apply ref.pot to each of the domains in def.po"`

	cli.OutputOptions

	Verbose bool `short:"v" long:"verbose" description:"increase verbosity level"`
}

func main() {
	var opts options
	args := cli.ParseArgs(&opts, os.Args)
	if len(args) != 2 {
		cli.Fatalf(progname, "exactly 2 input files required")
	}
	log := cli.Logger(opts.Verbose)

	defPath := cli.FindFile(opts.Directories, args[0])
	refPath := cli.FindFile(opts.Directories, args[1])
	def := cli.ReadPO(progname, defPath, nil)
	ref := cli.ReadPO(progname, refPath, nil)

	var compendiums []*catalog.MessageList
	for _, path := range opts.Compendiums {
		comp := cli.ReadPO(progname, cli.FindFile(opts.Directories, path), nil)
		compendiums = append(compendiums, comp.Default().Messages)
	}

	result, stats := merge.Merge(def, ref, compendiums, &merge.Options{
		MultiDomain: opts.MultiDomain,
	})
	log.Debug().
		Int("merged", stats.Merged).
		Int("fuzzied", stats.Fuzzied).
		Int("missing", stats.Missing).
		Int("obsolete", stats.Obsolete).
		Msg("merge complete")

	out := opts.Output
	if opts.Update {
		out = defPath
	}
	cli.WritePO(progname, result, out, opts.WriteOptions())
}

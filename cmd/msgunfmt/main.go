package main

import (
	"os"

	"github.com/potools/potools/catalog"
	"github.com/potools/potools/internal/cli"
	"github.com/potools/potools/mo"
)

const progname = "msgunfmt"

type options struct {
	Output string `short:"o" long:"output-file" value-name:"FILE" description:"write output to specified file instead of standard output"`

	cli.OutputOptions

	Verbose bool `short:"v" long:"verbose" description:"increase verbosity level"`
}

func main() {
	var opts options
	args := cli.ParseArgs(&opts, os.Args)
	if len(args) == 0 {
		cli.Fatalf(progname, "no input file given")
	}
	log := cli.Logger(opts.Verbose)

	list := catalog.NewList()
	out := list.Default().Messages
	for _, filename := range args {
		ml, err := mo.ReadFile(filename)
		if err != nil {
			cli.Fatalf(progname, "%s: %s", filename, err)
		}
		log.Debug().Str("file", filename).Int("messages", len(ml.Messages)).Msg("decoded")
		for _, m := range ml.Messages {
			if out.Search(m.MsgID) != nil {
				continue
			}
			out.Append(m)
		}
	}

	cli.WritePO(progname, list, opts.Output, opts.WriteOptions())
}

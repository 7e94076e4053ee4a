package main

import (
	"os"

	"github.com/potools/potools/internal/cli"
	"github.com/potools/potools/merge"
)

const progname = "msgcmp"

type options struct {
	Directories []string `short:"D" long:"directory" value-name:"DIRECTORY" description:"add DIRECTORY to list for input files search"`
}

func main() {
	var opts options
	args := cli.ParseArgs(&opts, os.Args)
	if len(args) != 2 {
		cli.Fatalf(progname, "exactly 2 input files required")
	}

	def := cli.ReadPO(progname, cli.FindFile(opts.Directories, args[0]), nil)
	ref := cli.ReadPO(progname, cli.FindFile(opts.Directories, args[1]), nil)

	errors, diags := merge.Compare(def, ref)
	cli.PrintDiagnostics(progname, diags)
	if errors > 0 {
		cli.Fatalf(progname, "found %d fatal error(s)", errors)
	}
}

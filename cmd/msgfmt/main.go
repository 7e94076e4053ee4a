package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/potools/potools/catalog"
	"github.com/potools/potools/internal/cli"
	"github.com/potools/potools/mo"
	"github.com/potools/potools/pluralforms"
)

const progname = "msgfmt"

type options struct {
	Directories []string `short:"D" long:"directory" value-name:"DIRECTORY" description:"add DIRECTORY to list for input files search"`

	Output string `short:"o" long:"output-file" default:"messages.mo" value-name:"FILE" description:"write output to specified file"`

	Check bool `short:"c" long:"check" description:"perform all sanity checks on the input file"`

	UseFuzzy bool `short:"f" long:"use-fuzzy" description:"use fuzzy entries in output"`

	Alignment int `short:"a" long:"alignment" default:"1" value-name:"NUMBER" description:"align strings to NUMBER bytes"`

	Endianness string `long:"endianness" default:"little" choice:"little" choice:"big" value-name:"BYTEORDER" description:"write out 32-bit numbers in the given byte order"`

	NoHash bool `long:"no-hash" description:"binary file will not include the hash table"`

	Statistics bool `long:"statistics" description:"print statistics about translations"`

	Verbose bool `short:"v" long:"verbose" description:"increase verbosity level"`
}

func main() {
	var opts options
	args := cli.ParseArgs(&opts, os.Args)
	if len(args) == 0 {
		cli.Fatalf(progname, "no input file given")
	}
	log := cli.Logger(opts.Verbose)

	order := binary.ByteOrder(binary.LittleEndian)
	if opts.Endianness == "big" {
		order = binary.BigEndian
	}

	for _, filename := range args {
		path := cli.FindFile(opts.Directories, filename)
		list := cli.ReadPO(progname, path, nil)
		log.Debug().Str("file", path).Int("domains", len(list.Domains)).Msg("parsed")

		errors := 0
		for _, d := range list.Domains {
			diags := pluralforms.ValidateCatalog(d.Messages)
			cli.PrintDiagnostics(progname, diags)
			errors += len(diags)
		}
		if opts.Check && errors > 0 {
			cli.Fatalf(progname, "found %d fatal error(s)", errors)
		}

		for _, d := range list.Domains {
			out := opts.Output
			if d.Name != catalog.DefaultDomain {
				out = d.Name + ".mo"
			}
			writeDomain(d.Messages, out, order, &opts, log)
		}
	}
}

func writeDomain(ml *catalog.MessageList, out string, order binary.ByteOrder, opts *options, log zerolog.Logger) {
	translated, fuzzy, untranslated := 0, 0, 0
	filtered := catalog.NewMessageList()
	for _, m := range ml.Messages {
		if m.Obsolete {
			continue
		}
		switch {
		case m.IsHeader():
		case !m.Translated():
			untranslated++
			continue
		case m.Fuzzy:
			fuzzy++
			if !opts.UseFuzzy {
				continue
			}
		default:
			translated++
		}
		filtered.Append(m)
	}

	if err := mo.WriteFile(filtered, out, &mo.WriteOptions{
		Order:     order,
		Alignment: opts.Alignment,
		NoHash:    opts.NoHash,
	}); err != nil {
		cli.Fatalf(progname, "cannot write %s: %s", out, err)
	}
	log.Debug().Str("file", out).Int("messages", len(filtered.Messages)).Msg("wrote")

	if opts.Statistics {
		fmt.Fprintf(os.Stderr, "%d translated messages, %d fuzzy translations, %d untranslated messages.\n",
			translated, fuzzy, untranslated)
	}
}

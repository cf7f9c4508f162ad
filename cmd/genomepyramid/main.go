// Command genomepyramid is the CLI front-end around the core aggregation
// library: four subcommands, one per input kind, each wiring an adapter
// (package adapters) through a placer and into an output store
// (densestore or tabular), in the style of bio-pamtool's per-subcommand
// dispatch.
package main

import (
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s {bigwig,bedgraph,bedfile,bedpe} [OPTIONS]\n", os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	shutdown := grail.Init()
	defer shutdown()

	var err error
	switch os.Args[1] {
	case "bigwig":
		err = runBigwig(os.Args[2:])
	case "bedgraph":
		err = runBedgraph(os.Args[2:])
	case "bedfile":
		err = runBedfile(os.Args[2:])
	case "bedpe":
		err = runBedpe(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Panicf("%v", err)
	}
}

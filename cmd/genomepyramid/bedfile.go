package main

import (
	"flag"
	"strconv"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/genomepyramid/adapters"
	"github.com/grailbio/genomepyramid/outsink"
	"github.com/grailbio/genomepyramid/placer1d"
	"github.com/grailbio/genomepyramid/tabular"
)

// parseImportanceFlag implements the --importance-column contract of
// spec.md §6: absent -> span, literal "random" -> uniform draw, else a
// 1-based column index.
func parseImportanceFlag(raw string) (adapters.ImportanceMode, int) {
	switch raw {
	case "":
		return adapters.ImportanceSpan, 0
	case "random":
		return adapters.ImportanceRandom, 0
	default:
		col, err := strconv.Atoi(raw)
		if err != nil {
			return adapters.ImportanceSpan, 0
		}
		return adapters.ImportanceColumn, col
	}
}

func runBedfile(args []string) error {
	fs := flag.NewFlagSet("bedfile", flag.ExitOnError)
	common := addCommonFlags(fs)
	hasHeader := fs.Bool("has-header", false, "First line is a header row")
	maxPerTile := fs.Int("max-per-tile", 100, "Importance-ranked top-K cap per zoom/tile")
	importanceColumn := fs.String("importance-column", "", `Absent: span length. Literal "random": uniform draw. Else: 1-based column index.`)
	chromosome := fs.String("chromosome", "", "Restrict to one chromosome")
	inputFile := fs.String("input-file", "", "Path to the BED input file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	asm, err := common.resolveAssembly()
	if err != nil {
		return err
	}
	geom, err := common.geometry(asm)
	if err != nil {
		return err
	}

	mode, col := parseImportanceFlag(*importanceColumn)

	ctx := vcontext.Background()
	in, err := outsink.Open(*inputFile)
	if err != nil {
		return err
	}
	defer in.Close(ctx) // nolint: errcheck

	adapter := &adapters.IntervalAdapter{
		Assembly: asm,
		Opts: adapters.IntervalOpts{
			HasHeader:      *hasHeader,
			Chromosome:     *chromosome,
			ImportanceMode: mode,
			ImportanceCol:  col,
			Seed:           seedFromClock(),
		},
	}
	entries, err := adapter.Run(in.Reader(ctx))
	if err != nil {
		return err
	}

	if err := placer1d.Place(geom, entries, *maxPerTile); err != nil {
		return err
	}

	info := tabular.TilesetInfo{
		Assembly:   asm.Name(),
		ChromNames: asm.ChromNames(),
		ChromSizes: asm.ChromSizes(),
		TileSize:   *common.tileSize,
		ZoomStep:   *common.zoomStep,
		MaxZoom:    geom.MaxZoom(),
		MaxWidth:   geom.MaxWidth(),
	}
	store, err := tabular.NewIntervalStore(geom, info, entries)
	if err != nil {
		return err
	}
	log.Debug.Printf("bedfile: placed %d entries", len(entries))
	return store.WriteTo(*common.outputFile)
}

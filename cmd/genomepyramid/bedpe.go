package main

import (
	"flag"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/genomepyramid/adapters"
	"github.com/grailbio/genomepyramid/outsink"
	"github.com/grailbio/genomepyramid/placer2d"
	"github.com/grailbio/genomepyramid/tabular"
)

func runBedpe(args []string) error {
	fs := flag.NewFlagSet("bedpe", flag.ExitOnError)
	common := addCommonFlags(fs)
	hasHeader := fs.Bool("has-header", false, "First line is a header row")
	maxPerTile := fs.Int("max-per-tile", 100, "Importance-ranked cap per zoom/tile")
	importanceColumn := fs.String("importance-column", "", `Absent: max(xspan,yspan). Literal "random": uniform draw. Else: 1-based column index.`)
	chr1Col := fs.Int("chr1-col", 1, "1-based first-chromosome column")
	from1Col := fs.Int("from1-col", 2, "1-based first-from column")
	to1Col := fs.Int("to1-col", 3, "1-based first-to column")
	chr2Col := fs.Int("chr2-col", 4, "1-based second-chromosome column")
	from2Col := fs.Int("from2-col", 5, "1-based second-from column")
	to2Col := fs.Int("to2-col", 6, "1-based second-to column")
	inputFile := fs.String("input-file", "", "Path to the BEDPE input file")
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

	adapter := &adapters.PairAdapter{
		Assembly: asm,
		Opts: adapters.PairOpts{
			HasHeader:      *hasHeader,
			Chr1Col:        *chr1Col,
			From1Col:       *from1Col,
			To1Col:         *to1Col,
			Chr2Col:        *chr2Col,
			From2Col:       *from2Col,
			To2Col:         *to2Col,
			ImportanceMode: mode,
			ImportanceCol:  col,
			Seed:           seedFromClock(),
		},
	}
	entries, err := adapter.Run(in.Reader(ctx))
	if err != nil {
		return err
	}

	result, err := placer2d.Place(geom, entries, *maxPerTile)
	if err != nil {
		return err
	}
	if result.DroppedCount > 0 {
		log.Printf("bedpe: %d entries did not fit at any zoom and were dropped", result.DroppedCount)
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
	store := tabular.NewPairStore(geom, info, entries)
	return store.WriteTo(*common.outputFile)
}

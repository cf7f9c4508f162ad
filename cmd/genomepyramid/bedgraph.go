package main

import (
	"flag"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/genomepyramid/adapters"
	"github.com/grailbio/genomepyramid/densestore"
	"github.com/grailbio/genomepyramid/outsink"
	"github.com/grailbio/genomepyramid/pyramid"
)

func runBedgraph(args []string) error {
	fs := flag.NewFlagSet("bedgraph", flag.ExitOnError)
	common := addCommonFlags(fs)
	chunkShift := fs.Int("chunk-size", 14, "Chunk size as a power-of-two multiplier")
	chromCol := fs.Int("chromosome-col", 1, "1-based chromosome column")
	fromCol := fs.Int("from-pos-col", 2, "1-based start-position column")
	toCol := fs.Int("to-pos-col", 3, "1-based end-position column")
	valueCol := fs.Int("value-col", 4, "1-based value column")
	nanValue := fs.String("nan-value", "", "Literal value string treated as NaN")
	transform := fs.String("transform", "none", "Value transform: none or exp2")
	method := fs.String("method", "sum", "Bucket-overlap aggregation method: sum or average")
	hasHeader := fs.Bool("has-header", false, "First line is a header row")
	inputFile := fs.String("input-file", "", "Path to the bedgraph input file")
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

	var xform adapters.Transform
	if *transform == "exp2" {
		xform = adapters.TransformExp2
	}
	var meth adapters.Method
	if *method == "average" {
		meth = adapters.MethodAverage
	}

	ctx := vcontext.Background()
	in, err := outsink.Open(*inputFile)
	if err != nil {
		return err
	}
	defer in.Close(ctx) // nolint: errcheck

	meta := densestore.Metadata{
		Assembly:   asm.Name(),
		ChromNames: asm.ChromNames(),
		ChromSizes: asm.ChromSizes(),
		TileSize:   *common.tileSize,
		MaxZoom:    geom.MaxZoom(),
		ZoomStep:   *common.zoomStep,
		ChunkShift: uint(*chunkShift),
	}
	writer, err := densestore.Create(*common.outputFile, meta)
	if err != nil {
		return err
	}
	builder, err := pyramid.New(geom, *common.zoomStep, uint(*chunkShift), writer)
	if err != nil {
		return err
	}

	adapter := &adapters.BedgraphAdapter{
		Assembly: asm,
		Opts: adapters.BedgraphOpts{
			ChromCol:  *chromCol,
			FromCol:   *fromCol,
			ToCol:     *toCol,
			ValueCol:  *valueCol,
			HasHeader: *hasHeader,
			NanValue:  *nanValue,
			Transform: xform,
			Method:    meth,
		},
	}
	chunkSize := int64(1) << uint(*chunkShift)
	if err := adapter.Run(in.Reader(ctx), chunkSize, &densePushSink{builder: builder}); err != nil {
		return err
	}
	if err := builder.Finish(); err != nil {
		return err
	}
	return writer.Close()
}

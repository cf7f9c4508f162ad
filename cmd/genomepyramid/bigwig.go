package main

import (
	"encoding/gob"
	"flag"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/genomepyramid/adapters"
	"github.com/grailbio/genomepyramid/densestore"
	"github.com/grailbio/genomepyramid/genome"
	"github.com/grailbio/genomepyramid/outsink"
	"github.com/grailbio/genomepyramid/pyramid"
)

// gobSignalSource is this CLI's concrete stand-in for the "indexed binary
// signal source" spec.md §1 calls out as an external collaborator (the
// signal-file reader library itself, e.g. a bigWig decoder, is explicitly
// out of scope). It decodes a whole-file gob of per-chromosome value
// arrays up front, which is enough to exercise adapters.SignalAdapter end
// to end without pulling in a bigWig parsing dependency the retrieved
// corpus does not provide.
type gobSignalSource struct {
	data map[string][]float64
}

func loadGobSignalSource(path string) (*gobSignalSource, error) {
	ctx := vcontext.Background()
	f, err := outsink.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close(ctx)
	var data map[string][]float64
	if err := gob.NewDecoder(f.Reader(ctx)).Decode(&data); err != nil {
		return nil, genome.WrapError(genome.ErrMalformedRecord, err, "bigwig: decode %s", path)
	}
	return &gobSignalSource{data: data}, nil
}

func (s *gobSignalSource) HasChrom(chrom string) bool {
	_, ok := s.data[chrom]
	return ok
}

func (s *gobSignalSource) ReadWindow(chrom string, offset, length int64) ([]float64, error) {
	vals := s.data[chrom]
	end := offset + length
	if end > int64(len(vals)) {
		end = int64(len(vals))
	}
	if offset > end {
		offset = end
	}
	return vals[offset:end], nil
}

// densePushSink adapts pyramid.Builder to adapters.PushSink.
type densePushSink struct {
	builder *pyramid.Builder
}

func (d *densePushSink) Push(values []float64, nanFlags []bool) error {
	return d.builder.Push(values, nanFlags)
}

func runBigwig(args []string) error {
	fs := flag.NewFlagSet("bigwig", flag.ExitOnError)
	common := addCommonFlags(fs)
	chunkShift := fs.Int("chunk-size", 14, "Chunk size as a power-of-two multiplier (spec default 2^14)")
	chromosome := fs.String("chromosome", "", "Restrict to one chromosome")
	inputFile := fs.String("input-file", "", "Path to the indexed binary signal file")
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
	source, err := loadGobSignalSource(*inputFile)
	if err != nil {
		return err
	}

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

	adapter := &adapters.SignalAdapter{
		Assembly:   asm,
		Source:     source,
		ChunkSize:  int64(1) << uint(*chunkShift),
		Chromosome: *chromosome,
	}
	if err := adapter.Run(&densePushSink{builder: builder}); err != nil {
		return err
	}
	if err := builder.Finish(); err != nil {
		return err
	}
	return writer.Close()
}

package adapters

import (
	"math"
	"testing"

	"github.com/grailbio/genomepyramid/assembly"
)

type fakeSignalSource struct {
	present map[string]bool
	data    map[string][]float64
}

func (f *fakeSignalSource) HasChrom(chrom string) bool { return f.present[chrom] }

func (f *fakeSignalSource) ReadWindow(chrom string, offset, length int64) ([]float64, error) {
	vals := f.data[chrom]
	end := offset + length
	if end > int64(len(vals)) {
		end = int64(len(vals))
	}
	return vals[offset:end], nil
}

func TestSignalAdapterMissingChromIsAllNaN(t *testing.T) {
	asm := mustAssembly(t,
		assembly.Chrom{Name: "chr1", Length: 4},
		assembly.Chrom{Name: "chr2", Length: 3},
	)
	src := &fakeSignalSource{
		present: map[string]bool{"chr1": true},
		data:    map[string][]float64{"chr1": {1, 2, 3, 4}},
	}
	a := &SignalAdapter{Assembly: asm, Source: src, ChunkSize: 2}
	sink := &capturingSink{}
	if err := a.Run(sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.values) != 7 {
		t.Fatalf("expected 7 total values (chr1 4 + chr2 3), got %d", len(sink.values))
	}
	for i := 0; i < 4; i++ {
		if sink.values[i] != float64(i+1) {
			t.Errorf("chr1 pos %d: got %v", i, sink.values[i])
		}
	}
	for i := 4; i < 7; i++ {
		if !math.IsNaN(sink.values[i]) || !sink.nans[i] {
			t.Errorf("chr2 (missing) pos %d: expected NaN, got %v", i, sink.values[i])
		}
	}
}

func TestSignalAdapterChromosomeRestriction(t *testing.T) {
	asm := mustAssembly(t,
		assembly.Chrom{Name: "chr1", Length: 2},
		assembly.Chrom{Name: "chr2", Length: 2},
	)
	src := &fakeSignalSource{
		present: map[string]bool{"chr1": true, "chr2": true},
		data:    map[string][]float64{"chr1": {1, 2}, "chr2": {3, 4}},
	}
	a := &SignalAdapter{Assembly: asm, Source: src, ChunkSize: 10, Chromosome: "chr2"}
	sink := &capturingSink{}
	if err := a.Run(sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.values) != 2 || sink.values[0] != 3 || sink.values[1] != 4 {
		t.Fatalf("expected only chr2's values, got %v", sink.values)
	}
}

package adapters

import (
	"math"
	"strings"
	"testing"

	"github.com/grailbio/genomepyramid/assembly"
	"github.com/grailbio/genomepyramid/genome"
)

type capturingSink struct {
	values []float64
	nans   []bool
}

func (s *capturingSink) Push(values []float64, nanFlags []bool) error {
	s.values = append(s.values, values...)
	s.nans = append(s.nans, nanFlags...)
	return nil
}

func mustAssembly(t *testing.T, chroms ...assembly.Chrom) *assembly.Assembly {
	t.Helper()
	a, err := assembly.New("test", chroms)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// TestBedgraphNaNGap is spec §8 scenario 4: records (chr1,0,10,5.0) then
// (chr1,20,30,7.0) produce positions 0-9 = 5.0, 10-19 = NaN, 20-29 = 7.0.
func TestBedgraphNaNGap(t *testing.T) {
	asm := mustAssembly(t, assembly.Chrom{Name: "chr1", Length: 100})
	a := &BedgraphAdapter{
		Assembly: asm,
		Opts: BedgraphOpts{
			ChromCol: 1, FromCol: 2, ToCol: 3, ValueCol: 4,
			NanValue: "NA",
		},
	}
	in := "chr1\t0\t10\t5.0\nchr1\t20\t30\t7.0\n"
	sink := &capturingSink{}
	if err := a.Run(strings.NewReader(in), 1000, sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.values) != 30 {
		t.Fatalf("expected 30 values, got %d", len(sink.values))
	}
	for i := 0; i < 10; i++ {
		if sink.values[i] != 5.0 || sink.nans[i] {
			t.Errorf("pos %d: want 5.0/not-nan, got %v/%v", i, sink.values[i], sink.nans[i])
		}
	}
	for i := 10; i < 20; i++ {
		if !math.IsNaN(sink.values[i]) || !sink.nans[i] {
			t.Errorf("pos %d: want NaN/nan, got %v/%v", i, sink.values[i], sink.nans[i])
		}
	}
	for i := 20; i < 30; i++ {
		if sink.values[i] != 7.0 || sink.nans[i] {
			t.Errorf("pos %d: want 7.0/not-nan, got %v/%v", i, sink.values[i], sink.nans[i])
		}
	}
}

// TestBedgraphExp2Transform is spec §8 scenario 6.
func TestBedgraphExp2Transform(t *testing.T) {
	asm := mustAssembly(t, assembly.Chrom{Name: "chr1", Length: 100})
	a := &BedgraphAdapter{
		Assembly: asm,
		Opts: BedgraphOpts{
			ChromCol: 1, FromCol: 2, ToCol: 3, ValueCol: 4,
			Transform: TransformExp2,
		},
	}
	sink := &capturingSink{}
	if err := a.Run(strings.NewReader("chr1\t0\t1\t3.0\n"), 1000, sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.values) != 1 || sink.values[0] != 8.0 {
		t.Fatalf("expected [8.0], got %v", sink.values)
	}
}

func TestBedgraphAverageUnimplemented(t *testing.T) {
	asm := mustAssembly(t, assembly.Chrom{Name: "chr1", Length: 100})
	a := &BedgraphAdapter{
		Assembly: asm,
		Opts: BedgraphOpts{
			ChromCol: 1, FromCol: 2, ToCol: 3, ValueCol: 4,
			Method: MethodAverage,
		},
	}
	err := a.Run(strings.NewReader("chr1\t0\t1\t3.0\n"), 1000, &capturingSink{})
	if genome.KindOf(err) != genome.ErrUnimplemented {
		t.Fatalf("expected ErrUnimplemented, got %v", err)
	}
}

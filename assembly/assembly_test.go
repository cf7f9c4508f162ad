package assembly

import (
	"testing"

	"github.com/grailbio/genomepyramid/genome"
)

func testAssembly(t *testing.T) *Assembly {
	a, err := New("testasm", []Chrom{
		{Name: "chr1", Length: 1000},
		{Name: "chr2", Length: 500},
		{Name: "chr14", Length: 250},
	})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestGlobalLocalRoundTrip(t *testing.T) {
	a := testAssembly(t)
	cases := []struct {
		chrom string
		pos   int64
	}{
		{"chr1", 0},
		{"chr1", 999},
		{"chr2", 0},
		{"chr2", 500},
		{"chr14", 250},
	}
	for _, c := range cases {
		g, err := a.Global(c.chrom, c.pos)
		if err != nil {
			t.Fatalf("Global(%s, %d): %v", c.chrom, c.pos, err)
		}
		gotChrom, gotPos, err := a.Local(g)
		if err != nil {
			t.Fatalf("Local(%d): %v", g, err)
		}
		if gotChrom != c.chrom || gotPos != c.pos {
			t.Errorf("round trip %s:%d -> %d -> %s:%d", c.chrom, c.pos, g, gotChrom, gotPos)
		}
	}
}

func TestUnknownChromosome(t *testing.T) {
	a := testAssembly(t)
	if _, err := a.Global("chrX", 0); genome.KindOf(err) != genome.ErrUnknownChromosome {
		t.Errorf("expected ErrUnknownChromosome, got %v", err)
	}
}

func TestCoordinateOutOfRange(t *testing.T) {
	a := testAssembly(t)
	if _, err := a.Global("chr1", 1001); genome.KindOf(err) != genome.ErrCoordinateOutOfRange {
		t.Errorf("expected ErrCoordinateOutOfRange, got %v", err)
	}
}

func TestCumAndTotalLength(t *testing.T) {
	a := testAssembly(t)
	cum, err := a.Cum("chr2")
	if err != nil {
		t.Fatal(err)
	}
	if cum != 1000 {
		t.Errorf("cum(chr2) = %d, want 1000", cum)
	}
	if a.TotalLength() != 1750 {
		t.Errorf("TotalLength() = %d, want 1750", a.TotalLength())
	}
}

func TestDuplicateChromosomeRejected(t *testing.T) {
	_, err := New("dup", []Chrom{{Name: "chr1", Length: 10}, {Name: "chr1", Length: 20}})
	if genome.KindOf(err) != genome.ErrInvalidGeometry {
		t.Errorf("expected ErrInvalidGeometry for duplicate name, got %v", err)
	}
}
